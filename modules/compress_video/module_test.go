package compress_video

import (
	"testing"

	"github.com/specialistvlad/mediagrid/internal/backend"
	"github.com/specialistvlad/mediagrid/internal/registry"
	"github.com/specialistvlad/mediagrid/internal/session"
	"github.com/specialistvlad/mediagrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestCompressVideo(t *testing.T) {
	testCases := []struct {
		name     string
		literals map[string]cty.Value
		crf      int
		bitrate  int
	}{
		{
			name:     "crf",
			literals: map[string]cty.Value{"crf_value": cty.NumberIntVal(30)},
			crf:      30,
		},
		{
			name: "bitrate",
			literals: map[string]cty.Value{
				"compression_method": cty.StringVal(MethodBitrate),
				"target_bitrate":     cty.NumberIntVal(800),
			},
			bitrate: 800,
		},
		{
			// 10 MB over 80 s leaves 1048.576 kbps, minus 128 for audio.
			name: "filesize",
			literals: map[string]cty.Value{
				"compression_method": cty.StringVal(MethodFilesize),
				"target_filesize_mb": cty.NumberIntVal(10),
			},
			bitrate: 920,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testutil.NewContext(t)
			sess, err := session.New(t.TempDir())
			require.NoError(t, err)
			fake := testutil.NewFakeBackend()
			fake.Metadata["/in/clip.mp4"] = &backend.Metadata{Duration: 80}
			tc.literals["video_file"] = cty.StringVal("/in/clip.mp4")

			outs, err := (&Module{Backend: fake}).run(ctx, &registry.Invocation{
				NodeID:  "small",
				Session: sess,
				Inputs:  testutil.Inputs(contract, tc.literals),
			})
			require.NoError(t, err)
			assert.Contains(t, outs["compressed_video"].AsString(), "compressed_video.mp4")

			calls := fake.Calls()
			last := calls[len(calls)-1]
			assert.Equal(t, "transform", last.Method)
			assert.Equal(t, backend.OperationSpec{
				Operation:    backend.OpCompress,
				Format:       "mp4",
				Preset:       "medium",
				AudioBitrate: 128,
				CRF:          tc.crf,
				VideoBitrate: tc.bitrate,
			}, last.Spec)
		})
	}
}

func TestFilesizeBitrate(t *testing.T) {
	kbps, err := filesizeBitrate(50, 128, 600)
	require.NoError(t, err)
	assert.Equal(t, 571, kbps)

	_, err = filesizeBitrate(1, 128, 600)
	assert.ErrorContains(t, err, "too small")

	_, err = filesizeBitrate(50, 128, 0)
	assert.Error(t, err)
}

func TestCompressVideo_FilesizeNeedsMetadata(t *testing.T) {
	ctx := testutil.NewContext(t)
	sess, err := session.New(t.TempDir())
	require.NoError(t, err)
	fake := testutil.NewFakeBackend()

	_, err = (&Module{Backend: fake}).run(ctx, &registry.Invocation{
		NodeID:  "small",
		Session: sess,
		Inputs: testutil.Inputs(contract, map[string]cty.Value{
			"video_file":         cty.StringVal("/in/missing.mp4"),
			"compression_method": cty.StringVal(MethodFilesize),
		}),
	})
	assert.ErrorIs(t, err, backend.ErrProbe)
	for _, c := range fake.Calls() {
		assert.NotEqual(t, "transform", c.Method)
	}
}
