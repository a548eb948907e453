package replace_audio

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

func TestReplaceAudio(t *testing.T) {
	ctx := testutil.NewContext(t)
	sess, err := session.New(t.TempDir())
	require.NoError(t, err)
	fake := testutil.NewFakeBackend()

	outs, err := (&Module{Backend: fake}).run(ctx, &registry.Invocation{
		NodeID:  "dub",
		Session: sess,
		Inputs: testutil.Inputs(contract, map[string]cty.Value{
			"video_file":   cty.StringVal("/in/clip.mp4"),
			"audio_file":   cty.StringVal("/in/voice.wav"),
			"sync_method":  cty.StringVal(backend.ReplaceLoopAudio),
			"audio_volume": cty.NumberFloatVal(0.8),
		}),
	})
	require.NoError(t, err)
	assert.Contains(t, outs["output_video"].AsString(), "audio_replaced_video.mp4")

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "merge", calls[0].Method)
	assert.Equal(t, []string{"/in/clip.mp4", "/in/voice.wav"}, calls[0].Sources)
	assert.Equal(t, backend.OperationSpec{
		Operation: backend.OpReplaceAudio,
		Format:    "mp4",
		AudioSync: backend.ReplaceLoopAudio,
		Volume:    0.8,
	}, calls[0].Spec)
}

func TestReplaceAudio_UnknownSyncMethod(t *testing.T) {
	ctx := testutil.NewContext(t)
	sess, err := session.New(t.TempDir())
	require.NoError(t, err)
	fake := testutil.NewFakeBackend()

	_, err = (&Module{Backend: fake}).run(ctx, &registry.Invocation{
		NodeID:  "dub",
		Session: sess,
		Inputs: testutil.Inputs(contract, map[string]cty.Value{
			"video_file":  cty.StringVal("/in/clip.mp4"),
			"audio_file":  cty.StringVal("/in/voice.wav"),
			"sync_method": cty.StringVal("pad"),
		}),
	})
	assert.ErrorContains(t, err, `unknown audio sync method "pad"`)
	assert.Empty(t, fake.Calls())
}
