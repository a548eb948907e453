package convert_video_format

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

func TestConvertVideoFormat(t *testing.T) {
	ctx := testutil.NewContext(t)
	sess, err := session.New(t.TempDir())
	require.NoError(t, err)
	fake := testutil.NewFakeBackend()

	outs, err := (&Module{Backend: fake}).run(ctx, &registry.Invocation{
		NodeID:  "web",
		Session: sess,
		Inputs: testutil.Inputs(contract, map[string]cty.Value{
			"video_file":    cty.StringVal("/in/clip.mp4"),
			"output_format": cty.StringVal("webm"),
		}),
	})
	require.NoError(t, err)
	assert.Contains(t, outs["converted_video"].AsString(), "converted_video.webm")

	assert.Equal(t, backend.OperationSpec{
		Operation:  backend.OpConvertVideo,
		Format:     "webm",
		VideoCodec: "libx264",
		AudioCodec: "aac",
	}, fake.Calls()[0].Spec)
}
