package hcl_adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/specialistvlad/mediagrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeGraph(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	ctx := testutil.NewContext(t)
	dir := t.TempDir()
	writeGraph(t, dir, "graph.hcl", `
node "extract_audio" "extract" {
  description = "pull the soundtrack"
  input "video_file"    { value = "/media/in.mp4" }
  input "output_format" { value = "" }
  input "audio_quality" { value = 256 }
}

node "merge_audio" "mix" {
  input "main_audio"       { from = [extract.audio_file] }
  input "background_audio" {
    value = "/media/bgm.mp3"
    from  = [bgm.audio_file, "fallback.audio_file"]
  }
  input "file_name" { from = extract.audio_file }
}
`)

	def, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)
	require.Len(t, def.Nodes, 2)

	extract := def.Nodes[0]
	assert.Equal(t, "extract", extract.ID)
	assert.Equal(t, "extract_audio", extract.Task)
	assert.Equal(t, "pull the soundtrack", extract.Description)
	assert.Contains(t, extract.Origin, "graph.hcl:2")

	video := extract.Binding("video_file")
	require.NotNil(t, video)
	require.True(t, video.HasLiteral())
	assert.Equal(t, cty.StringVal("/media/in.mp4"), *video.Value)
	assert.Empty(t, video.From)

	format := extract.Binding("output_format")
	require.True(t, format.HasLiteral(), "empty literal is kept so the resolver can fall through")
	assert.Equal(t, cty.StringVal(""), *format.Value)

	quality := extract.Binding("audio_quality")
	assert.True(t, quality.Value.Equals(cty.NumberIntVal(256)).True())

	mix := def.Nodes[1]
	assert.Equal(t, []nodeid.Ref{nodeid.NewRef("extract", "audio_file")}, mix.Binding("main_audio").From)

	bg := mix.Binding("background_audio")
	require.True(t, bg.HasLiteral())
	assert.Equal(t, []nodeid.Ref{
		nodeid.NewRef("bgm", "audio_file"),
		nodeid.NewRef("fallback", "audio_file"),
	}, bg.From)

	assert.Equal(t, []nodeid.Ref{nodeid.NewRef("extract", "audio_file")}, mix.Binding("file_name").From)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		errContains string
	}{
		{
			name:        "invalid syntax",
			content:     `node "print" "a" {`,
			errContains: "failed to parse HCL file",
		},
		{
			name:        "missing label",
			content:     `node "print" {}`,
			errContains: "failed to decode HCL file",
		},
		{
			name: "source with too many segments",
			content: `node "print" "a" {
  input "value" { from = [x.y.z] }
}`,
			errContains: "expected <node_id>.<output_handle>",
		},
		{
			name: "source that is not a reference",
			content: `node "print" "a" {
  input "value" { from = [42] }
}`,
			errContains: "must be a reference",
		},
		{
			name: "literal using variables",
			content: `node "print" "a" {
  input "value" { value = var.path }
}`,
			errContains: "invalid literal value",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testutil.NewContext(t)
			path := writeGraph(t, t.TempDir(), "graph.hcl", tc.content)

			_, err := NewLoader().Load(ctx, path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoader_IgnoresForeignFiles(t *testing.T) {
	ctx := testutil.NewContext(t)
	dir := t.TempDir()
	writeGraph(t, dir, "graph.yaml", "nodes: []")

	def, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, def.Nodes)
}
