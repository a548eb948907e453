package config

import (
	"testing"

	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestNodeSpec_Binding(t *testing.T) {
	n := &NodeSpec{
		ID:   "mix",
		Task: "merge_audio",
		Inputs: []*Binding{
			{Handle: "main_audio", From: []nodeid.Ref{nodeid.NewRef("a", "audio_file")}},
			{Handle: "output_format", Value: Literal(cty.StringVal(""))},
		},
	}

	b := n.Binding("output_format")
	require.NotNil(t, b)
	assert.True(t, b.HasLiteral(), "an explicitly empty literal is still written")

	assert.False(t, n.Binding("main_audio").HasLiteral())
	assert.Nil(t, n.Binding("missing"))
}

func TestDefinition_Merge(t *testing.T) {
	a := &Definition{Nodes: []*NodeSpec{{ID: "a"}}}
	b := &Definition{Nodes: []*NodeSpec{{ID: "b"}, {ID: "c"}}}

	merged := a.Merge(nil, b)

	ids := make([]string, 0, len(merged.Nodes))
	for _, n := range merged.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Len(t, a.Nodes, 1, "merge must not mutate the receiver")
}
