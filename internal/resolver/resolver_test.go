package resolver

import (
	"testing"

	"github.com/specialistvlad/mediagrid/internal/config"
	"github.com/specialistvlad/mediagrid/internal/handle"
	"github.com/specialistvlad/mediagrid/internal/node"
	"github.com/specialistvlad/mediagrid/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type outputs map[string]cty.Value

func (o outputs) Output(ref nodeid.Ref) (cty.Value, bool) {
	v, ok := o[ref.String()]
	return v, ok
}

func refs(raw ...string) []nodeid.Ref {
	out := make([]nodeid.Ref, len(raw))
	for i, r := range raw {
		out[i] = nodeid.MustParseRef(r)
	}
	return out
}

func newNode(h handle.Handle, b *config.Binding) *node.Node {
	spec := &config.NodeSpec{ID: "target", Task: "test"}
	if b != nil {
		b.Handle = h.Name
		spec.Inputs = []*config.Binding{b}
	}
	return &node.Node{ID: "target", Kind: "test", Spec: spec, Contract: handle.Contract{Inputs: []handle.Handle{h}}}
}

func TestResolve(t *testing.T) {
	str := handle.In("v", handle.String)

	testCases := []struct {
		name       string
		handle     handle.Handle
		binding    *config.Binding
		state      outputs
		wantSource handle.Source
		want       cty.Value
		wantErr    error
	}{
		{
			name:       "literal wins over edge",
			handle:     str,
			binding:    &config.Binding{Value: config.Literal(cty.StringVal("x")), From: refs("a.out")},
			state:      outputs{"a.out": cty.StringVal("y")},
			wantSource: handle.Literal,
			want:       cty.StringVal("x"),
		},
		{
			name:       "empty literal falls through to the edge",
			handle:     str,
			binding:    &config.Binding{Value: config.Literal(cty.StringVal("")), From: refs("a.out")},
			state:      outputs{"a.out": cty.StringVal("y")},
			wantSource: handle.Edge,
			want:       cty.StringVal("y"),
		},
		{
			name:       "single edge",
			handle:     str,
			binding:    &config.Binding{From: refs("a.out")},
			state:      outputs{"a.out": cty.StringVal("y")},
			wantSource: handle.Edge,
			want:       cty.StringVal("y"),
		},
		{
			name:       "fan-in takes the first non-empty source",
			handle:     str,
			binding:    &config.Binding{From: refs("a.out", "b.out")},
			state:      outputs{"a.out": cty.StringVal(""), "b.out": cty.StringVal("v")},
			wantSource: handle.Edge,
			want:       cty.StringVal("v"),
		},
		{
			name:       "fan-in keeps declared order",
			handle:     str,
			binding:    &config.Binding{From: refs("a.out", "b.out")},
			state:      outputs{"a.out": cty.StringVal("first"), "b.out": cty.StringVal("second")},
			wantSource: handle.Edge,
			want:       cty.StringVal("first"),
		},
		{
			name:       "fan-in skips unproduced outputs",
			handle:     str,
			binding:    &config.Binding{From: refs("a.out", "b.out")},
			state:      outputs{"b.out": cty.StringVal("v")},
			wantSource: handle.Edge,
			want:       cty.StringVal("v"),
		},
		{
			name:       "default when nothing is bound",
			handle:     handle.In("v", handle.Format).WithDefault(cty.StringVal("mp3")),
			wantSource: handle.Default,
			want:       cty.StringVal("mp3"),
		},
		{
			name:       "default when every edge is empty",
			handle:     handle.In("v", handle.Format).WithDefault(cty.StringVal("mp3")),
			binding:    &config.Binding{From: refs("a.out")},
			state:      outputs{"a.out": cty.NullVal(cty.String)},
			wantSource: handle.Default,
			want:       cty.StringVal("mp3"),
		},
		{
			name:       "optional yields the absent marker",
			handle:     handle.In("v", handle.String).AsOptional(),
			wantSource: handle.Absent,
		},
		{
			name:    "required with nothing is missing",
			handle:  str,
			binding: &config.Binding{From: refs("a.out")},
			state:   outputs{},
			wantErr: ErrMissingValue,
		},
		{
			name:       "zero is not empty",
			handle:     handle.In("v", handle.Number).WithDefault(cty.NumberIntVal(5)),
			binding:    &config.Binding{Value: config.Literal(cty.NumberIntVal(0))},
			wantSource: handle.Literal,
			want:       cty.NumberIntVal(0),
		},
		{
			name:       "values are converted to the handle type",
			handle:     handle.In("v", handle.Number),
			binding:    &config.Binding{Value: config.Literal(cty.StringVal("42"))},
			wantSource: handle.Literal,
			want:       cty.NumberIntVal(42),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := newNode(tc.handle, tc.binding)
			state := tc.state
			if state == nil {
				state = outputs{}
			}

			got, err := Resolve(n, "v", state)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				var mv *MissingValueError
				require.ErrorAs(t, err, &mv)
				assert.Equal(t, "target", mv.NodeID)
				assert.Equal(t, "v", mv.Handle)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSource, got.Source)
			if tc.wantSource != handle.Absent {
				assert.True(t, tc.want.Equals(got.Data).True(), "got %#v", got.Data)
			}
		})
	}
}

func TestResolve_EdgeRecordsSource(t *testing.T) {
	n := newNode(handle.In("v", handle.String), &config.Binding{From: refs("a.out", "b.out")})
	got, err := Resolve(n, "v", outputs{"b.out": cty.StringVal("v")})
	require.NoError(t, err)
	assert.Equal(t, nodeid.NewRef("b", "out"), got.From)
}

func TestResolveAll(t *testing.T) {
	spec := &config.NodeSpec{ID: "m", Task: "merge", Inputs: []*config.Binding{
		{Handle: "main", From: refs("a.out")},
	}}
	n := &node.Node{ID: "m", Kind: "merge", Spec: spec, Contract: handle.Contract{Inputs: []handle.Handle{
		handle.In("main", handle.Audio),
		handle.In("mode", handle.String).WithDefault(cty.StringVal("overlay")),
		handle.In("save", handle.Path).AsOptional(),
	}}}

	values, err := ResolveAll(n, outputs{"a.out": cty.StringVal("/w/a.mp3")})
	require.NoError(t, err)
	assert.Equal(t, "/w/a.mp3", values.Reader().String("main"))
	assert.Equal(t, "overlay", values.Reader().String("mode"))
	assert.False(t, values.Has("save"))

	_, err = ResolveAll(n, outputs{})
	assert.ErrorIs(t, err, ErrMissingValue)

	_, err = Resolve(n, "nope", outputs{})
	assert.Error(t, err)
}
