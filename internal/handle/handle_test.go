package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestType_AssignableTo(t *testing.T) {
	testCases := []struct {
		name     string
		src      *Type
		dst      *Type
		expected bool
	}{
		{name: "exact match", src: Audio, dst: Audio, expected: true},
		{name: "video into generic media", src: Video, dst: Media, expected: true},
		{name: "generic media into video is rejected", src: Media, dst: Video, expected: false},
		{name: "audio into video is rejected", src: Audio, dst: Video, expected: false},
		{name: "video into path walks the chain", src: Video, dst: Path, expected: true},
		{name: "format into string", src: Format, dst: String, expected: true},
		{name: "string into format is rejected", src: String, dst: Format, expected: false},
		{name: "anything into any", src: Object, dst: Any, expected: true},
		{name: "number into string is rejected", src: Number, dst: String, expected: false},
		{name: "list of video into list of media", src: ListOf(Video), dst: ListOf(Media), expected: true},
		{name: "list of media into list of video is rejected", src: ListOf(Media), dst: ListOf(Video), expected: false},
		{name: "scalar into list is rejected", src: Video, dst: ListOf(Video), expected: false},
		{name: "nil source", src: nil, dst: String, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.src.AssignableTo(tc.dst))
		})
	}
}

func TestNewSubtype_SharesRepresentation(t *testing.T) {
	stems := NewSubtype("stems", Audio)
	assert.True(t, stems.AssignableTo(Media))
	assert.Equal(t, cty.String, stems.Cty())
	assert.Equal(t, "list(stems)", ListOf(stems).Name())
}

func TestIsEmpty(t *testing.T) {
	testCases := []struct {
		name     string
		value    cty.Value
		expected bool
	}{
		{name: "nil value", value: cty.NilVal, expected: true},
		{name: "null string", value: cty.NullVal(cty.String), expected: true},
		{name: "unknown", value: cty.UnknownVal(cty.String), expected: true},
		{name: "empty string", value: cty.StringVal(""), expected: true},
		{name: "non-empty string", value: cty.StringVal("x"), expected: false},
		{name: "zero number", value: cty.NumberIntVal(0), expected: false},
		{name: "false", value: cty.False, expected: false},
		{name: "empty list", value: cty.ListValEmpty(cty.String), expected: true},
		{name: "empty tuple", value: cty.EmptyTupleVal, expected: true},
		{name: "non-empty tuple", value: cty.TupleVal([]cty.Value{cty.StringVal("a")}), expected: false},
		{name: "empty object", value: cty.EmptyObjectVal, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsEmpty(tc.value))
		})
	}
}

func TestValues_Accessors(t *testing.T) {
	vs := Values{
		"name":     {Source: Literal, Data: cty.StringVal("clip")},
		"quality":  {Source: Default, Data: cty.NumberIntVal(192)},
		"volume":   {Source: Literal, Data: cty.NumberFloatVal(0.5)},
		"loop":     {Source: Literal, Data: cty.True},
		"files":    {Source: Literal, Data: cty.ListVal([]cty.Value{cty.StringVal("a.mp4"), cty.StringVal("b.mp4")})},
		"optional": AbsentValue(),
	}

	r := vs.Reader()
	assert.Equal(t, "clip", r.String("name"))
	assert.Equal(t, 192, r.Int("quality"))
	assert.InDelta(t, 0.5, r.Float("volume"), 1e-9)
	assert.True(t, r.Bool("loop"))
	assert.Equal(t, []string{"a.mp4", "b.mp4"}, r.Strings("files"))
	assert.Equal(t, "", r.String("optional"))
	assert.Equal(t, 0, r.Int("missing"))
	require.NoError(t, r.Err())

	assert.False(t, vs.Has("optional"))
	assert.False(t, vs.Has("missing"))

	var s string
	err := vs.Decode("optional", &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `input "optional" has no value`)
}

func TestReader_RejectsValuesThatDoNotFit(t *testing.T) {
	vs := Values{
		"rotation": {Source: Literal, Data: cty.NumberFloatVal(90.5)},
		"width":    {Source: Literal, Data: cty.NumberFloatVal(1279.9)},
		"volume":   {Source: Literal, Data: cty.NumberFloatVal(0.5)},
	}

	r := vs.Reader()
	assert.InDelta(t, 0.5, r.Float("volume"), 1e-9)
	require.NoError(t, r.Err())

	assert.Equal(t, 0, r.Int("rotation"))
	require.Error(t, r.Err())
	assert.ErrorContains(t, r.Err(), `decoding input "rotation"`)
	assert.ErrorContains(t, r.Err(), "whole number")

	// The first error sticks.
	r.Int("width")
	assert.ErrorContains(t, r.Err(), `"rotation"`)

	r = vs.Reader()
	r.Int("width")
	assert.ErrorContains(t, r.Err(), `decoding input "width"`)
}

func TestContract_Lookup(t *testing.T) {
	c := Contract{
		Inputs:  []Handle{In("video_file", Video), In("output_format", Format).WithDefault(cty.StringVal("mp3"))},
		Outputs: []Handle{Out("audio_file", Audio)},
	}

	in, ok := c.Input("output_format")
	require.True(t, ok)
	assert.True(t, in.HasDefault())
	assert.True(t, in.Required())
	assert.Equal(t, "mp3", in.Default.AsString())

	_, ok = c.Input("audio_file")
	assert.False(t, ok, "outputs are not inputs")

	out, ok := c.Output("audio_file")
	require.True(t, ok)
	assert.Equal(t, Output, out.Direction)
	assert.False(t, out.Required())

	opt := In("save_address", Path).AsOptional()
	assert.False(t, opt.Required())
}
