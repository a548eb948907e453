package handle

import (
	"github.com/zclconf/go-cty/cty"
)

// Type is the semantic type of a handle.
type Type struct {
	name   string
	parent *Type
	elem   *Type
	cty    cty.Type
}

var (
	// Any accepts every source type. Only meaningful on inputs.
	Any = &Type{name: "any", cty: cty.DynamicPseudoType}
	// String is a plain text value.
	String = &Type{name: "string", cty: cty.String}
	// Number is a numeric value (durations, bitrates, dimensions).
	Number = &Type{name: "number", cty: cty.Number}
	// Bool is a flag.
	Bool = &Type{name: "bool", cty: cty.Bool}
	// Object is a structured value such as probe metadata.
	Object = &Type{name: "object", cty: cty.DynamicPseudoType}

	// Path is a filesystem location.
	Path = NewSubtype("path", String)
	// Format is a container/extension name drawn from a known set (mp3, mp4, ...).
	Format = NewSubtype("format", String)
	// Media is a reference to any media file.
	Media = NewSubtype("media", Path)
	// Video is a media reference known to carry a video stream.
	Video = NewSubtype("video", Media)
	// Audio is a media reference known to carry an audio stream.
	Audio = NewSubtype("audio", Media)
	// Image is a media reference to a still or animated image.
	Image = NewSubtype("image", Media)
)

// NewSubtype declares a type that is explicitly compatible with parent.
// The new type shares the parent's value representation.
func NewSubtype(name string, parent *Type) *Type {
	return &Type{name: name, parent: parent, cty: parent.cty}
}

// ListOf returns the type of an ordered list whose elements have type elem.
func ListOf(elem *Type) *Type {
	return &Type{name: "list(" + elem.name + ")", elem: elem, cty: cty.List(elem.cty)}
}

// Name returns the type's display name, e.g. "video" or "list(video)".
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

// String implements fmt.Stringer.
func (t *Type) String() string {
	return t.Name()
}

// Cty returns the value representation of the type.
func (t *Type) Cty() cty.Type {
	return t.cty
}

// Elem returns the element type of a list type, or nil.
func (t *Type) Elem() *Type {
	return t.elem
}

// Equal reports whether both types are the same named type.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.name == other.name
}

// AssignableTo reports whether a value of type t may be bound to a handle of
// type dst: the types match exactly, dst is Any, or t is a declared subtype
// of dst. Lists are compared element-wise.
func (t *Type) AssignableTo(dst *Type) bool {
	if t == nil || dst == nil {
		return false
	}
	if dst.Equal(Any) {
		return true
	}
	if t.elem != nil || dst.elem != nil {
		return t.elem != nil && dst.elem != nil && t.elem.AssignableTo(dst.elem)
	}
	for cur := t; cur != nil; cur = cur.parent {
		if cur.Equal(dst) {
			return true
		}
	}
	return false
}
