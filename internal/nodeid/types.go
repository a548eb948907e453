// internal/nodeid/types.go
package nodeid

// Ref points at one output handle of one node, e.g. `extract.audio_file`.
type Ref struct {
	Node   string
	Handle string
}

// NewRef creates a reference without validating its parts.
func NewRef(node, handle string) Ref {
	return Ref{Node: node, Handle: handle}
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool {
	return r.Node == "" && r.Handle == ""
}
