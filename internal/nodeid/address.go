// internal/nodeid/address.go
package nodeid

// String serializes the Ref into its canonical `node.handle` representation.
func (r Ref) String() string {
	if r.IsZero() {
		return ""
	}
	return r.Node + "." + r.Handle
}

// Equal checks whether two references point at the same output.
func (r Ref) Equal(other Ref) bool {
	return r.Node == other.Node && r.Handle == other.Handle
}
