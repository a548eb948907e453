// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRegex matches a single node id or handle name.
var nameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// ValidateName returns an error if name cannot be used as a node id or handle name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("identifier cannot be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid identifier %q: must start with a letter or underscore and contain only letters, digits, '_' or '-'", name)
	}
	return nil
}

// ParseRef creates a Ref from its canonical `node.handle` string.
func ParseRef(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("reference cannot be empty")
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return Ref{}, fmt.Errorf("invalid reference %q: expected <node_id>.<output_handle>", raw)
	}
	for _, p := range parts {
		if err := ValidateName(p); err != nil {
			return Ref{}, fmt.Errorf("invalid reference %q: %w", raw, err)
		}
	}

	return NewRef(parts[0], parts[1]), nil
}

// MustParseRef is like ParseRef but panics on error. Intended for tests and
// statically known references.
func MustParseRef(raw string) Ref {
	ref, err := ParseRef(raw)
	if err != nil {
		panic(err)
	}
	return ref
}
