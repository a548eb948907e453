package config

import (
	"context"
)

// Loader is the interface for a format-specific graph definition loader.
type Loader interface {
	// Extensions lists the file extensions (with leading dot) the loader
	// understands. Directories are searched recursively for these.
	Extensions() []string

	// Load reads every matching file under the given paths and translates
	// them into the format-agnostic Definition. Nodes keep the order of the
	// files and, within a file, the order they were declared in.
	Load(ctx context.Context, paths ...string) (*Definition, error)
}
