package backend

import "context"

// Artifact is a media file written by the backend.
type Artifact struct {
	Path   string
	Format string
}

// Backend performs media operations.
type Backend interface {
	// Probe inspects a source and never mutates it.
	Probe(ctx context.Context, source string) (*Metadata, error)
	// Transform writes one target from the sources. The result is fully
	// determined by the operation and the inputs.
	Transform(ctx context.Context, sources []string, spec OperationSpec, target string) (Artifact, error)
	// Merge combines the sources into one target, in list order.
	Merge(ctx context.Context, sources []string, spec OperationSpec, target string) (Artifact, error)
}
