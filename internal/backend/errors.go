package backend

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProbe classifies probe failures.
	ErrProbe = errors.New("probe failed")
	// ErrTransform classifies transform failures.
	ErrTransform = errors.New("transform failed")
	// ErrMerge classifies merge failures.
	ErrMerge = errors.New("merge failed")
)

// ProbeError reports a failed Probe.
type ProbeError struct {
	Source string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe of %s failed: %v", e.Source, e.Err)
}

func (e *ProbeError) Unwrap() error        { return e.Err }
func (e *ProbeError) Is(target error) bool { return target == ErrProbe }

// TransformError reports a failed Transform.
type TransformError struct {
	Operation Operation
	Sources   []string
	Target    string
	Err       error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("%s of %s into %s failed: %v", e.Operation, strings.Join(e.Sources, ", "), e.Target, e.Err)
}

func (e *TransformError) Unwrap() error        { return e.Err }
func (e *TransformError) Is(target error) bool { return target == ErrTransform }

// MergeError reports a failed Merge.
type MergeError struct {
	Operation Operation
	Sources   []string
	Target    string
	Err       error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("%s of %d sources into %s failed: %v", e.Operation, len(e.Sources), e.Target, e.Err)
}

func (e *MergeError) Unwrap() error        { return e.Err }
func (e *MergeError) Is(target error) bool { return target == ErrMerge }
