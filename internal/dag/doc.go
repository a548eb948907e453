// Package dag turns a loaded config.Definition into a validated, immutable
// Graph that the executor can run.
//
// Validate is the only constructor of a Graph. It checks the definition
// against the capability registry in four ordered phases (reference
// integrity, cycles, required-input coverage, type compatibility) and reports
// every problem of the first failing phase as a ValidationErrors list, each
// entry tagged with the offending node, handle and edge.
package dag
