// internal/nodeid/doc.go

/*
Package nodeid provides a structured, type-safe representation for the
identifiers used inside a media graph: node ids, handle names and the
`node_id.output_handle` references that bind an input to an upstream output.

Node ids and handle names share one schema: a letter or underscore followed by
letters, digits, underscores or hyphens. Dots are reserved as the separator of
a reference, so `extract.audio_file` always splits into exactly one node id and
one handle name.

This package centralizes all formatting and parsing logic so loaders,
validators and the resolver agree on what a reference means.
*/
package nodeid
