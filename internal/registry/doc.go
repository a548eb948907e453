// Package registry provides the central "glue" for the capability system.
//
// The Registry maps the task kind strings written in graph definitions (e.g.
// "extract_audio") to the compiled Capability that implements them. Each
// capability declares its handle Contract, which is the only thing the
// validator and the resolver ever look at; the Invoke function is opaque.
//
// During application startup every module registers its capabilities and the
// registry is validated, so malformed contracts are rejected before any graph
// is loaded.
package registry
