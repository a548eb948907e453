// Package config defines the format-agnostic model of a graph definition,
// along with the Loader interface implemented by each concrete syntax.
//
// A Definition is exactly what the author wrote: nodes in declaration order,
// each with a task kind and a list of input bindings. Nothing here is
// validated against the capability registry; that is the job of the `dag`
// package. Concrete loaders live in `hcl_adapter` and `yaml_adapter`.
package config
