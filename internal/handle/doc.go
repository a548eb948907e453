// Package handle defines the typed slots of a node and the values that flow
// through them.
//
// A Handle is a named input or output with a semantic Type. Types form an
// explicit subtype tree (video -> media -> path -> string); a value of a
// subtype may flow into a handle of its supertype, never the other way round.
// Every Type maps onto a cty.Type, which is used to convert literals and
// defaults into the representation a capability receives.
//
// A Value is a cty.Value tagged with where it came from: a literal, an edge,
// a declared default, or the explicit absent marker produced for optional
// inputs that nothing supplied.
package handle
