// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
//
// An App loads graph definitions through the format loaders, validates them
// against the capability registry and runs them with the executor inside a
// fresh session. Metrics and run events are attached as executor observers.
package app
