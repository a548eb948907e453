// Package backend defines the contract between media capabilities and the
// engine that actually touches media bytes.
//
// Capabilities describe what they want as an OperationSpec and hand it to a
// Backend; they never build command lines themselves. The only production
// implementation lives in the `ffmpeg` package. Tests use a fake.
package backend
