// Package ffmpeg implements backend.Backend by running the ffmpeg and ffprobe
// executables.
//
// Argument construction is kept in pure functions (see args.go) so it can be
// tested without the binaries installed. Processes are started with the
// caller's context: on cancellation they receive SIGTERM and are killed after
// a grace period.
package ffmpeg
