// Package testutil holds helpers shared by package tests: a context carrying a
// test logger, a concurrency-safe log buffer, an in-memory media backend and
// small capability stubs.
package testutil
