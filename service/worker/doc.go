// Package worker builds the external worker invocation and launches it as a
// local process whose stdout is exposed as a byte stream.
//
// The launched process is observed only through its exit code and output; a
// Handle never blocks the caller when checking whether the worker exited.
package worker
