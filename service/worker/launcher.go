package worker

import (
	"context"
	"io"
)

// Handle represents exclusively owned reference to a launched worker
type Handle interface {
	// PID returns worker process id
	PID() int
	// Output returns worker output stream, closed at end of stream by the reader
	Output() io.ReadCloser
	// Poll returns exit code and true once the worker exited, it never blocks
	Poll() (int, bool)
	// Kill terminates the worker
	Kill() error
}

// Launcher spawns workers
type Launcher interface {
	Launch(ctx context.Context, command *Command) (Handle, error)
}
