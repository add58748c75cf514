package slot

import "fmt"

// Kind represents slot lifecycle state
type Kind string

const (
	KindIdle     Kind = "idle"
	KindRunning  Kind = "running"
	KindFinished Kind = "finished"
	KindFailed   Kind = "failed"
)

// Status represents slot status; ExitCode is only meaningful for KindFailed
type Status struct {
	Kind     Kind `json:"kind" yaml:"kind"`
	ExitCode int  `json:"exitCode,omitempty" yaml:"exitCode,omitempty"`
}

var (
	Idle     = Status{Kind: KindIdle}
	Running  = Status{Kind: KindRunning}
	Finished = Status{Kind: KindFinished}
)

// Failed returns failed status with the worker exit code
func Failed(exitCode int) Status {
	return Status{Kind: KindFailed, ExitCode: exitCode}
}

// Completed returns terminal status for the supplied exit code
func Completed(exitCode int) Status {
	if exitCode == 0 {
		return Finished
	}
	return Failed(exitCode)
}

// IsIdle returns true if slot accepts submission
func (s Status) IsIdle() bool { return s.Kind == KindIdle }

// IsRunning returns true if slot has a bound worker
func (s Status) IsRunning() bool { return s.Kind == KindRunning }

// IsTerminal returns true for finished or failed status
func (s Status) IsTerminal() bool {
	return s.Kind == KindFinished || s.Kind == KindFailed
}

// String returns status label, i.e. idle, running, finished or failed(code:N)
func (s Status) String() string {
	if s.Kind == KindFailed {
		return fmt.Sprintf("failed(code:%d)", s.ExitCode)
	}
	if s.Kind == "" {
		return string(KindIdle)
	}
	return string(s.Kind)
}
