package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// Local launches workers as local child processes
type Local struct{}

// NewLocal creates a local launcher
func NewLocal() *Local {
	return &Local{}
}

// Launch starts the command; the worker is not bound to ctx lifetime, ctx is
// only checked before spawning.
func (l *Local) Launch(ctx context.Context, command *Command) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if command == nil || command.Executable == "" {
		return nil, fmt.Errorf("worker executable was empty")
	}
	reader, writer, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd := exec.Command(command.Executable, command.Args...)
	cmd.Dir = command.Workdir
	if env := command.Environ(); len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.Stdout = writer
	if command.MergeStderr {
		cmd.Stderr = writer
	}
	if err = cmd.Start(); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("failed to start %v: %w", command.Executable, err)
	}
	// the child holds its own copy, the stream ends once the child closes it
	_ = writer.Close()
	ret := &Process{cmd: cmd, output: reader, done: make(chan struct{})}
	go ret.wait()
	return ret, nil
}

// Process represents a running local worker
type Process struct {
	cmd      *exec.Cmd
	output   *os.File
	done     chan struct{}
	exitCode int
}

func (p *Process) wait() {
	err := p.cmd.Wait()
	p.exitCode = exitCode(p.cmd.ProcessState, err)
	close(p.done)
}

// PID returns process id
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Output returns stdout stream
func (p *Process) Output() io.ReadCloser {
	return p.output
}

// Poll returns exit code once process exited
func (p *Process) Poll() (int, bool) {
	select {
	case <-p.done:
		return p.exitCode, true
	default:
		return 0, false
	}
}

// Kill terminates process
func (p *Process) Kill() error {
	err := p.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// exitCode returns process exit code, signal termination is reported as 128+signal
func exitCode(state *os.ProcessState, err error) int {
	if state == nil {
		if err != nil {
			return -1
		}
		return 0
	}
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return state.ExitCode()
}
