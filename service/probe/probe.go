// Package probe discovers local GPU devices by running nvidia-smi through a
// gosh local shell session.
package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
)

// DefaultCommand lists GPU devices, one per line
const DefaultCommand = "nvidia-smi -L"

// Service counts GPU devices
type Service struct {
	command   string
	timeoutMs int
}

// Option represents probe option
type Option func(s *Service)

// WithCommand overrides device listing command
func WithCommand(command string) Option {
	return func(s *Service) {
		s.command = command
	}
}

// WithTimeoutMs sets command timeout
func WithTimeoutMs(timeoutMs int) Option {
	return func(s *Service) {
		s.timeoutMs = timeoutMs
	}
}

// New creates a probe service
func New(options ...Option) *Service {
	ret := &Service{command: DefaultCommand, timeoutMs: 10000}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Count returns number of detected GPU devices
func (s *Service) Count(ctx context.Context) (int, error) {
	service, err := gosh.New(ctx, local.New())
	if err != nil {
		return 0, fmt.Errorf("failed to start shell session: %w", err)
	}
	defer service.Close()
	stdout, status, err := service.Run(ctx, s.command, runner.WithTimeout(s.timeoutMs))
	if err != nil {
		return 0, fmt.Errorf("failed to run %v: %w", s.command, err)
	}
	if status != 0 {
		return 0, fmt.Errorf("%v exited with %d: %s", s.command, status, strings.TrimSpace(stdout))
	}
	count := ParseDevices(stdout)
	if count == 0 {
		return 0, fmt.Errorf("no GPU devices reported by %v", s.command)
	}
	return count, nil
}

// ParseDevices counts "GPU <index>: ..." lines of nvidia-smi -L output
func ParseDevices(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "GPU ") {
			continue
		}
		if strings.Contains(line, ":") {
			count++
		}
	}
	return count
}
