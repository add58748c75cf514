package supervisor

import (
	"log/slog"

	"github.com/viant/gpuslot/progress"
	"github.com/viant/gpuslot/service/registry"
	"github.com/viant/gpuslot/service/worker"
)

// Option represents supervisor option
type Option func(s *Service)

// WithConfig sets supervisor configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithRegistry sets slot registry
func WithRegistry(slots *registry.Registry[worker.Handle]) Option {
	return func(s *Service) {
		s.slots = slots
	}
}

// WithLauncher sets worker launcher
func WithLauncher(launcher worker.Launcher) Option {
	return func(s *Service) {
		s.launcher = launcher
	}
}

// WithPreparer sets output location preparer
func WithPreparer(preparer Preparer) Option {
	return func(s *Service) {
		s.preparer = preparer
	}
}

// WithProgress sets progress tracker
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}

// WithLogger sets operational logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
