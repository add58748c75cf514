package gpuslot

import (
	"log/slog"

	"github.com/viant/gpuslot/progress"
	"github.com/viant/gpuslot/service/probe"
	"github.com/viant/gpuslot/service/supervisor"
	"github.com/viant/gpuslot/service/worker"
	"github.com/viant/gpuslot/tracing"
)

// Option represents service option
type Option func(s *Service)

// WithConfig sets configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithSlots overrides configured number of slots
func WithSlots(slots int) Option {
	return func(s *Service) {
		s.slotsOverride = &slots
	}
}

// WithLauncher sets worker launcher
func WithLauncher(launcher worker.Launcher) Option {
	return func(s *Service) {
		s.launcher = launcher
	}
}

// WithPreparer sets output location preparer
func WithPreparer(preparer supervisor.Preparer) Option {
	return func(s *Service) {
		s.preparer = preparer
	}
}

// WithProbe sets GPU probe used when slot count is 0
func WithProbe(service *probe.Service) Option {
	return func(s *Service) {
		s.probe = service
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

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.initErrors = append(s.initErrors, err)
		}
	}
}
