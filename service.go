package gpuslot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/gpuslot/model/slot"
	"github.com/viant/gpuslot/progress"
	"github.com/viant/gpuslot/service/probe"
	"github.com/viant/gpuslot/service/registry"
	"github.com/viant/gpuslot/service/supervisor"
	"github.com/viant/gpuslot/service/worker"
)

// Service represents slot manager façade
type Service struct {
	config        *Config
	slotsOverride *int
	launcher      worker.Launcher
	preparer      supervisor.Preparer
	probe         *probe.Service
	progress      *progress.Progress
	logger        *slog.Logger
	initErrors    []error

	slots      *registry.Registry[worker.Handle]
	supervisor *supervisor.Service
}

// New creates slot manager; when slot count is 0 GPU devices are detected.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	for _, opt := range options {
		opt(ret)
	}
	if len(ret.initErrors) > 0 {
		return nil, errors.Join(ret.initErrors...)
	}
	if ret.config == nil {
		ret.config = DefaultConfig()
	}
	config := *ret.config
	ret.config = &config
	if ret.slotsOverride != nil {
		ret.config.Slots = *ret.slotsOverride
	}
	ret.config.Init()
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	if ret.progress == nil {
		ret.progress = progress.New()
	}
	size := ret.config.Slots
	if size == 0 {
		if ret.probe == nil {
			ret.probe = probe.New()
		}
		detected, err := ret.probe.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to detect GPU slots: %w", err)
		}
		ret.logger.Info("detected GPU slots", "slots", detected)
		size = detected
	}
	ret.slots = registry.New[worker.Handle](size, registry.WithMaxEntries(ret.config.Log.MaxEntries))
	supervisorOptions := []supervisor.Option{
		supervisor.WithConfig(supervisor.Config{
			OutputRoot:      ret.config.OutputRoot,
			MonitorInterval: ret.config.Monitor.Interval,
			Worker:          ret.config.Worker,
			Defaults:        ret.config.Defaults,
		}),
		supervisor.WithRegistry(ret.slots),
		supervisor.WithProgress(ret.progress),
		supervisor.WithLogger(ret.logger),
	}
	if ret.launcher != nil {
		supervisorOptions = append(supervisorOptions, supervisor.WithLauncher(ret.launcher))
	}
	if ret.preparer != nil {
		supervisorOptions = append(supervisorOptions, supervisor.WithPreparer(ret.preparer))
	}
	var err error
	if ret.supervisor, err = supervisor.New(supervisorOptions...); err != nil {
		return nil, err
	}
	return ret, nil
}

// Start starts completion monitor
func (s *Service) Start(ctx context.Context) error {
	return s.supervisor.Start(ctx)
}

// Shutdown stops completion monitor; running workers are not terminated
func (s *Service) Shutdown(ctx context.Context) error {
	return s.supervisor.Shutdown(ctx)
}

// Submit submits task to the slot, it returns acceptance flag with human readable message
func (s *Service) Submit(ctx context.Context, slotID int, request *slot.TaskRequest) (bool, string) {
	ack, err := s.SubmitTask(ctx, slotID, request)
	if err != nil {
		return false, err.Error()
	}
	return true, ack.Message()
}

// SubmitTask submits task to the slot
func (s *Service) SubmitTask(ctx context.Context, slotID int, request *slot.TaskRequest) (*slot.Acknowledgement, error) {
	return s.supervisor.Submit(ctx, slotID, request)
}

// Statuses returns slot status labels
func (s *Service) Statuses() map[int]string {
	statuses := s.supervisor.Statuses()
	ret := make(map[int]string, len(statuses))
	for id, status := range statuses {
		ret[id] = status.String()
	}
	return ret
}

// SlotStatuses returns slot statuses
func (s *Service) SlotStatuses() map[int]slot.Status {
	return s.supervisor.Statuses()
}

// Log returns slot log, or "no log" for unknown or never used slot
func (s *Service) Log(slotID int) string {
	return s.supervisor.Log(slotID)
}

// Reset returns finished or failed slot to idle
func (s *Service) Reset(slotID int) error {
	return s.supervisor.Reset(slotID)
}

// Progress returns cumulative counters
func (s *Service) Progress() progress.Counters {
	return s.supervisor.Progress()
}

// Size returns number of slots
func (s *Service) Size() int {
	return s.supervisor.Size()
}
