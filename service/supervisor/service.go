package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/viant/gpuslot/internal/idgen"
	"github.com/viant/gpuslot/model/slot"
	"github.com/viant/gpuslot/progress"
	"github.com/viant/gpuslot/service/registry"
	"github.com/viant/gpuslot/service/workdir"
	"github.com/viant/gpuslot/service/worker"
	"github.com/viant/gpuslot/tracing"
)

// Config represents supervisor configuration
type Config struct {
	// OutputRoot is the parent of per slot output directories
	OutputRoot string

	// MonitorInterval is how often the monitor checks running workers
	MonitorInterval time.Duration

	Worker   worker.Config
	Defaults slot.Defaults
}

// DefaultConfig returns the default supervisor configuration
func DefaultConfig() Config {
	return Config{
		OutputRoot:      "output",
		MonitorInterval: 5 * time.Second,
		Worker:          worker.DefaultConfig(),
		Defaults:        slot.DefaultDefaults(),
	}
}

// Preparer prepares an empty output location
type Preparer interface {
	Recreate(ctx context.Context, location string) error
}

// Service supervises slot workers
type Service struct {
	config   Config
	slots    *registry.Registry[worker.Handle]
	launcher worker.Launcher
	preparer Preparer
	progress *progress.Progress
	logger   *slog.Logger

	// admission serialises submissions per slot so that output directory
	// recreation never races a worker of the same slot
	admission []sync.Mutex

	mux        sync.Mutex
	started    bool
	closed     bool
	shutdownCh chan struct{}
	monitorWg  sync.WaitGroup
}

// New creates a supervisor service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.slots == nil {
		return nil, fmt.Errorf("slot registry is required")
	}
	if s.config.MonitorInterval <= 0 {
		return nil, fmt.Errorf("monitor interval must be > 0")
	}
	if s.launcher == nil {
		s.launcher = worker.NewLocal()
	}
	if s.preparer == nil {
		s.preparer = workdir.New(nil)
	}
	if s.progress == nil {
		s.progress = progress.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.config.Worker.Init()
	s.admission = make([]sync.Mutex, s.slots.Size())
	return s, nil
}

// Submit validates request, spawns the worker and binds it to the idle slot.
func (s *Service) Submit(ctx context.Context, slotID int, request *slot.TaskRequest) (ack *slot.Acknowledgement, err error) {
	ctx, span := tracing.StartSpan(ctx, "supervisor.Submit", "INTERNAL")
	span.WithAttributes(map[string]string{"slot.id": strconv.Itoa(slotID)})
	defer func() {
		if err != nil {
			s.progress.Update(progress.Delta{Rejected: 1})
			s.logger.Warn("submission rejected", "slot", slotID, "error", err)
		}
		tracing.EndSpan(span, err)
	}()

	if !s.slots.Has(slotID) {
		return nil, unknownSlotError(slotID)
	}
	admission := &s.admission[slotID]
	admission.Lock()
	defer admission.Unlock()

	if status, _ := s.slots.Status(slotID); !status.IsIdle() {
		return nil, slotBusyError(slotID, status)
	}
	if request == nil {
		return nil, invalidRequestError(slotID, fmt.Errorf("request was nil"))
	}
	taskRequest := *request
	taskRequest.Init(s.config.Defaults)
	if err = taskRequest.Validate(); err != nil {
		return nil, invalidRequestError(slotID, err)
	}

	taskID := idgen.NewTaskID(slotID)
	span.WithAttributes(map[string]string{"task.id": taskID})
	outputDir := worker.OutputDir(s.config.OutputRoot, slotID)
	if err = s.preparer.Recreate(ctx, outputDir); err != nil {
		return nil, launchFailedError(slotID, err)
	}
	command := s.config.Worker.NewCommand(slotID, outputDir, &taskRequest)
	handle, err := s.launcher.Launch(ctx, command)
	if err != nil {
		return nil, launchFailedError(slotID, err)
	}
	if status, ok := s.slots.TryBegin(slotID, taskID, handle); !ok {
		if kErr := handle.Kill(); kErr != nil {
			s.logger.Error("failed to terminate discarded worker", "slot", slotID, "pid", handle.PID(), "error", kErr)
		}
		_ = handle.Output().Close()
		return nil, slotBusyError(slotID, status)
	}
	s.progress.Update(progress.Delta{Submitted: 1, Running: 1})
	go s.collect(slotID, taskID, handle.Output())
	s.logger.Info("task started", "slot", slotID, "task", taskID, "pid", handle.PID(), "command", command.String())
	return &slot.Acknowledgement{SlotID: slotID, TaskID: taskID, OutputDir: outputDir}, nil
}

// Reset returns a finished or failed slot to idle
func (s *Service) Reset(slotID int) error {
	if !s.slots.Has(slotID) {
		return unknownSlotError(slotID)
	}
	status, ok := s.slots.Reset(slotID)
	if !ok {
		return slotBusyError(slotID, status)
	}
	s.logger.Info("slot reset", "slot", slotID)
	return nil
}

// Statuses returns point-in-time copy of slot statuses
func (s *Service) Statuses() map[int]slot.Status {
	return s.slots.Snapshot()
}

// Log returns slot log or slot.NoLog for unknown slot
func (s *Service) Log(slotID int) string {
	return s.slots.ReadLog(slotID)
}

// Progress returns cumulative counters
func (s *Service) Progress() progress.Counters {
	return s.progress.Snapshot()
}

// Size returns number of slots
func (s *Service) Size() int {
	return s.slots.Size()
}
