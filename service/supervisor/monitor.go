package supervisor

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/viant/gpuslot/progress"
	"github.com/viant/gpuslot/tracing"
)

// Start begins the monitor loop
func (s *Service) Start(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.closed {
		return fmt.Errorf("supervisor was shut down")
	}
	if s.started {
		return fmt.Errorf("supervisor already started")
	}
	s.started = true
	s.monitorWg.Add(1)
	go s.monitor(ctx)
	return nil
}

func (s *Service) monitor(ctx context.Context) {
	defer s.monitorWg.Done()
	s.logger.Info("monitor started", "interval", s.config.MonitorInterval.String(), "slots", s.slots.Size())
	defer s.logger.Info("monitor stopped")
	ticker := time.NewTicker(s.config.MonitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdownCh:
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Check samples every running slot once and records exited workers; it
// returns number of completions recorded.
func (s *Service) Check(ctx context.Context) int {
	completed := 0
	for _, binding := range s.slots.Running() {
		exitCode, exited := binding.Handle.Poll()
		if !exited {
			continue
		}
		status, ok := s.slots.Complete(binding.SlotID, binding.TaskID, exitCode)
		if !ok {
			continue
		}
		completed++
		delta := progress.Delta{Running: -1, Finished: 1}
		if exitCode != 0 {
			delta = progress.Delta{Running: -1, Failed: 1}
		}
		s.progress.Update(delta)

		_, span := tracing.StartSpan(ctx, "supervisor.Complete", "INTERNAL")
		span.WithAttributes(map[string]string{
			"slot.id":   strconv.Itoa(binding.SlotID),
			"task.id":   binding.TaskID,
			"exit.code": strconv.Itoa(exitCode),
		})
		var err error
		if exitCode != 0 {
			err = fmt.Errorf("worker exited with code %d", exitCode)
			s.logger.Warn("task failed", "slot", binding.SlotID, "task", binding.TaskID, "status", status.String())
		} else {
			s.logger.Info("task finished", "slot", binding.SlotID, "task", binding.TaskID)
		}
		tracing.EndSpan(span, err)
	}
	return completed
}

// Shutdown stops the monitor loop and waits for it; running workers are left
// untouched.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mux.Lock()
	if !s.closed {
		s.closed = true
		close(s.shutdownCh)
	}
	s.mux.Unlock()

	done := make(chan struct{})
	go func() {
		s.monitorWg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
