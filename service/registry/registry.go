package registry

import (
	"fmt"
	"sync"

	"github.com/viant/gpuslot/internal/clock"
	"github.com/viant/gpuslot/model/slot"
)

// Binding represents a worker handle bound to a running slot
type Binding[H any] struct {
	SlotID int
	TaskID string
	Handle H
}

// Registry keeps slots indexed by GPU id; H is the worker handle type
type Registry[H any] struct {
	mu         sync.Mutex
	slots      []*entry[H]
	maxEntries int
}

type entry[H any] struct {
	status  slot.Status
	taskID  string
	handle  H
	bound   bool
	log     []slot.LogEntry
	dropped int
}

// New creates a registry with slots 0..size-1, all idle
func New[H any](size int, options ...Option) *Registry[H] {
	cfg := &config{maxEntries: DefaultMaxEntries}
	for _, opt := range options {
		opt(cfg)
	}
	if size < 0 {
		size = 0
	}
	ret := &Registry[H]{slots: make([]*entry[H], size), maxEntries: cfg.maxEntries}
	for i := range ret.slots {
		ret.slots[i] = &entry[H]{status: slot.Idle}
	}
	return ret
}

// Size returns number of slots
func (r *Registry[H]) Size() int {
	return len(r.slots)
}

// Has returns true if slot exists
func (r *Registry[H]) Has(slotID int) bool {
	return slotID >= 0 && slotID < len(r.slots)
}

func (r *Registry[H]) lookup(slotID int) *entry[H] {
	if !r.Has(slotID) {
		return nil
	}
	return r.slots[slotID]
}

// Status returns slot status
func (r *Registry[H]) Status(slotID int) (slot.Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(slotID)
	if e == nil {
		return slot.Status{}, false
	}
	return e.status, true
}

// TryBegin binds handle to an idle slot and marks it running. It returns the
// current status and false when the slot is unknown or not idle.
func (r *Registry[H]) TryBegin(slotID int, taskID string, handle H) (slot.Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(slotID)
	if e == nil {
		return slot.Status{}, false
	}
	if !e.status.IsIdle() {
		return e.status, false
	}
	e.status = slot.Running
	e.taskID = taskID
	e.handle = handle
	e.bound = true
	r.append(e, slot.LogEntry{Time: clock.Now(), Text: fmt.Sprintf("start new task %s", taskID)})
	return e.status, true
}

// Complete records worker exit for the task bound by TryBegin. Completion of
// a task that is no longer bound is a no-op returning false.
func (r *Registry[H]) Complete(slotID int, taskID string, exitCode int) (slot.Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(slotID)
	if e == nil {
		return slot.Status{}, false
	}
	if !e.bound || e.taskID != taskID {
		return e.status, false
	}
	var zero H
	e.status = slot.Completed(exitCode)
	e.handle = zero
	e.bound = false
	r.append(e, slot.LogEntry{Time: clock.Now(), Text: fmt.Sprintf("process finished, status %s", e.status)})
	return e.status, true
}

// Reset returns a finished or failed slot to idle. Idle slot reset is a
// no-op; it returns false for unknown or running slot.
func (r *Registry[H]) Reset(slotID int) (slot.Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(slotID)
	if e == nil {
		return slot.Status{}, false
	}
	switch {
	case e.status.IsRunning():
		return e.status, false
	case e.status.IsIdle():
		return e.status, true
	}
	e.status = slot.Idle
	e.taskID = ""
	r.append(e, slot.LogEntry{Time: clock.Now(), Text: "slot reset"})
	return e.status, true
}

// AppendLog appends text stamped with the current time
func (r *Registry[H]) AppendLog(slotID int, text string) bool {
	return r.AppendEntry(slotID, slot.LogEntry{Time: clock.Now(), Text: text})
}

// AppendEntry appends log entry, it returns false for unknown slot
func (r *Registry[H]) AppendEntry(slotID int, logEntry slot.LogEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(slotID)
	if e == nil {
		return false
	}
	r.append(e, logEntry)
	return true
}

// AppendTaskEntry appends log entry only while slot still belongs to taskID;
// output of a task that was reset or replaced is discarded.
func (r *Registry[H]) AppendTaskEntry(slotID int, taskID string, logEntry slot.LogEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(slotID)
	if e == nil || e.taskID != taskID {
		return false
	}
	r.append(e, logEntry)
	return true
}

// append stores entry; the retained window is the last maxEntries entries,
// storage is compacted once it doubles so that appends stay amortised O(1).
func (r *Registry[H]) append(e *entry[H], logEntry slot.LogEntry) {
	e.log = append(e.log, logEntry)
	if r.maxEntries == 0 || len(e.log) < 2*r.maxEntries {
		return
	}
	excess := len(e.log) - r.maxEntries
	retained := make([]slot.LogEntry, r.maxEntries, 2*r.maxEntries)
	copy(retained, e.log[excess:])
	e.log = retained
	e.dropped += excess
}

func (r *Registry[H]) window(e *entry[H]) ([]slot.LogEntry, int) {
	if r.maxEntries == 0 || len(e.log) <= r.maxEntries {
		return e.log, e.dropped
	}
	excess := len(e.log) - r.maxEntries
	return e.log[excess:], e.dropped + excess
}

// Snapshot returns point-in-time copy of all slot statuses
func (r *Registry[H]) Snapshot() map[int]slot.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make(map[int]slot.Status, len(r.slots))
	for id, e := range r.slots {
		ret[id] = e.status
	}
	return ret
}

// Entries returns a copy of retained log entries and number of dropped entries
func (r *Registry[H]) Entries(slotID int) ([]slot.LogEntry, int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(slotID)
	if e == nil {
		return nil, 0, false
	}
	entries, dropped := r.window(e)
	return append([]slot.LogEntry(nil), entries...), dropped, true
}

// ReadLog returns slot log joined by new line, or slot.NoLog for unknown or
// never used slot
func (r *Registry[H]) ReadLog(slotID int) string {
	entries, dropped, ok := r.Entries(slotID)
	if !ok || len(entries) == 0 {
		return slot.NoLog
	}
	text := slot.Join(entries)
	if dropped == 0 {
		return text
	}
	return fmt.Sprintf("... %d earlier entries dropped", dropped) + "\n" + text
}

// Running returns bindings of all running slots
func (r *Registry[H]) Running() []Binding[H] {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ret []Binding[H]
	for id, e := range r.slots {
		if !e.bound {
			continue
		}
		ret = append(ret, Binding[H]{SlotID: id, TaskID: e.taskID, Handle: e.handle})
	}
	return ret
}
