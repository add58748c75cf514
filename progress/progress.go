package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the supervisor.
// The fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	Submitted int
	Rejected  int
	Running   int
	Finished  int
	Failed    int
}

// Counters represents a point-in-time copy of progress
type Counters struct {
	StartedAt time.Time `json:"startedAt"`
	Submitted int       `json:"submitted"`
	Rejected  int       `json:"rejected"`
	Running   int       `json:"running"`
	Finished  int       `json:"finished"`
	Failed    int       `json:"failed"`
}

// Progress keeps aggregated counters. It is safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	counters Counters
	onChange func(Counters)
}

// New creates a progress tracker
func New() *Progress {
	return &Progress{counters: Counters{StartedAt: time.Now()}}
}

// Update applies the supplied delta. If an onChange callback has been
// registered it is invoked with a copy of the counters outside the critical
// section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.counters.Submitted += d.Submitted
	p.counters.Rejected += d.Rejected
	p.counters.Running += d.Running
	p.counters.Finished += d.Finished
	p.counters.Failed += d.Failed
	snapshot := p.counters
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters
func (p *Progress) Snapshot() Counters {
	if p == nil {
		return Counters{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counters
}

// OnChange registers a callback invoked after every update; only one callback
// is active, subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Counters)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}
