package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/gpuslot/internal/clock"
	"github.com/viant/gpuslot/model/slot"
)

type handle struct{ id int }

func fixedClock(t *testing.T) time.Time {
	at := time.Date(2024, 5, 14, 8, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return at }
	t.Cleanup(func() { clock.NowFunc = time.Now })
	return at
}

func TestRegistry_TryBegin(t *testing.T) {
	registry := New[*handle](2)

	status, ok := registry.TryBegin(0, "t1", &handle{id: 1})
	assert.True(t, ok)
	assert.Equal(t, slot.Running, status)

	status, ok = registry.TryBegin(0, "t2", &handle{id: 2})
	assert.False(t, ok)
	assert.Equal(t, slot.Running, status)

	_, ok = registry.TryBegin(2, "t3", &handle{id: 3})
	assert.False(t, ok)
	_, ok = registry.TryBegin(-1, "t3", &handle{id: 3})
	assert.False(t, ok)

	snapshot := registry.Snapshot()
	assert.Equal(t, map[int]slot.Status{0: slot.Running, 1: slot.Idle}, snapshot)

	bindings := registry.Running()
	require.Len(t, bindings, 1)
	assert.Equal(t, 0, bindings[0].SlotID)
	assert.Equal(t, "t1", bindings[0].TaskID)
	assert.Equal(t, 1, bindings[0].Handle.id)
}

func TestRegistry_ConcurrentTryBegin(t *testing.T) {
	registry := New[*handle](1)
	var wg sync.WaitGroup
	var mux sync.Mutex
	accepted := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, ok := registry.TryBegin(0, fmt.Sprintf("t%d", i), &handle{id: i}); ok {
				mux.Lock()
				accepted++
				mux.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, accepted)
	assert.Len(t, registry.Running(), 1)
}

func TestRegistry_Complete(t *testing.T) {
	testCases := []struct {
		name     string
		exitCode int
		expect   slot.Status
		label    string
	}{
		{name: "success", exitCode: 0, expect: slot.Finished, label: "finished"},
		{name: "failure", exitCode: 137, expect: slot.Failed(137), label: "failed(code:137)"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			at := fixedClock(t)
			registry := New[*handle](1)
			_, ok := registry.TryBegin(0, "t1", &handle{})
			require.True(t, ok)

			_, ok = registry.Complete(0, "other", tc.exitCode)
			assert.False(t, ok, "stale task completion should be ignored")

			status, ok := registry.Complete(0, "t1", tc.exitCode)
			assert.True(t, ok)
			assert.Equal(t, tc.expect, status)

			status, ok = registry.Complete(0, "t1", 1)
			assert.False(t, ok, "second completion should be a no-op")
			assert.Equal(t, tc.expect, status)
			assert.Empty(t, registry.Running())

			stamp := at.Format(slot.TimeLayout)
			expectLog := stamp + ": start new task t1\n" + stamp + ": process finished, status " + tc.label
			assert.Equal(t, expectLog, registry.ReadLog(0))

			_, ok = registry.TryBegin(0, "t2", &handle{})
			assert.False(t, ok, "completed slot must not accept submission before reset")
		})
	}
}

func TestRegistry_Reset(t *testing.T) {
	registry := New[*handle](1)

	status, ok := registry.Reset(0)
	assert.True(t, ok)
	assert.Equal(t, slot.Idle, status)

	_, _ = registry.TryBegin(0, "t1", &handle{})
	status, ok = registry.Reset(0)
	assert.False(t, ok)
	assert.Equal(t, slot.Running, status)

	_, _ = registry.Complete(0, "t1", 2)
	status, ok = registry.Reset(0)
	assert.True(t, ok)
	assert.Equal(t, slot.Idle, status)

	_, ok = registry.TryBegin(0, "t2", &handle{})
	assert.True(t, ok)

	_, ok = registry.Reset(5)
	assert.False(t, ok)

	entries, dropped, ok := registry.Entries(0)
	require.True(t, ok)
	assert.Equal(t, 0, dropped)
	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		texts = append(texts, entry.Text)
	}
	assert.Equal(t, []string{
		"start new task t1",
		"process finished, status failed(code:2)",
		"slot reset",
		"start new task t2",
	}, texts)
}

func TestRegistry_AppendTaskEntry(t *testing.T) {
	registry := New[*handle](1)
	entry := func(text string) slot.LogEntry { return slot.LogEntry{Time: clock.Now(), Text: text} }

	assert.False(t, registry.AppendTaskEntry(0, "t1", entry("before start")))
	_, ok := registry.TryBegin(0, "t1", &handle{})
	require.True(t, ok)
	assert.True(t, registry.AppendTaskEntry(0, "t1", entry("running")))
	assert.False(t, registry.AppendTaskEntry(0, "t0", entry("stale")))

	_, _ = registry.Complete(0, "t1", 0)
	assert.True(t, registry.AppendTaskEntry(0, "t1", entry("tail after exit")))

	_, _ = registry.Reset(0)
	_, ok = registry.TryBegin(0, "t2", &handle{})
	require.True(t, ok)
	assert.False(t, registry.AppendTaskEntry(0, "t1", entry("late")))
	assert.False(t, registry.AppendTaskEntry(3, "t2", entry("unknown slot")))

	entries, _, _ := registry.Entries(0)
	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{
		"start new task t1",
		"running",
		"process finished, status finished",
		"tail after exit",
		"slot reset",
		"start new task t2",
	}, texts)
}

func TestRegistry_ReadLog(t *testing.T) {
	registry := New[*handle](2)
	assert.Equal(t, slot.NoLog, registry.ReadLog(7))
	assert.Equal(t, slot.NoLog, registry.ReadLog(1))
	assert.False(t, registry.AppendLog(7, "lost"))
	assert.True(t, registry.AppendLog(1, "hello"))
	assert.Contains(t, registry.ReadLog(1), ": hello")
}

func TestRegistry_Retention(t *testing.T) {
	registry := New[*handle](1, WithMaxEntries(3))
	for i := 0; i < 10; i++ {
		registry.AppendLog(0, fmt.Sprintf("line %d", i))
	}
	entries, dropped, ok := registry.Entries(0)
	require.True(t, ok)
	assert.Equal(t, 7, dropped)
	require.Len(t, entries, 3)
	assert.Equal(t, "line 7", entries[0].Text)
	assert.Equal(t, "line 9", entries[2].Text)

	text := registry.ReadLog(0)
	assert.Regexp(t, `^\.\.\. 7 earlier entries dropped\n.*: line 7\n.*: line 8\n.*: line 9$`, text)
}

func TestRegistry_Unbounded(t *testing.T) {
	registry := New[*handle](1, WithMaxEntries(0))
	for i := 0; i < 100; i++ {
		registry.AppendLog(0, "x")
	}
	entries, dropped, _ := registry.Entries(0)
	assert.Len(t, entries, 100)
	assert.Equal(t, 0, dropped)
}

func TestRegistry_ConcurrentAppend(t *testing.T) {
	registry := New[*handle](2, WithMaxEntries(0))
	var wg sync.WaitGroup
	for s := 0; s < 2; s++ {
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func(slotID int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					registry.AppendLog(slotID, "line")
					_ = registry.Snapshot()
					_ = registry.ReadLog(slotID)
				}
			}(s)
		}
	}
	wg.Wait()
	for s := 0; s < 2; s++ {
		entries, _, _ := registry.Entries(s)
		assert.Len(t, entries, 200)
	}
}
