package supervisor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/viant/gpuslot/service/registry"
	"github.com/viant/gpuslot/service/worker"
)

type fakeHandle struct {
	pid    int
	output io.ReadCloser
	writer *io.PipeWriter
	mux    sync.Mutex
	exited bool
	code   int
	killed bool
}

func (h *fakeHandle) PID() int { return h.pid }

func (h *fakeHandle) Output() io.ReadCloser { return h.output }

func (h *fakeHandle) Poll() (int, bool) {
	h.mux.Lock()
	defer h.mux.Unlock()
	return h.code, h.exited
}

func (h *fakeHandle) Kill() error {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.killed = true
	h.exited = true
	h.code = 137
	return nil
}

func (h *fakeHandle) exit(code int) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.exited = true
	h.code = code
}

// released returns a channel closed once the handle output was closed
func (h *fakeHandle) released() <-chan struct{} {
	return h.output.(*closeNotifier).closed
}

func (h *fakeHandle) wasKilled() bool {
	h.mux.Lock()
	defer h.mux.Unlock()
	return h.killed
}

// closeNotifier reports when the collector released the stream
type closeNotifier struct {
	io.ReadCloser
	once   sync.Once
	closed chan struct{}
}

func (c *closeNotifier) Close() error {
	c.once.Do(func() { close(c.closed) })
	return c.ReadCloser.Close()
}

type fakeLauncher struct {
	mux      sync.Mutex
	output   string
	stream   bool
	err      error
	delay    time.Duration
	onLaunch func()
	commands []*worker.Command
	handles  []*fakeHandle
}

func (l *fakeLauncher) Launch(_ context.Context, command *worker.Command) (worker.Handle, error) {
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	if l.onLaunch != nil {
		l.onLaunch()
	}
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	handle := &fakeHandle{pid: 1000 + len(l.handles), output: io.NopCloser(strings.NewReader(l.output))}
	if l.stream {
		reader, writer := io.Pipe()
		handle.output = &closeNotifier{ReadCloser: reader, closed: make(chan struct{})}
		handle.writer = writer
	}
	l.commands = append(l.commands, command)
	l.handles = append(l.handles, handle)
	return handle, nil
}

func (l *fakeLauncher) launched() int {
	l.mux.Lock()
	defer l.mux.Unlock()
	return len(l.handles)
}

func (l *fakeLauncher) handle(i int) *fakeHandle {
	l.mux.Lock()
	defer l.mux.Unlock()
	return l.handles[i]
}

type testEnv struct {
	service  *Service
	slots    *registry.Registry[worker.Handle]
	launcher *fakeLauncher
	root     string
}

func newTestEnv(t *testing.T, size int, launcher *fakeLauncher, options ...Option) *testEnv {
	t.Helper()
	slots := registry.New[worker.Handle](size)
	root := t.TempDir()
	config := DefaultConfig()
	config.OutputRoot = root
	config.MonitorInterval = 10 * time.Millisecond
	options = append([]Option{
		WithConfig(config),
		WithRegistry(slots),
		WithLauncher(launcher),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, options...)
	service, err := New(options...)
	require.NoError(t, err)
	return &testEnv{service: service, slots: slots, launcher: launcher, root: root}
}

func (e *testEnv) texts(slotID int) []string {
	entries, _, _ := e.slots.Entries(slotID)
	ret := make([]string, 0, len(entries))
	for _, entry := range entries {
		ret = append(ret, entry.Text)
	}
	return ret
}
