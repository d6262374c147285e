package task

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Worker runs one task. It should watch ctx and return promptly once
// the context is cancelled; any progress it wants to surface goes
// through the Handle.
type Worker func(ctx context.Context, h *Handle) error

// Manager schedules background downloads and transcodes and keeps a
// poll-friendly record of every task it has seen. Downloads share a
// configurable number of slots; transcodes run one at a time.
type Manager struct {
	mu      sync.RWMutex
	order   []string
	tasks   map[string]*Task
	cancels map[string]context.CancelFunc

	dlSem chan struct{}
	tcSem chan struct{}
	wg    sync.WaitGroup
}

// NewManager returns a Manager with the given number of concurrent
// download slots. Values below one are raised to one.
func NewManager(downloadSlots int) *Manager {
	if downloadSlots < 1 {
		downloadSlots = 1
	}
	return &Manager{
		tasks:   make(map[string]*Task),
		cancels: make(map[string]context.CancelFunc),
		dlSem:   make(chan struct{}, downloadSlots),
		tcSem:   make(chan struct{}, 1),
	}
}

// Start registers a task and launches its worker. The returned id can
// be used with Get and Cancel. The task starts in StatusPending and
// moves to StatusRunning once a slot frees up.
func (m *Manager) Start(ctx context.Context, kind Kind, title, detail string, work Worker) string {
	id := NewID(idPrefix(kind))
	tctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.order = append(m.order, id)
	m.tasks[id] = &Task{ID: id, Kind: kind, Title: title, Detail: detail, Status: StatusPending}
	m.cancels[id] = cancel
	m.mu.Unlock()

	h := &Handle{m: m, id: id}
	m.wg.Add(1)
	go m.run(tctx, cancel, kind, h, work)
	return id
}

func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, kind Kind, h *Handle, work Worker) {
	defer m.wg.Done()
	defer cancel()

	sem := m.dlSem
	if kind == KindTranscode {
		sem = m.tcSem
	}
	select {
	case sem <- struct{}{}:
		defer func() { <-sem }()
		// A cancel may race the freed slot; cancelled tasks never run.
		if ctx.Err() != nil {
			m.finish(h.id, ctx.Err())
			return
		}
	case <-ctx.Done():
		m.finish(h.id, ctx.Err())
		return
	}

	m.mu.Lock()
	if t := m.tasks[h.id]; t != nil && !t.Status.Terminal() {
		t.Status = StatusRunning
		t.StartedAt = time.Now()
	}
	m.mu.Unlock()

	err := work(ctx, h)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	m.finish(h.id, err)
}

func (m *Manager) finish(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.tasks[id]
	if t == nil || t.Status.Terminal() {
		return
	}
	t.FinishedAt = time.Now()
	switch {
	case err == nil:
		t.Status = StatusDone
		t.Percent = 100
	case errors.Is(err, context.Canceled):
		t.Status = StatusCancelled
	default:
		t.Status = StatusFailed
		t.Err = err.Error()
	}
	delete(m.cancels, id)
}

// Snapshot returns copies of all tasks in the order they were added.
func (m *Manager) Snapshot() []Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Task, 0, len(m.order))
	for _, id := range m.order {
		if t := m.tasks[id]; t != nil {
			out = append(out, *t)
		}
	}
	return out
}

// Get returns a copy of the task with the given id.
func (m *Manager) Get(id string) (Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Cancel asks the task's worker to stop and reports whether the task
// was still live. Pending tasks are cancelled immediately; running
// workers stop when they next check their context. Unknown or finished
// ids are ignored.
func (m *Manager) Cancel(id string) bool {
	m.mu.RLock()
	cancel := m.cancels[id]
	m.mu.RUnlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}

// Active counts tasks that have not reached a terminal state.
func (m *Manager) Active() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.tasks {
		if !t.Status.Terminal() {
			n++
		}
	}
	return n
}

// Wait blocks until every worker launched so far has returned.
func (m *Manager) Wait() { m.wg.Wait() }

// Handle lets a worker publish progress for its own task.
type Handle struct {
	m  *Manager
	id string
}

// ID returns the task id the handle belongs to.
func (h *Handle) ID() string { return h.id }

// Update applies fn to the live task under the manager's lock. The
// id, kind and status fields are owned by the manager and restored
// after fn runs; updates against a finished task are dropped.
func (h *Handle) Update(fn func(*Task)) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	t := h.m.tasks[h.id]
	if t == nil || t.Status.Terminal() {
		return
	}
	id, kind, status := t.ID, t.Kind, t.Status
	fn(t)
	t.ID, t.Kind, t.Status = id, kind, status
}
