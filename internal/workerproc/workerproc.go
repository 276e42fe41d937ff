// Package workerproc runs one background task at a time and exposes its
// progress as a snapshot that front ends poll.
package workerproc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"jobapp/internal/shared/apperr"
	"jobapp/internal/shared/metrics"
	"jobapp/internal/shared/telemetry"
)

// Status is the observable state of the session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

const maxLogLines = 200

var (
	// ErrBusy rejects a submission while another task is running.
	ErrBusy = errors.New("a task is already running")
	// ErrClosed rejects submissions after Close.
	ErrClosed = errors.New("session is closed")
)

// RunFunc is the body of a task. Artifacts it returns are published on success.
type RunFunc func(ctx context.Context, progress func(string)) (map[string]string, error)

// EventType distinguishes events sent from the worker to the apply loop.
type EventType int

const (
	EventAccepted EventType = iota
	EventStarted
	EventProgress
	EventDone
	EventFailed
)

// Event is a state change produced by the worker.
type Event struct {
	TaskID    string
	Kind      string
	Type      EventType
	Message   string
	Artifacts map[string]string
	Err       error
	At        time.Time
}

// TaskError is the user-facing form of a failure.
type TaskError struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Hints   []string `json:"hints"`
}

// Snapshot is a copy of the observed session state.
type Snapshot struct {
	Status     Status            `json:"status"`
	Busy       bool              `json:"busy"`
	TaskID     string            `json:"task_id,omitempty"`
	TaskKind   string            `json:"task_kind,omitempty"`
	Log        []string          `json:"log"`
	Artifacts  map[string]string `json:"artifacts"`
	Error      *TaskError        `json:"error,omitempty"`
	StartedAt  *time.Time        `json:"started_at,omitempty"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

type task struct {
	id   string
	kind string
	run  RunFunc
}

// Session owns the busy flag, a single worker goroutine and the apply loop
// that is the only writer of the observed state.
type Session struct {
	busy   atomic.Bool
	closed atomic.Bool

	tasks  chan task
	events chan Event

	mu    sync.RWMutex
	state Snapshot

	taskCtx  context.Context
	workerWG sync.WaitGroup
	applyWG  sync.WaitGroup
	submitMu sync.Mutex
}

// NewSession starts the worker and the apply loop. Tasks run under a context
// detached from ctx so an accepted task is never cancelled by its caller.
func NewSession(ctx context.Context) *Session {
	s := &Session{
		tasks:   make(chan task, 1),
		events:  make(chan Event, 64),
		state:   Snapshot{Status: StatusIdle, Log: []string{}, Artifacts: map[string]string{}},
		taskCtx: context.WithoutCancel(ctx),
	}
	s.workerWG.Add(1)
	go s.work()
	s.applyWG.Add(1)
	go s.apply()
	return s
}

// Submit queues run unless a task is already in flight. It returns the task ID.
func (s *Session) Submit(kind string, run RunFunc) (string, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	if s.closed.Load() {
		return "", ErrClosed
	}
	if !s.busy.CompareAndSwap(false, true) {
		metrics.IncBusyRejected()
		return "", ErrBusy
	}

	id := uuid.NewString()
	s.emit(Event{TaskID: id, Kind: kind, Type: EventAccepted})
	s.tasks <- task{id: id, kind: kind, run: run}
	telemetry.Info("task.submitted", map[string]any{"task_id": id, "task_kind": kind})
	return id, nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Busy = s.busy.Load()
	out.Log = make([]string, len(s.state.Log))
	copy(out.Log, s.state.Log)
	out.Artifacts = make(map[string]string, len(s.state.Artifacts))
	for k, v := range s.state.Artifacts {
		out.Artifacts[k] = v
	}
	if s.state.Error != nil {
		e := *s.state.Error
		e.Hints = append([]string(nil), e.Hints...)
		out.Error = &e
	}
	return out
}

// Busy reports whether a task is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Close stops accepting tasks and waits for the running one to finish.
func (s *Session) Close() {
	s.submitMu.Lock()
	if s.closed.Swap(true) {
		s.submitMu.Unlock()
		return
	}
	close(s.tasks)
	s.submitMu.Unlock()

	s.workerWG.Wait()
	close(s.events)
	s.applyWG.Wait()
}

func (s *Session) work() {
	defer s.workerWG.Done()
	for t := range s.tasks {
		s.runTask(t)
	}
}

func (s *Session) runTask(t task) {
	s.emit(Event{TaskID: t.id, Kind: t.kind, Type: EventStarted})

	progress := func(msg string) {
		s.emit(Event{TaskID: t.id, Kind: t.kind, Type: EventProgress, Message: msg})
	}

	artifacts, err := func() (out map[string]string, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		return t.run(s.taskCtx, progress)
	}()

	if err != nil {
		s.emit(Event{TaskID: t.id, Kind: t.kind, Type: EventFailed, Err: err})
		return
	}
	s.emit(Event{TaskID: t.id, Kind: t.kind, Type: EventDone, Artifacts: artifacts})
}

func (s *Session) emit(ev Event) {
	ev.At = time.Now().UTC()
	s.events <- ev
}

func (s *Session) apply() {
	defer s.applyWG.Done()
	for ev := range s.events {
		s.mu.Lock()
		s.applyLocked(ev)
		s.mu.Unlock()

		if ev.Type == EventDone || ev.Type == EventFailed {
			s.busy.Store(false)
		}
	}
}

func (s *Session) applyLocked(ev Event) {
	if ev.Type == EventAccepted {
		s.state = Snapshot{
			Status:    StatusRunning,
			TaskID:    ev.TaskID,
			TaskKind:  ev.Kind,
			Log:       []string{},
			Artifacts: map[string]string{},
		}
		return
	}
	if ev.TaskID != s.state.TaskID {
		return
	}
	at := ev.At
	switch ev.Type {
	case EventStarted:
		s.state.StartedAt = &at
		s.appendLog(fmt.Sprintf("Started %s", ev.Kind))
	case EventProgress:
		s.appendLog(ev.Message)
	case EventDone:
		s.state.Status = StatusDone
		s.state.FinishedAt = &at
		for k, v := range ev.Artifacts {
			s.state.Artifacts[k] = v
		}
		s.appendLog("Completed")
		telemetry.Info("task.complete", map[string]any{"task_id": ev.TaskID, "task_kind": ev.Kind})
	case EventFailed:
		kind := apperr.KindOf(ev.Err)
		s.state.Status = StatusFailed
		s.state.FinishedAt = &at
		s.state.Error = &TaskError{
			Kind:    string(kind),
			Message: ev.Err.Error(),
			Hints:   apperr.Hints(kind),
		}
		s.appendLog("Failed: " + ev.Err.Error())
		telemetry.Error("task.failed", map[string]any{"task_id": ev.TaskID, "task_kind": ev.Kind, "kind": string(kind), "error": ev.Err})
	}
}

func (s *Session) appendLog(line string) {
	s.state.Log = append(s.state.Log, line)
	if n := len(s.state.Log); n > maxLogLines {
		s.state.Log = s.state.Log[n-maxLogLines:]
	}
}
