// Package store owns the in-memory task collection and keeps it in sync with
// the remote service.
//
// Every mutation waits for the server before touching local state. Results are
// applied under the store lock against the collection as it is when the
// response lands, so concurrent operations on different ids compose. Two
// concurrent updates to the same id race: the last response to land wins.
package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"todoctl/internal/logging"
	"todoctl/internal/service"
)

// State is the store's status axis.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

// Status is what presentation code observes. Message is set only when errored.
type Status struct {
	State   State
	Message string
}

// Store is the task store controller.
type Store struct {
	client service.Service
	logger *log.Logger

	mu         sync.Mutex
	tasks      []service.Task
	refreshing int
	errMsg     string
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for failures and debug tracing.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an idle, empty store backed by client.
func New(client service.Service, opts ...Option) *Store {
	s := &Store{
		client: client,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount performs the initial load.
func (s *Store) Mount(ctx context.Context) {
	s.Refresh(ctx)
}

// Refresh replaces the collection with the server's current list.
// On failure the collection is left as it was.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.errMsg = ""
	s.refreshing++
	s.mu.Unlock()

	tasks, err := s.client.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing--
	if err != nil {
		s.fail(opList, err)
		return
	}
	s.tasks = append([]service.Task(nil), tasks...)
	s.logger.Debug("refreshed", "count", len(tasks))
}

// Create creates a task and appends it once the server acknowledges it.
// A title that is blank after trimming is ignored without a request.
func (s *Store) Create(ctx context.Context, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	s.clearErr()

	task, err := s.client.Create(ctx, title)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fail(opCreate, err)
		return
	}
	// A refresh that landed first may already hold this id.
	if i := s.indexOf(task.ID); i >= 0 {
		s.tasks[i] = task
		return
	}
	s.tasks = append(s.tasks, task)
}

// Update applies a partial update and replaces the entry with the server's record.
// A title that is blank after trimming suppresses the whole request, including
// any Completed change carried with it.
func (s *Store) Update(ctx context.Context, id int64, upd service.TaskUpdate) {
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return
		}
		upd.Title = &title
	}
	s.clearErr()

	task, err := s.client.Update(ctx, id, upd)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fail(opUpdate, err)
		return
	}
	// Deleted while the update was in flight.
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug("dropping update for missing task", "id", id)
		return
	}
	s.tasks[i] = task
}

// ToggleCompletion flips task's completion flag.
func (s *Store) ToggleCompletion(ctx context.Context, task service.Task) {
	s.Update(ctx, task.ID, service.CompletedUpdate(!task.Completed))
}

// Delete removes a task once the server confirms.
func (s *Store) Delete(ctx context.Context, id int64) {
	s.clearErr()

	err := s.client.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fail(opDelete, err)
		return
	}
	kept := make([]service.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
}

// Tasks returns a copy of the collection in display order.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.Task(nil), s.tasks...)
}

// Find returns the task with the given id.
func (s *Store) Find(id int64) (service.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Stats returns the aggregates for the current collection.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeStats(s.tasks)
}

// Status returns the current status. An error takes precedence over loading.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.errMsg != "":
		return Status{State: StateErrored, Message: s.errMsg}
	case s.refreshing > 0:
		return Status{State: StateLoading}
	default:
		return Status{State: StateIdle}
	}
}

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing > 0
}

// Err returns the current error message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Store) clearErr() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
}

// fail records err as the current message. Caller holds s.mu.
func (s *Store) fail(op operation, err error) {
	s.errMsg = describe(op, err)
	s.logger.Warn(s.errMsg, "op", op.name, "err", err)
}

// indexOf returns the position of id, or -1. Caller holds s.mu.
func (s *Store) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

type operation struct {
	name    string
	generic string
}

var (
	opList   = operation{"list", "failed to fetch tasks"}
	opCreate = operation{"create", "failed to create task"}
	opUpdate = operation{"update", "failed to update task"}
	opDelete = operation{"delete", "failed to delete task"}
)

// describe converts a client error into the message shown to users.
func describe(op operation, err error) string {
	var remote *service.RemoteError
	var malformed *service.MalformedResponseError
	switch {
	case errors.As(err, &remote):
		if remote.Status == 404 {
			return "task not found"
		}
		return "server returned status " + strconv.Itoa(remote.Status)
	case errors.As(err, &malformed):
		return "malformed response from server"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return op.generic
	}
}
