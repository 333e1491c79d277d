// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todoctl/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It mimics the remote service: ids are assigned sequentially, unknown ids
// yield a 404 RemoteError.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int64

	// Calls counts requests per operation ("list", "create", "update", "delete").
	calls map[string]int

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeService creates an empty FakeService. The first created task gets id 1.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		calls:  make(map[string]int),
	}
}

// AddTask seeds a task directly, bypassing call counting.
func (f *FakeService) AddTask(id int64, title string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Completed: completed})
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

// Tasks returns a copy of the server-side records.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many requests were made for op.
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of requests across all operations.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, title string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	task := service.Task{ID: f.nextID, Title: title}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, id int64, upd service.TaskUpdate) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update"]++
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		if upd.Title != nil {
			f.tasks[i].Title = *upd.Title
		}
		if upd.Completed != nil {
			f.tasks[i].Completed = *upd.Completed
		}
		return f.tasks[i], nil
	}
	return service.Task{}, &service.RemoteError{Status: 404}
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &service.RemoteError{Status: 404}
}
