// Package service defines the backend-agnostic interface for task operations.
package service

// Task represents a single task item.
// ID is assigned by the remote service and never changes.
type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// TaskUpdate is a partial update. Nil fields are left unchanged server-side.
type TaskUpdate struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// TitleUpdate returns an update that only changes the title.
func TitleUpdate(title string) TaskUpdate {
	return TaskUpdate{Title: &title}
}

// CompletedUpdate returns an update that only changes the completion flag.
func CompletedUpdate(completed bool) TaskUpdate {
	return TaskUpdate{Completed: &completed}
}
