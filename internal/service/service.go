// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All remote persistence calls go through this interface.
// Each method is a single request/response exchange with no retries.
type Service interface {
	// List returns every task in the order the backend returned them.
	List(ctx context.Context) ([]Task, error)

	// Create creates a task with the given title.
	// The backend assigns the ID and sets Completed to false.
	Create(ctx context.Context, title string) (Task, error)

	// Update applies a partial update and returns the full updated task.
	Update(ctx context.Context, id int64, upd TaskUpdate) (Task, error)

	// Delete removes a task.
	Delete(ctx context.Context, id int64) error
}
