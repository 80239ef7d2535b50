package repository

import "context"

// Collection names shared by every backend.
const (
	TodoCollection      = "todos"
	RepeatingCollection = "repeating"
)

// Store persists one whole collection of records. Implementations never
// check record identity; that is the caller's job.
type Store[T any] interface {
	// Load returns the full collection. A store that has never been written
	// returns an empty slice.
	Load(ctx context.Context) ([]T, error)

	// Save replaces the full collection.
	Save(ctx context.Context, records []T) error

	// Mutate runs load, fn and save as one critical section. When fn returns
	// an error nothing is written and that error is returned as is.
	Mutate(ctx context.Context, fn func(records []T) ([]T, error)) error
}
