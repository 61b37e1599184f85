package interfaces

import "errors"

// ErrNotFound is returned by all repository implementations when the target
// row does not exist. Handlers use it to distinguish already-satisfied states
// (story already deleted, user already removed) from real store failures.
var ErrNotFound = errors.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Connection() ConnectionRepository
	Story() StoryRepository
	Message() MessageRepository
	WorkflowRun() WorkflowRunRepository

	Close() error
}
