package repository

import (
	"context"
	"errors"

	"github.com/dom/task-tracker/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository is the credential store. GetByEmail is the only lookup that
// callers use to compare password hashes.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	Stats(ctx context.Context, filter domain.TaskFilter) (*domain.TaskStats, error)
	Update(ctx context.Context, task *domain.Task) error
}

type Repositories struct {
	User UserRepository
	Task TaskRepository
}
