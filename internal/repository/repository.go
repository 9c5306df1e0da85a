package repository

import (
	"context"

	"flexapp/flex-api/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
// Create must enforce username uniqueness at the store level (unique index)
// and return ErrDuplicate on collision, so concurrent registrations of the
// same username cannot both succeed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PlanRepository defines the interface for interacting with workout plans.
// Implementations must be safe for concurrent use.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutPlan, error)
	GetByOwner(ctx context.Context, owner string) ([]domain.WorkoutPlan, error)
	Delete(ctx context.Context, id string) error
}
