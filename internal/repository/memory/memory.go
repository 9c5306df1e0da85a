// Package memory provides in-memory implementations of the repository
// interfaces, used in tests and anywhere a MongoDB instance is unavailable.
package memory

import (
	"context"
	"sync"

	"flexapp/flex-api/internal/domain"
	"flexapp/flex-api/internal/repository"
)

// UserRepository is a mutex-guarded in-memory user store.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

// Create stores a user, enforcing username uniqueness under the lock so two
// concurrent registrations of the same name cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return repository.ErrDuplicate
	}
	r.users[user.Username] = *user
	return nil
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

// PlanRepository is a mutex-guarded in-memory plan store that preserves
// insertion order for GetByOwner.
type PlanRepository struct {
	mu    sync.RWMutex
	plans map[string]domain.WorkoutPlan
	order []string
}

// NewPlanRepository creates an empty in-memory plan repository.
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{plans: make(map[string]domain.WorkoutPlan)}
}

// Create stores a plan keyed by its ID.
func (r *PlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.plans[plan.ID]; exists {
		return repository.ErrDuplicate
	}
	r.plans[plan.ID] = *plan
	r.order = append(r.order, plan.ID)
	return nil
}

// GetByID retrieves a plan by ID.
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &plan, nil
}

// GetByOwner retrieves all plans for an owner, oldest first.
func (r *PlanRepository) GetByOwner(ctx context.Context, owner string) ([]domain.WorkoutPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plans := []domain.WorkoutPlan{}
	for _, id := range r.order {
		if plan, ok := r.plans[id]; ok && plan.Owner == owner {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

// Delete removes a plan by ID; a missing plan yields ErrNotFound.
func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
