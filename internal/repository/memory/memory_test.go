package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"flexapp/flex-api/internal/domain"
	"flexapp/flex-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h2"}), repository.ErrDuplicate)

	user, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", user.PasswordHash, "first writer wins")
}

func TestUserRepositoryConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	const attempts = 50
	var wg sync.WaitGroup
	var successes int64

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"}); err == nil {
				atomic.AddInt64(&successes, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, successes, "exactly one concurrent registration may win")
}

func TestPlanRepositoryOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository()

	require.NoError(t, repo.Create(ctx, &domain.WorkoutPlan{ID: "p1", Owner: "alice"}))
	require.NoError(t, repo.Create(ctx, &domain.WorkoutPlan{ID: "p2", Owner: "bob"}))
	require.NoError(t, repo.Create(ctx, &domain.WorkoutPlan{ID: "p3", Owner: "alice"}))

	plans, err := repo.GetByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "p1", plans[0].ID)
	assert.Equal(t, "p3", plans[1].ID)

	require.NoError(t, repo.Delete(ctx, "p1"))
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrNotFound)

	_, err = repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	plans, err = repo.GetByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "p3", plans[0].ID)
}
