package memory

import (
	"context"
	"sync"

	domain "github.com/shopworks/fulfillment/internal/domain/user"
)

type UserRepository struct {
	mu         sync.RWMutex
	users      map[uint]*domain.User
	byUsername map[string]uint
	nextID     uint
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:      make(map[uint]*domain.User),
		byUsername: make(map[string]uint),
		nextID:     1,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_ = ctx
	if u == nil {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[u.Username]; taken {
		return domain.ErrConflict
	}
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	}
	r.users[u.ID] = u.Clone()
	r.byUsername[u.Username] = u.ID
	return nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.users[id].Clone(), nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.users)), nil
}
