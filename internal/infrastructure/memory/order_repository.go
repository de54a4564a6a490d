package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/shopworks/fulfillment/internal/domain/order"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uint]*domain.Order
	nextID uint
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[uint]*domain.Order),
		nextID: 1,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	_ = ctx
	if o == nil {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == 0 {
		o.ID = r.nextID
		r.nextID++
	} else if o.ID >= r.nextID {
		r.nextID = o.ID + 1
	}
	r.orders[o.ID] = o.Clone()
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id uint) (*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) List(ctx context.Context, offset, limit int) ([]*domain.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*domain.Order, 0, limit)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, r.orders[id].Clone())
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, next domain.Status) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	return o.Advance(next)
}

func (r *OrderRepository) MarkFailed(ctx context.Context, id uint, reason domain.FailureReason) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	return o.Fail(reason)
}
