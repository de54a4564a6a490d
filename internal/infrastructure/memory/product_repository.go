package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/shopworks/fulfillment/internal/domain/product"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[uint]*domain.Product
	nextID   uint
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[uint]*domain.Product),
		nextID:   1,
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_ = ctx
	if p == nil {
		return domain.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	} else if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.products[p.ID] = p.Clone()
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]*domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDs()
	out := make([]*domain.Product, 0, limit)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, r.products[id].Clone())
	}
	return out, nil
}

// AdjustStock applies the delta under the write lock so the non-negativity
// check and the write are one atomic step.
func (r *ProductRepository) AdjustStock(ctx context.Context, id uint, delta int) (int, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	next := p.StockQuantity + delta
	if next < 0 {
		return p.StockQuantity, domain.ErrInsufficientStock
	}
	p.StockQuantity = next
	p.UpdatedAt = time.Now().UTC()
	return next, nil
}

func (r *ProductRepository) ListLowStock(ctx context.Context, threshold int) ([]domain.LowStockItem, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.LowStockItem, 0)
	for _, id := range r.sortedIDs() {
		p := r.products[id]
		if !p.IsActive || p.StockQuantity >= threshold {
			continue
		}
		items = append(items, domain.LowStockItem{
			ID:           p.ID,
			Name:         p.Name,
			CurrentStock: p.StockQuantity,
		})
	}
	return items, nil
}

func (r *ProductRepository) sortedIDs() []uint {
	ids := make([]uint, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
