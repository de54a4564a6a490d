package product

import "context"

// Repository is transactional CRUD over product records.
//
// AdjustStock is the atomic stock primitive: it applies a signed delta and
// either commits the new quantity or rejects with ErrInsufficientStock
// leaving stock untouched. The check and the write happen as one atomic
// operation inside the repository; callers must not read-decide-write in
// separate steps, as two concurrent decrements could then both observe the
// same stale quantity.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Get(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, offset, limit int) ([]*Product, error)
	AdjustStock(ctx context.Context, id uint, delta int) (int, error)
	ListLowStock(ctx context.Context, threshold int) ([]LowStockItem, error)
}
