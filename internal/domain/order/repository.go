package order

import "context"

// Repository is transactional CRUD over order records. Status writes go
// through dedicated methods so every implementation enforces the
// forward-only transition rules in one place.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, offset, limit int) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uint, next Status) error
	MarkFailed(ctx context.Context, id uint, reason FailureReason) error
}
