// Package infrastructure wires a concrete repository set from
// configuration.
package infrastructure

import (
	"github.com/shopworks/fulfillment/internal/domain/order"
	"github.com/shopworks/fulfillment/internal/domain/product"
	"github.com/shopworks/fulfillment/internal/domain/user"
	"github.com/shopworks/fulfillment/internal/infrastructure/memory"
	"github.com/shopworks/fulfillment/internal/infrastructure/postgres"
)

type Repositories struct {
	Orders   order.Repository
	Products product.Repository
	Users    user.Repository
}

// NewRepositories returns Postgres-backed repositories when databaseURL is
// set, and in-memory ones otherwise. The in-memory backend is per-process:
// it suits tests and single-process demos, not an API/worker split.
func NewRepositories(databaseURL string) (*Repositories, error) {
	if databaseURL == "" {
		return &Repositories{
			Orders:   memory.NewOrderRepository(),
			Products: memory.NewProductRepository(),
			Users:    memory.NewUserRepository(),
		}, nil
	}

	db, err := postgres.Open(databaseURL)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(db); err != nil {
		return nil, err
	}
	return &Repositories{
		Orders:   postgres.NewOrderRepository(db),
		Products: postgres.NewProductRepository(db),
		Users:    postgres.NewUserRepository(db),
	}, nil
}
