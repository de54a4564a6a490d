package product

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"

	domain "github.com/shopworks/fulfillment/internal/domain/product"
)

// CreateInput carries the product attributes through the creation
// workflow. Only primitives cross the workflow boundary.
type CreateInput struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         float64         `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Category      domain.Category `json:"category"`
}

// CreateResult is the structured outcome of the creation process.
type CreateResult struct {
	OK        bool   `json:"ok"`
	ProductID uint   `json:"product_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// StockUpdateInput identifies the product and the signed delta to apply.
type StockUpdateInput struct {
	ProductID uint `json:"product_id"`
	Delta     int  `json:"delta"`
}

// StockCode enumerates the outcomes of a stock adjustment.
type StockCode string

const (
	StockOK           StockCode = "ok"
	StockNotFound     StockCode = "product_not_found"
	StockInsufficient StockCode = "insufficient_stock"
)

// StockUpdateResult is the structured outcome of a stock adjustment.
type StockUpdateResult struct {
	Code         StockCode `json:"code"`
	CurrentStock int       `json:"current_stock"`
	Reason       string    `json:"reason,omitempty"`
}

func (r StockUpdateResult) OK() bool { return r.Code == StockOK }

// Activities implements the product process steps over the repository.
type Activities struct {
	products domain.Repository
}

func NewActivities(products domain.Repository) *Activities {
	return &Activities{products: products}
}

// CreateProduct persists one product in a single transaction. Persistence
// failures surface as a structured failure with a reason; no partial
// record is left behind.
func (a *Activities) CreateProduct(ctx context.Context, in CreateInput) (CreateResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("creating product", "name", in.Name)

	p, err := domain.New(in.Name, in.Description, in.Price, in.StockQuantity, in.Category)
	if err != nil {
		return CreateResult{Reason: fmt.Sprintf("Failed to create product: %v", err)}, nil
	}
	if err := a.products.Create(ctx, p); err != nil {
		return CreateResult{Reason: fmt.Sprintf("Failed to create product: %v", err)}, nil
	}
	return CreateResult{OK: true, ProductID: p.ID}, nil
}

// UpdateProductStock delegates to the repository's atomic adjustment; the
// non-negativity race is closed there, not here.
func (a *Activities) UpdateProductStock(ctx context.Context, in StockUpdateInput) (StockUpdateResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("updating stock", "product_id", in.ProductID, "delta", in.Delta)

	current, err := a.products.AdjustStock(ctx, in.ProductID, in.Delta)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return StockUpdateResult{Code: StockNotFound, Reason: "Product not found"}, nil
	case errors.Is(err, domain.ErrInsufficientStock):
		return StockUpdateResult{
			Code:         StockInsufficient,
			CurrentStock: current,
			Reason:       "Insufficient stock",
		}, nil
	case err != nil:
		return StockUpdateResult{}, err
	}
	return StockUpdateResult{Code: StockOK, CurrentStock: current}, nil
}

// CheckLowStockProducts reports every active product with stock strictly
// below the threshold, ordered by id.
func (a *Activities) CheckLowStockProducts(ctx context.Context, threshold int) (domain.LowStockReport, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("checking low stock", "threshold", threshold)

	items, err := a.products.ListLowStock(ctx, threshold)
	if err != nil {
		return domain.LowStockReport{}, err
	}
	return domain.LowStockReport{
		LowStockCount: len(items),
		Products:      items,
	}, nil
}
