// Package product implements the product-management processes: creation,
// atomic stock adjustment under the non-negativity invariant, and the
// low-stock report.
package product

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	domain "github.com/shopworks/fulfillment/internal/domain/product"
)

const activityTimeout = 10 * time.Second

func withOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: activityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	})
}

// Create runs the single-step product creation process.
func Create(ctx workflow.Context, in CreateInput) (*CreateResult, error) {
	ctx = withOptions(ctx)
	var a *Activities

	var res CreateResult
	if err := workflow.ExecuteActivity(ctx, a.CreateProduct, in).Get(ctx, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// StockUpdate applies a signed delta to one product's stock. The workflow
// never reads the current quantity itself; the repository commits the
// check and the write atomically.
func StockUpdate(ctx workflow.Context, in StockUpdateInput) (*StockUpdateResult, error) {
	ctx = withOptions(ctx)
	var a *Activities

	var res StockUpdateResult
	if err := workflow.ExecuteActivity(ctx, a.UpdateProductStock, in).Get(ctx, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// InventoryCheck produces the low-stock report for the given threshold.
func InventoryCheck(ctx workflow.Context, threshold int) (*domain.LowStockReport, error) {
	ctx = withOptions(ctx)
	var a *Activities

	var report domain.LowStockReport
	if err := workflow.ExecuteActivity(ctx, a.CheckLowStockProducts, threshold).Get(ctx, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
