package order

import (
	"context"
	"errors"
	"strings"

	"go.temporal.io/sdk/activity"

	domain "github.com/shopworks/fulfillment/internal/domain/order"
)

// Rules holds the configurable business thresholds the saga steps check.
type Rules struct {
	// MaxQuantity is the inventory ceiling; larger orders fail validation.
	MaxQuantity int
	// MaxPaymentAmount: payment succeeds only for totals strictly below it.
	MaxPaymentAmount float64
	// ShippingMarker: shipping requires the address to contain this
	// substring. Empty disables the check.
	ShippingMarker string
	// MinShippingAddressLen: shipping requires the address to be at least
	// this long. Zero disables the check.
	MinShippingAddressLen int
}

// Activities implements the saga steps. Every step re-reads the order by
// id instead of trusting workflow-carried state, writes the step's status
// before evaluating its check, and records terminal failures itself. The
// repository handle is a pooled connection source; each invocation scopes
// its database work to its own context, so nothing replay-unsafe crosses
// the workflow boundary.
type Activities struct {
	orders domain.Repository
	rules  Rules
}

func NewActivities(orders domain.Repository, rules Rules) *Activities {
	return &Activities{orders: orders, rules: rules}
}

// ValidateOrder checks the inventory ceiling, address well-formedness and
// price consistency. The failure reason names every violated sub-check in
// the fixed order inventory, address, price.
func (a *Activities) ValidateOrder(ctx context.Context, orderID uint) (StepResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("validating order", "order_id", orderID)

	o, res, err := a.begin(ctx, orderID, domain.StatusValidating)
	if !res.OK() || err != nil {
		return res, err
	}

	hasInventory := o.Quantity <= a.rules.MaxQuantity
	hasValidAddress := len(o.ShippingAddress) > 10
	isPriceValid := o.Price > 0 && o.TotalAmount == o.Price*float64(o.Quantity)

	if hasInventory && hasValidAddress && isPriceValid {
		return ok(), nil
	}

	if err := a.orders.MarkFailed(ctx, orderID, domain.FailureValidation); err != nil {
		return StepResult{}, err
	}
	var b strings.Builder
	b.WriteString("Validation failed: ")
	if !hasInventory {
		b.WriteString("Insufficient inventory. ")
	}
	if !hasValidAddress {
		b.WriteString("Invalid address. ")
	}
	if !isPriceValid {
		b.WriteString("Invalid price. ")
	}
	return failed(StepValidationFailed, strings.TrimSpace(b.String())), nil
}

// ProcessPayment succeeds only for totals strictly below the configured
// ceiling.
func (a *Activities) ProcessPayment(ctx context.Context, orderID uint) (StepResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("processing payment", "order_id", orderID)

	o, res, err := a.begin(ctx, orderID, domain.StatusProcessingPayment)
	if !res.OK() || err != nil {
		return res, err
	}

	if o.TotalAmount >= a.rules.MaxPaymentAmount {
		if err := a.orders.MarkFailed(ctx, orderID, domain.FailurePayment); err != nil {
			return StepResult{}, err
		}
		return failed(StepPaymentFailed, "Payment failed: Amount too large"), nil
	}
	return ok(), nil
}

// ShipOrder succeeds only when the address satisfies the configured
// shipping-eligibility predicate.
func (a *Activities) ShipOrder(ctx context.Context, orderID uint) (StepResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("shipping order", "order_id", orderID)

	o, res, err := a.begin(ctx, orderID, domain.StatusShipping)
	if !res.OK() || err != nil {
		return res, err
	}

	eligible := true
	if a.rules.ShippingMarker != "" && !strings.Contains(o.ShippingAddress, a.rules.ShippingMarker) {
		eligible = false
	}
	if a.rules.MinShippingAddressLen > 0 && len(o.ShippingAddress) < a.rules.MinShippingAddressLen {
		eligible = false
	}
	if !eligible {
		if err := a.orders.MarkFailed(ctx, orderID, domain.FailureShipping); err != nil {
			return StepResult{}, err
		}
		return failed(StepShippingFailed, "Shipping failed: Invalid address"), nil
	}
	return ok(), nil
}

// SendConfirmation always succeeds logically and advances the order
// straight to completed.
func (a *Activities) SendConfirmation(ctx context.Context, orderID uint) (StepResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("sending confirmation", "order_id", orderID)

	_, res, err := a.begin(ctx, orderID, domain.StatusSendingConfirmation)
	if !res.OK() || err != nil {
		return res, err
	}

	if err := a.orders.UpdateStatus(ctx, orderID, domain.StatusCompleted); err != nil {
		return StepResult{}, err
	}
	return ok(), nil
}

// GetOrder returns the final order snapshot for the workflow result.
func (a *Activities) GetOrder(ctx context.Context, orderID uint) (Result, error) {
	o, err := a.orders.Get(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return Result{}, err
	}
	if err != nil {
		return Result{}, err
	}
	return Result{
		OrderID:       o.ID,
		Status:        o.Status,
		FailureReason: o.FailureReason,
	}, nil
}

// begin re-reads the order and writes the step's status. A missing order
// is a terminal structured failure; repository errors are returned as
// activity errors so the substrate retries them. A retried step that finds
// a terminal status already recorded reports that outcome instead of
// mutating the order again.
func (a *Activities) begin(ctx context.Context, orderID uint, status domain.Status) (*domain.Order, StepResult, error) {
	o, err := a.orders.Get(ctx, orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, failed(StepOrderNotFound, "Order not found"), nil
	}
	if err != nil {
		return nil, StepResult{}, err
	}
	switch o.Status {
	case domain.StatusFailed:
		return nil, failed(stepCodeForReason(o.FailureReason), "Order already failed"), nil
	case domain.StatusCompleted:
		return o, ok(), nil
	}
	if err := a.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, StepResult{}, err
	}
	return o, ok(), nil
}

func stepCodeForReason(reason domain.FailureReason) StepCode {
	switch reason {
	case domain.FailureValidation:
		return StepValidationFailed
	case domain.FailurePayment:
		return StepPaymentFailed
	case domain.FailureShipping:
		return StepShippingFailed
	default:
		return StepOrderNotFound
	}
}
