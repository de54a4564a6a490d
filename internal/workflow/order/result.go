package order

import domain "github.com/shopworks/fulfillment/internal/domain/order"

// StepCode enumerates the outcomes a saga step can produce. Business
// failures are values here, never activity errors, so the substrate never
// retries them.
type StepCode string

const (
	StepOK               StepCode = "ok"
	StepOrderNotFound    StepCode = "order_not_found"
	StepValidationFailed StepCode = "validation_failed"
	StepPaymentFailed    StepCode = "payment_failed"
	StepShippingFailed   StepCode = "shipping_failed"
)

// StepResult is the structured outcome of one saga step.
type StepResult struct {
	Code   StepCode `json:"code"`
	Reason string   `json:"reason,omitempty"`
}

func (r StepResult) OK() bool { return r.Code == StepOK }

func ok() StepResult { return StepResult{Code: StepOK} }

func failed(code StepCode, reason string) StepResult {
	return StepResult{Code: code, Reason: reason}
}

// Result is the final snapshot of the order after the saga returns.
type Result struct {
	OrderID       uint                 `json:"order_id"`
	Status        domain.Status        `json:"status"`
	FailureReason domain.FailureReason `json:"failure_reason"`
}
