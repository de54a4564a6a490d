package order

import "errors"

var (
	ErrNotFound          = errors.New("order: not found")
	ErrInvalidQuantity   = errors.New("order: quantity must be greater than zero")
	ErrInvalidPrice      = errors.New("order: price must be greater than zero")
	ErrInvalidTransition = errors.New("order: invalid status transition")
)

// FailureReason is recorded on an order when it reaches StatusFailed.
type FailureReason string

const (
	FailureNone       FailureReason = "none"
	FailureValidation FailureReason = "validation_failed"
	FailurePayment    FailureReason = "payment_failed"
	FailureShipping   FailureReason = "shipping_failed"
	// FailureSubmission marks orders whose fulfillment workflow could not
	// be started; without it they would linger in StatusReceived forever.
	FailureSubmission FailureReason = "submission_failed"
)

// Order is created in StatusReceived by the submission handler and owned
// exclusively by its fulfillment workflow until it reaches a terminal
// status.
type Order struct {
	ID              uint
	UserID          uint
	ProductName     string
	Quantity        int
	Price           float64
	TotalAmount     float64
	ShippingAddress string
	Status          Status
	FailureReason   FailureReason
}

// New validates the basic shape of an order and returns it in
// StatusReceived. TotalAmount is derived from price and quantity.
func New(userID uint, productName string, quantity int, price float64, shippingAddress string) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	return &Order{
		UserID:          userID,
		ProductName:     productName,
		Quantity:        quantity,
		Price:           price,
		TotalAmount:     price * float64(quantity),
		ShippingAddress: shippingAddress,
		Status:          StatusReceived,
		FailureReason:   FailureNone,
	}, nil
}

// Advance moves the order to the next status along the fulfillment path.
// Moving to the current status is a no-op so retried activities stay
// idempotent.
func (o *Order) Advance(next Status) error {
	if next == o.Status {
		return nil
	}
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	o.Status = next
	return nil
}

// Fail marks the order terminally failed with the given reason. Failing an
// already failed order with the same reason is a no-op.
func (o *Order) Fail(reason FailureReason) error {
	if o.Status == StatusFailed && o.FailureReason == reason {
		return nil
	}
	if !o.Status.CanTransitionTo(StatusFailed) {
		return ErrInvalidTransition
	}
	o.Status = StatusFailed
	o.FailureReason = reason
	return nil
}

// Clone returns a copy detached from repository-internal storage.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}
