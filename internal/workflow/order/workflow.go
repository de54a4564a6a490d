// Package order implements the order-fulfillment saga: validate, pay,
// ship, confirm, executed as durable activities against one order. The
// saga halts at the first failed step and performs no compensation of the
// steps already done; an order that fails at shipping keeps its payment.
package order

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const activityTimeout = 10 * time.Second

// Fulfillment drives one order through the saga. All decisions are pure
// functions of activity results; the workflow itself touches no I/O, so it
// replays deterministically after a crash.
func Fulfillment(ctx workflow.Context, orderID uint) (*Result, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: activityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	})
	logger := workflow.GetLogger(ctx)
	var a *Activities

	steps := []struct {
		name string
		fn   interface{}
	}{
		{name: "validate", fn: a.ValidateOrder},
		{name: "process_payment", fn: a.ProcessPayment},
		{name: "ship", fn: a.ShipOrder},
	}
	for _, step := range steps {
		var res StepResult
		if err := workflow.ExecuteActivity(ctx, step.fn, orderID).Get(ctx, &res); err != nil {
			return nil, err
		}
		if !res.OK() {
			logger.Info("order step failed",
				"order_id", orderID, "step", step.name, "reason", res.Reason)
			return snapshot(ctx, a, orderID)
		}
	}

	// Confirmation cannot fail the order: if the activity itself errors
	// out, the last persisted status stands and the result reflects it.
	var res StepResult
	if err := workflow.ExecuteActivity(ctx, a.SendConfirmation, orderID).Get(ctx, &res); err != nil {
		logger.Warn("confirmation did not complete, keeping last persisted status",
			"order_id", orderID, "error", err)
	}

	return snapshot(ctx, a, orderID)
}

func snapshot(ctx workflow.Context, a *Activities, orderID uint) (*Result, error) {
	var out Result
	if err := workflow.ExecuteActivity(ctx, a.GetOrder, orderID).Get(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
