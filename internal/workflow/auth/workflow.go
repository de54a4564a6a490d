// Package auth implements the registration and login processes as durable
// workflows issuing bearer tokens.
package auth

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
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

// Register creates the account, re-authenticates it and issues a token.
func Register(ctx workflow.Context, in Input) (*TokenResult, error) {
	ctx = withOptions(ctx)
	var a *Activities

	var res TokenResult
	if err := workflow.ExecuteActivity(ctx, a.RegisterUser, in).Get(ctx, &res); err != nil {
		return nil, err
	}
	if !res.OK() {
		return &res, nil
	}
	return authenticateAndIssue(ctx, a, in)
}

// Login verifies the credentials and issues a token.
func Login(ctx workflow.Context, in Input) (*TokenResult, error) {
	ctx = withOptions(ctx)
	var a *Activities
	return authenticateAndIssue(ctx, a, in)
}

func authenticateAndIssue(ctx workflow.Context, a *Activities, in Input) (*TokenResult, error) {
	var res TokenResult
	if err := workflow.ExecuteActivity(ctx, a.AuthenticateUser, in).Get(ctx, &res); err != nil {
		return nil, err
	}
	if !res.OK() {
		return &res, nil
	}
	var token TokenResult
	if err := workflow.ExecuteActivity(ctx, a.IssueToken, in.Username).Get(ctx, &token); err != nil {
		return nil, err
	}
	return &token, nil
}
