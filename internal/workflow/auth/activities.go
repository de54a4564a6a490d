package auth

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"

	domain "github.com/shopworks/fulfillment/internal/domain/user"
	"github.com/shopworks/fulfillment/internal/pkg/security"
)

// Input carries the credentials through the auth workflows.
type Input struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenCode enumerates auth outcomes.
type TokenCode string

const (
	TokenOK            TokenCode = "ok"
	TokenUserExists    TokenCode = "user_exists"
	TokenBadCredential TokenCode = "invalid_credentials"
)

// TokenResult is the structured outcome of an auth workflow.
type TokenResult struct {
	Code        TokenCode `json:"code"`
	AccessToken string    `json:"access_token,omitempty"`
	TokenType   string    `json:"token_type,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

func (r TokenResult) OK() bool { return r.Code == TokenOK }

// Activities implements the auth steps over the user repository.
type Activities struct {
	users  domain.Repository
	tokens *security.TokenIssuer
}

func NewActivities(users domain.Repository, tokens *security.TokenIssuer) *Activities {
	return &Activities{users: users, tokens: tokens}
}

// RegisterUser hashes the password and inserts the account. A taken
// username is a structured failure, not an error.
func (a *Activities) RegisterUser(ctx context.Context, in Input) (TokenResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("registering user", "username", in.Username)

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return TokenResult{}, err
	}
	u := &domain.User{
		Email:          in.Email,
		Username:       in.Username,
		HashedPassword: hash,
		IsActive:       true,
	}
	err = a.users.Create(ctx, u)
	if errors.Is(err, domain.ErrConflict) {
		return TokenResult{Code: TokenUserExists, Reason: "Username already taken"}, nil
	}
	if err != nil {
		return TokenResult{}, err
	}
	return TokenResult{Code: TokenOK}, nil
}

// AuthenticateUser verifies the password against the stored hash. Unknown
// users and wrong passwords produce the same structured failure.
func (a *Activities) AuthenticateUser(ctx context.Context, in Input) (TokenResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("authenticating user", "username", in.Username)

	u, err := a.users.FindByUsername(ctx, in.Username)
	if errors.Is(err, domain.ErrNotFound) {
		return TokenResult{Code: TokenBadCredential, Reason: "Incorrect username or password"}, nil
	}
	if err != nil {
		return TokenResult{}, err
	}
	if !u.IsActive || !security.VerifyPassword(in.Password, u.HashedPassword) {
		return TokenResult{Code: TokenBadCredential, Reason: "Incorrect username or password"}, nil
	}
	return TokenResult{Code: TokenOK}, nil
}

// IssueToken signs the bearer token. It reads the wall clock, which is why
// it runs as an activity rather than in workflow code.
func (a *Activities) IssueToken(ctx context.Context, username string) (TokenResult, error) {
	token, err := a.tokens.Issue(username, time.Now().UTC())
	if err != nil {
		return TokenResult{}, err
	}
	return TokenResult{Code: TokenOK, AccessToken: token, TokenType: "bearer"}, nil
}
