package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	domain "github.com/shopworks/fulfillment/internal/domain/user"
	"github.com/shopworks/fulfillment/internal/infrastructure/memory"
	"github.com/shopworks/fulfillment/internal/pkg/security"
)

func newEnv(users domain.Repository) *testsuite.TestWorkflowEnvironment {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	issuer := security.NewTokenIssuer("test-secret", 30*time.Minute)
	env.RegisterActivity(NewActivities(users, issuer))
	return env
}

func registeredUser(t *testing.T, users domain.Repository, username, password string) {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &domain.User{
		Email:          username + "@example.com",
		Username:       username,
		HashedPassword: hash,
		IsActive:       true,
	}))
}

func TestRegisterIssuesBearerToken(t *testing.T) {
	users := memory.NewUserRepository()
	env := newEnv(users)

	env.ExecuteWorkflow(Register, Input{
		Email:    "user1@example.com",
		Username: "user1",
		Password: "password123",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res TokenResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, TokenOK, res.Code)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)

	u, err := users.FindByUsername(context.Background(), "user1")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", u.HashedPassword)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := memory.NewUserRepository()
	registeredUser(t, users, "user1", "password123")
	env := newEnv(users)

	env.ExecuteWorkflow(Register, Input{
		Email:    "other@example.com",
		Username: "user1",
		Password: "different",
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res TokenResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, TokenUserExists, res.Code)
	assert.Empty(t, res.AccessToken)
	assert.Equal(t, "Username already taken", res.Reason)
}

func TestLoginIssuesBearerToken(t *testing.T) {
	users := memory.NewUserRepository()
	registeredUser(t, users, "user1", "password123")
	env := newEnv(users)

	env.ExecuteWorkflow(Login, Input{Username: "user1", Password: "password123"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res TokenResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, TokenOK, res.Code)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
}

func TestLoginWrongPassword(t *testing.T) {
	users := memory.NewUserRepository()
	registeredUser(t, users, "user1", "password123")
	env := newEnv(users)

	env.ExecuteWorkflow(Login, Input{Username: "user1", Password: "wrong"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res TokenResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, TokenBadCredential, res.Code)
	assert.Empty(t, res.AccessToken)
}

func TestLoginUnknownUserMatchesWrongPassword(t *testing.T) {
	users := memory.NewUserRepository()
	registeredUser(t, users, "user1", "password123")

	env := newEnv(users)
	env.ExecuteWorkflow(Login, Input{Username: "nobody", Password: "password123"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var unknown TokenResult
	require.NoError(t, env.GetWorkflowResult(&unknown))

	env = newEnv(users)
	env.ExecuteWorkflow(Login, Input{Username: "user1", Password: "wrong"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var wrong TokenResult
	require.NoError(t, env.GetWorkflowResult(&wrong))

	// Credential probing must not distinguish the two cases.
	assert.Equal(t, unknown, wrong)
}

func TestLoginInactiveUserRejected(t *testing.T) {
	users := memory.NewUserRepository()
	hash, err := security.HashPassword("password123")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &domain.User{
		Email:          "user1@example.com",
		Username:       "user1",
		HashedPassword: hash,
		IsActive:       false,
	}))
	env := newEnv(users)

	env.ExecuteWorkflow(Login, Input{Username: "user1", Password: "password123"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res TokenResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, TokenBadCredential, res.Code)
}
