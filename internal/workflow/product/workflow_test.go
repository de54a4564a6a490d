package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	domain "github.com/shopworks/fulfillment/internal/domain/product"
	"github.com/shopworks/fulfillment/internal/infrastructure/memory"
)

func newEnv(repo domain.Repository) *testsuite.TestWorkflowEnvironment {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterActivity(NewActivities(repo))
	return env
}

func seedProduct(t *testing.T, repo domain.Repository, name string, stock int) *domain.Product {
	t.Helper()
	p, err := domain.New(name, "test product", 9.99, stock, domain.CategoryElectronics)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestCreateWorkflow(t *testing.T) {
	repo := memory.NewProductRepository()
	env := newEnv(repo)

	env.ExecuteWorkflow(Create, CreateInput{
		Name:          "laptop",
		Description:   "a laptop",
		Price:         999.99,
		StockQuantity: 50,
		Category:      domain.CategoryElectronics,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res CreateResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.True(t, res.OK)
	assert.NotZero(t, res.ProductID)

	stored, err := repo.Get(context.Background(), res.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "laptop", stored.Name)
	assert.Equal(t, 50, stored.StockQuantity)
}

func TestCreateWorkflowRejectsInvalidInput(t *testing.T) {
	repo := memory.NewProductRepository()
	env := newEnv(repo)

	env.ExecuteWorkflow(Create, CreateInput{
		Name:          "freebie",
		Price:         0,
		StockQuantity: 1,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res CreateResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.False(t, res.OK)
	assert.Contains(t, res.Reason, "Failed to create product")
}

func TestStockUpdateWorkflow(t *testing.T) {
	repo := memory.NewProductRepository()
	p := seedProduct(t, repo, "widget", 5)
	env := newEnv(repo)

	env.ExecuteWorkflow(StockUpdate, StockUpdateInput{ProductID: p.ID, Delta: 3})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res StockUpdateResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, StockOK, res.Code)
	assert.Equal(t, 8, res.CurrentStock)
}

func TestStockUpdateWorkflowInsufficientStock(t *testing.T) {
	repo := memory.NewProductRepository()
	p := seedProduct(t, repo, "widget", 5)
	env := newEnv(repo)

	env.ExecuteWorkflow(StockUpdate, StockUpdateInput{ProductID: p.ID, Delta: -10})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res StockUpdateResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, StockInsufficient, res.Code)
	assert.Equal(t, 5, res.CurrentStock)
	assert.Equal(t, "Insufficient stock", res.Reason)

	stored, err := repo.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StockQuantity, "rejected adjustment must not mutate stock")
}

func TestStockUpdateWorkflowUnknownProduct(t *testing.T) {
	repo := memory.NewProductRepository()
	env := newEnv(repo)

	env.ExecuteWorkflow(StockUpdate, StockUpdateInput{ProductID: 42, Delta: 1})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var res StockUpdateResult
	require.NoError(t, env.GetWorkflowResult(&res))
	assert.Equal(t, StockNotFound, res.Code)
}

func TestInventoryCheckWorkflow(t *testing.T) {
	repo := memory.NewProductRepository()
	a := seedProduct(t, repo, "A", 5)
	seedProduct(t, repo, "B", 20)
	c := seedProduct(t, repo, "C", 3)
	env := newEnv(repo)

	env.ExecuteWorkflow(InventoryCheck, 10)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var report domain.LowStockReport
	require.NoError(t, env.GetWorkflowResult(&report))
	assert.Equal(t, 2, report.LowStockCount)
	require.Len(t, report.Products, 2)
	assert.Equal(t, a.ID, report.Products[0].ID)
	assert.Equal(t, c.ID, report.Products[1].ID)
}

func TestInventoryCheckWorkflowEmpty(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProduct(t, repo, "plenty", 100)
	env := newEnv(repo)

	env.ExecuteWorkflow(InventoryCheck, 10)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var report domain.LowStockReport
	require.NoError(t, env.GetWorkflowResult(&report))
	assert.Equal(t, 0, report.LowStockCount)
	assert.Empty(t, report.Products)
}
