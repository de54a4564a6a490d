package temporal

import (
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/shopworks/fulfillment/internal/config"
	"github.com/shopworks/fulfillment/internal/infrastructure"
	"github.com/shopworks/fulfillment/internal/pkg/security"
	authwf "github.com/shopworks/fulfillment/internal/workflow/auth"
	orderwf "github.com/shopworks/fulfillment/internal/workflow/order"
	productwf "github.com/shopworks/fulfillment/internal/workflow/product"
)

// NewWorker builds the worker that hosts every workflow and activity of
// the service on the configured task queue.
func NewWorker(c client.Client, cfg config.Config, repos *infrastructure.Repositories) worker.Worker {
	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	w.RegisterWorkflow(orderwf.Fulfillment)
	w.RegisterWorkflow(productwf.Create)
	w.RegisterWorkflow(productwf.StockUpdate)
	w.RegisterWorkflow(productwf.InventoryCheck)
	w.RegisterWorkflow(authwf.Register)
	w.RegisterWorkflow(authwf.Login)

	w.RegisterActivity(orderwf.NewActivities(repos.Orders, orderwf.Rules{
		MaxQuantity:           cfg.OrderMaxQuantity,
		MaxPaymentAmount:      cfg.PaymentMaxAmount,
		ShippingMarker:        cfg.ShippingRequiredMarker,
		MinShippingAddressLen: cfg.ShippingMinAddressLen,
	}))
	w.RegisterActivity(productwf.NewActivities(repos.Products))
	w.RegisterActivity(authwf.NewActivities(repos.Users,
		security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)))

	return w
}
