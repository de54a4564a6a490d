// Package temporal wires the durable-execution substrate: an explicitly
// constructed client handed to callers (no global singleton) and the
// worker hosting every workflow and activity on one task queue.
package temporal

import (
	"fmt"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/shopworks/fulfillment/internal/config"
	"github.com/shopworks/fulfillment/internal/pkg/logging"
)

// Dial connects to the Temporal frontend. The caller owns the returned
// client and must Close it on shutdown.
func Dial(cfg config.Config, logger *zap.Logger) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHostPort,
		Logger:   logging.NewTemporalAdapter(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("temporal: dial %s: %w", cfg.TemporalHostPort, err)
	}
	return c, nil
}
