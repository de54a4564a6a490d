// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, the Temporal
// connection, persistence and the business rules evaluated by workflow
// activities.
type Config struct {
	ServiceName string
	Env         string

	HTTPAddr        string
	ShutdownTimeout time.Duration

	TemporalHostPort string
	TaskQueue        string

	// DatabaseURL selects the persistence backend. Empty means the
	// in-memory repositories (tests and single-process demos only).
	DatabaseURL string

	JWTSecret string
	TokenTTL  time.Duration

	// Order validation ceiling: quantities above this fail validation.
	OrderMaxQuantity int
	// Payment succeeds only for totals strictly below this amount.
	PaymentMaxAmount float64
	// Shipping succeeds only when the address contains this marker.
	// Empty disables the check.
	ShippingRequiredMarker string
	// Shipping succeeds only when the address is at least this long.
	// Zero disables the check.
	ShippingMinAddressLen int

	SeedUsers bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load collects configuration from environment with defaults.
func Load() Config {
	// Setting SHIPPING_REQUIRED_MARKER to an empty string disables the
	// marker check, so absence and emptiness must be distinguishable.
	shippingMarker := "Vietnam"
	if v, ok := os.LookupEnv("SHIPPING_REQUIRED_MARKER"); ok {
		shippingMarker = v
	}

	return Config{
		ServiceName:      getenv("SERVICE_NAME", "fulfillment"),
		Env:              getenv("ENV", "dev"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:  time.Duration(atoienv("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		TemporalHostPort: getenv("TEMPORAL_HOST_PORT", "localhost:7233"),
		TaskQueue:        getenv("TASK_QUEUE", "workflow-queue"),
		DatabaseURL:      getenv("DATABASE_URL", ""),
		JWTSecret:        getenv("JWT_SECRET", "change-me"),
		TokenTTL:         time.Duration(atoienv("TOKEN_TTL_MIN", 30)) * time.Minute,

		OrderMaxQuantity:       atoienv("ORDER_MAX_QUANTITY", 100),
		PaymentMaxAmount:       floatenv("PAYMENT_MAX_AMOUNT", 1000),
		ShippingRequiredMarker: shippingMarker,
		ShippingMinAddressLen:  atoienv("SHIPPING_MIN_ADDRESS_LEN", 0),

		SeedUsers: boolenv("SEED_USERS", false),
	}
}
