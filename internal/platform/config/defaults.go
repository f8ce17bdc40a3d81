package config

const (
	defaultServerPort = 8080

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultRateLimitRPS   = 20.0
	defaultRateLimitBurst = 10

	// defaultMaximumDonation mirrors the payment processor's per-transaction
	// ceiling; donations above it are rejected before reaching the processor.
	defaultMaximumDonation = 60000.0
	defaultScreenWorkers   = 4
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"tracker.base_url":                        "http://localhost:8081",
		"tracker.timeout":                         "30s",
		"tracker.retry.max_attempts":              defaultRetryMaxAttempts,
		"tracker.retry.initial_interval":          "100ms",
		"tracker.retry.max_interval":              "10s",
		"tracker.retry.multiplier":                defaultRetryMultiplier,
		"tracker.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"tracker.circuit_breaker.timeout":         "30s",
		"tracker.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"tracker.rate_limit.requests_per_second":  defaultRateLimitRPS,
		"tracker.rate_limit.burst_size":           defaultRateLimitBurst,

		"validation.maximum_donation": defaultMaximumDonation,
		"validation.screen_workers":   defaultScreenWorkers,

		"telemetry.enabled":  false,
		"telemetry.exporter": "stdout",
		"telemetry.endpoint": "",
	}
}
