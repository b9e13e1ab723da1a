package ports

import "context"

// HealthChecker abstracts a dependency health probe.
// Implementations should return error if unhealthy.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
	// Critical reports whether a failure makes the whole service unhealthy
	// rather than degraded.
	Critical() bool
}
