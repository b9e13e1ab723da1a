package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/ports"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	JWT           *JWTMiddleware
	Logging       *LoggingMiddleware
	AccessControl *AccessControlMiddleware
	RateLimit     *RateLimitMiddleware
	Metrics       *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware.
// rateLimiterService may be nil, which disables rate limiting.
func NewMiddlewareCollection(
	authService ports.AuthService,
	accessControlService ports.AccessControlService,
	rateLimiterService ports.RateLimiterService,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		JWT:           NewJWTMiddleware(authService, logger),
		Logging:       NewLoggingMiddleware(logger),
		AccessControl: NewAccessControlMiddleware(accessControlService),
		RateLimit:     NewRateLimitMiddleware(rateLimiterService, logger),
		Metrics:       NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
