package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/user-management-service/internal/core/ports"
	customMiddleware "github.com/avatarctic/user-management-service/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
	Environment    string
	ProjectName    string
	// APIPrefix is the mount point of the versioned API, e.g. /api/v1
	APIPrefix string
}

type ServerDeps struct {
	UserService          ports.UserService
	AuthService          ports.AuthService
	ProjectService       ports.ProjectService
	ActivityService      ports.ActivityService
	ReportService        ports.ReportService
	AccessControlService ports.AccessControlService
	// RateLimiterService is optional; nil disables auth rate limiting
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	userService    ports.UserService
	authSvc        ports.AuthService
	projectSvc     ports.ProjectService
	activitySvc    ports.ActivityService
	reportSvc      ports.ReportService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		userService:    deps.UserService,
		authSvc:        deps.AuthService,
		projectSvc:     deps.ProjectService,
		activitySvc:    deps.ActivityService,
		reportSvc:      deps.ReportService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.AccessControlService,
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
