// Package server exposes the careerhub HTTP API: auth, role dashboards,
// opportunity listings, applications, the resume builder and the AI flows.
package server

import (
	"time"

	"careerhub/internal/auth"
	"careerhub/internal/config"
	careerhubErrors "careerhub/internal/errors"
	"careerhub/internal/store"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration and dependencies for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Persistence and identity
	Store store.Store
	Auth  *auth.Service

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *careerhubErrors.Logger

	certReloader *certReloader
}

// Deps bundles the server's external dependencies.
type Deps struct {
	Store store.Store
	Auth  *auth.Service
}

// NewServer creates a new Server instance wired to the given dependencies.
// Timeouts, TLS and rate limiting come from the server section of the
// application config.
func NewServer(appCfg *config.Config, deps Deps, version string, logger *careerhubErrors.Logger) *Server {
	srvCfg := appCfg.Server

	var rateLimiter *RateLimiter
	if srvCfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			srvCfg.RateLimit.RequestsPerMin,
			srvCfg.RateLimit.Window,
			srvCfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           srvCfg.Host,
		Port:           srvCfg.Port,
		Version:        version,
		AppConfig:      appCfg,
		TLSConfig:      srvCfg.TLS,
		Store:          deps.Store,
		Auth:           deps.Auth,
		ReadTimeout:    srvCfg.ReadTimeout,
		WriteTimeout:   srvCfg.WriteTimeout,
		IdleTimeout:    srvCfg.IdleTimeout,
		MaxRequestSize: srvCfg.MaxRequestBody,
		RateLimit:      &srvCfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
