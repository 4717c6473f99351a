// Package auth provides the authentication bounded context module.
package auth

import (
	"estate_crm_backend/internal/auth/handler"
	"estate_crm_backend/internal/auth/repository"
	"estate_crm_backend/internal/auth/service"
	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/platform/config"
	"estate_crm_backend/platform/httpkit"
	"estate_crm_backend/platform/logger"
	"estate_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth", ctx.AuthRateLimiter.RateLimit())
	authGroup.POST("/login", m.handler.Login)

	usersGroup := ctx.Protected.Group("/users")
	usersGroup.GET("/me", m.handler.Me)
	usersGroup.GET("", httpkit.RequireRole("manager"), m.handler.ListUsers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
