// Package leads provides the lead lifecycle bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"estate_crm_backend/internal/events"
	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/internal/leads/handler"
	"estate_crm_backend/internal/leads/management"
	"estate_crm_backend/internal/leads/metrics"
	"estate_crm_backend/internal/leads/notes"
	"estate_crm_backend/internal/leads/reminders"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/platform/httpkit"
	"estate_crm_backend/platform/logger"
	"estate_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	reminders  *reminders.Service
}

// NewModule creates and initializes the leads module with all its
// dependencies. scheduler may be nil when no reminder backend is configured.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, scheduler management.ReminderScheduler, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)

	mgmtSvc := management.New(repo, eventBus, scheduler)
	notesSvc := notes.New(repo)
	remindersSvc := reminders.New(repo, eventBus, scheduler, log)
	metricsSvc := metrics.New(repo)

	h := handler.New(mgmtSvc, notesSvc, remindersSvc, metricsSvc, val)

	return &Module{
		handler:    h,
		management: mgmtSvc,
		reminders:  remindersSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// RemindersService returns the reminders service for external use.
func (m *Module) RemindersService() *reminders.Service {
	return m.reminders
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)

	// Completion addresses the reminder directly, outside the lead scope.
	ctx.Protected.POST("/reminders/:id/complete", m.handler.CompleteReminder)

	// Performance rollups are manager-only.
	metricsGroup := ctx.Protected.Group("/metrics", httpkit.RequireRole("manager"))
	m.handler.RegisterMetricsRoutes(metricsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
