package notification

import (
	"estate_crm_backend/internal/email"
	"estate_crm_backend/internal/events"
	apphttp "estate_crm_backend/internal/http"
	"estate_crm_backend/internal/notification/handler"
	"estate_crm_backend/internal/notification/inapp"
	"estate_crm_backend/platform/config"
	"estate_crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the notification bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	subscriber *Subscriber
}

// NewModule wires the notification module and subscribes its event handlers
// on the bus.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	repo := inapp.NewRepository(pool)
	svc := inapp.NewService(repo, log)

	sub := NewSubscriber(svc, NewDirectory(pool), sender, cfg.GetAppBaseURL(), log)
	sub.Register(eventBus)

	return &Module{
		handler:    handler.New(svc),
		subscriber: sub,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterRoutes mounts notification routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/notifications"))
}

var _ apphttp.Module = (*Module)(nil)
