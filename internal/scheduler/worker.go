package scheduler

import (
	"context"
	"errors"
	"time"

	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/platform/config"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeadReader is the repository surface the worker needs.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	GetReminder(ctx context.Context, id uuid.UUID) (repository.Reminder, error)
	ListActive(ctx context.Context) ([]repository.Lead, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   LeadReader
	bus    events.Bus
	log    *logger.Logger
	nowFn  func() time.Time
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			defaultQueue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
		nowFn:  time.Now,
	}

	mux.HandleFunc(TaskReminderDue, w.handleReminderDue)
	mux.HandleFunc(TaskInactivitySweep, w.handleInactivitySweep)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleReminderDue announces a reminder whose due instant has arrived.
// Reminders completed in the meantime are dropped silently.
func (w *Worker) handleReminderDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReminderDuePayload(task)
	if err != nil {
		return err
	}

	reminderID, err := uuid.Parse(payload.ReminderID)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	reminder, err := w.repo.GetReminder(ctx, reminderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if reminder.IsCompleted {
		return nil
	}

	lead, err := w.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	return w.bus.PublishSync(ctx, events.ReminderDue{
		BaseEvent:  events.NewBaseEvent(),
		ReminderID: reminder.ID,
		LeadID:     lead.ID,
		AgentID:    lead.AssignedAgentID,
		Title:      reminder.Title,
		Priority:   reminder.Priority,
	})
}

// handleInactivitySweep walks the active lead set and raises manager alerts
// for inactive leads. Every sweep re-raises alerts for leads still inactive;
// suppression is a consumer concern.
func (w *Worker) handleInactivitySweep(ctx context.Context, _ *asynq.Task) error {
	leads, err := w.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	now := w.nowFn()
	raised := 0
	for _, lead := range leads {
		if lead.AssignedAgentID == nil {
			continue
		}

		issues := domain.DetectIssues(domain.IssueSnapshot{
			LastActivity: lead.LastActivityAt,
			Stage:        lead.Stage,
			NextFollowUp: lead.NextFollowUp,
			Score:        lead.Score,
		}, now)

		for _, issue := range issues {
			if issue.Type != domain.IssueStale {
				continue
			}

			alert := domain.BuildManagerAlert(lead.ID, *lead.AssignedAgentID, issue)
			if err := w.bus.PublishSync(ctx, events.ManagerAlertRaised{
				BaseEvent:   events.NewBaseEvent(),
				LeadID:      alert.LeadID,
				AgentID:     alert.AgentID,
				AlertType:   alert.AlertType,
				Severity:    alert.Severity,
				Title:       alert.Title,
				Description: alert.Description,
			}); err != nil {
				w.log.Error("manager alert publish failed", "error", err, "leadId", lead.ID)
				continue
			}
			raised++
		}
	}

	w.log.Info("inactivity sweep complete", "leads", len(leads), "alerts", raised)
	return nil
}
