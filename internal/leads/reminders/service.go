// Package reminders manages the reminder list attached to a lead. Reminders
// are append-only; completion is the only mutation.
package reminders

import (
	"context"
	"errors"
	"time"

	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/transport"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository is the data access interface needed by the reminders service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	CreateReminder(ctx context.Context, params repository.CreateReminderParams) (repository.Reminder, error)
	GetReminder(ctx context.Context, id uuid.UUID) (repository.Reminder, error)
	ListReminders(ctx context.Context, leadID uuid.UUID) ([]repository.Reminder, error)
	CompleteReminder(ctx context.Context, id uuid.UUID) (repository.Reminder, error)
}

// Scheduler schedules delivery of a reminder at its due instant.
type Scheduler interface {
	ScheduleReminderDue(ctx context.Context, reminderID, leadID uuid.UUID, runAt time.Time) error
}

// Service handles manual reminders and completion.
type Service struct {
	repo      Repository
	bus       events.Bus
	scheduler Scheduler
	log       *logger.Logger
	nowFn     func() time.Time
}

func New(repo Repository, bus events.Bus, scheduler Scheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, scheduler: scheduler, log: log, nowFn: time.Now}
}

// List returns all reminders for a lead.
func (s *Service) List(ctx context.Context, leadID uuid.UUID) (transport.RemindersResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.RemindersResponse{}, apperr.NotFound("lead not found")
		}
		return transport.RemindersResponse{}, err
	}

	rows, err := s.repo.ListReminders(ctx, leadID)
	if err != nil {
		return transport.RemindersResponse{}, err
	}

	items := make([]transport.ReminderResponse, len(rows))
	for i, row := range rows {
		items[i] = toReminderResponse(row)
	}
	return transport.RemindersResponse{Items: items}, nil
}

// Create appends a manual reminder created by an agent. The due instant is
// derived from the display date and time when they parse; reminders without
// a parseable instant are stored but never dispatched.
func (s *Service) Create(ctx context.Context, leadID uuid.UUID, req transport.CreateReminderRequest) (transport.ReminderResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ReminderResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ReminderResponse{}, err
	}

	now := s.nowFn()
	stored, err := s.repo.CreateReminder(ctx, repository.CreateReminderParams{
		ID:          uuid.New(),
		LeadID:      lead.ID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		DueAt:       domain.ParseDisplayInstant(req.DueDate, req.DueTime),
		Priority:    req.Priority,
		CreatedAt:   now,
	})
	if err != nil {
		return transport.ReminderResponse{}, err
	}

	s.bus.Publish(ctx, events.ReminderCreated{
		BaseEvent:  events.NewBaseEvent(),
		ReminderID: stored.ID,
		LeadID:     lead.ID,
		AgentID:    lead.AssignedAgentID,
		Title:      stored.Title,
		DueAt:      stored.DueAt,
	})

	if s.scheduler != nil && stored.DueAt != nil && stored.DueAt.After(now) {
		// Delivery is best effort; the reminder is already persisted.
		if err := s.scheduler.ScheduleReminderDue(ctx, stored.ID, lead.ID, *stored.DueAt); err != nil {
			s.log.Error("reminder dispatch scheduling failed",
				"reminderId", stored.ID, "leadId", lead.ID, "error", err)
		}
	}

	return toReminderResponse(stored), nil
}

// Complete marks a reminder done. Completing an already completed reminder is
// a no-op, not an error.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (transport.ReminderResponse, error) {
	reminder, err := s.repo.CompleteReminder(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ReminderResponse{}, apperr.NotFound("reminder not found")
		}
		return transport.ReminderResponse{}, err
	}
	return toReminderResponse(reminder), nil
}

func toReminderResponse(row repository.Reminder) transport.ReminderResponse {
	return transport.ReminderResponse{
		ID:          row.ID,
		LeadID:      row.LeadID,
		Type:        row.Type,
		Title:       row.Title,
		Description: row.Description,
		DueDate:     row.DueDate,
		DueTime:     row.DueTime,
		DueAt:       row.DueAt,
		Priority:    row.Priority,
		IsCompleted: row.IsCompleted,
		CreatedAt:   row.CreatedAt,
	}
}
