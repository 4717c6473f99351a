// Package management handles lead CRUD and stage transitions.
// Stage changes are the only path that runs the stage automation, so every
// transition gets its follow-up and reminder consistently.
package management

import (
	"context"
	"errors"
	"strings"
	"time"

	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/scoring"
	"estate_crm_backend/internal/leads/transport"
	"estate_crm_backend/platform/apperr"
	"estate_crm_backend/platform/phone"

	"github.com/google/uuid"
)

const defaultPageSize = 20

// Repository defines the data access interface needed by the management
// service. This is a consumer-driven interface - only what management needs.
type Repository interface {
	CreateLead(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	ListLeads(ctx context.Context, params repository.ListLeadsParams) ([]repository.Lead, int, error)
	UpdateLead(ctx context.Context, params repository.UpdateLeadParams) (repository.Lead, error)
	UpdateStage(ctx context.Context, params repository.UpdateStageParams) (repository.Lead, error)
	CreateReminder(ctx context.Context, params repository.CreateReminderParams) (repository.Reminder, error)
}

// ReminderScheduler schedules delivery of a reminder at its due instant.
// Nil-safe implementations allow running without a scheduler backend.
type ReminderScheduler interface {
	ScheduleReminderDue(ctx context.Context, reminderID, leadID uuid.UUID, runAt time.Time) error
}

// Service handles lead management operations.
type Service struct {
	repo      Repository
	bus       events.Bus
	scheduler ReminderScheduler
	nowFn     func() time.Time
}

// New creates a new management service. scheduler may be nil when no reminder
// backend is configured.
func New(repo Repository, bus events.Bus, scheduler ReminderScheduler) *Service {
	return &Service{
		repo:      repo,
		bus:       bus,
		scheduler: scheduler,
		nowFn:     time.Now,
	}
}

// Create registers a new lead at the top of the funnel and runs the New Lead
// stage automation, so a first-contact reminder exists from the start.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	now := s.nowFn()

	lead, err := s.repo.CreateLead(ctx, repository.CreateLeadParams{
		BuyerName:    strings.TrimSpace(req.BuyerName),
		Phone:        phone.NormalizeE164(req.Phone),
		Email:        strings.TrimSpace(req.Email),
		Status:       string(req.Status),
		Stage:        domain.StageNewLead,
		ProjectName:  strings.TrimSpace(req.ProjectName),
		Budget:       strings.TrimSpace(req.Budget),
		Requirements: strings.TrimSpace(req.Requirements),
		Score: scoring.Calculate(scoring.Input{
			Status:            string(req.Status),
			Stage:             domain.StageNewLead,
			LastActivity:      now,
			ResponseRate:      req.ResponseRate,
			BudgetMatch:       req.BudgetMatch,
			RequirementsMatch: req.RequirementsMatch,
		}, now),
		ResponseRate:      req.ResponseRate,
		BudgetMatch:       req.BudgetMatch,
		RequirementsMatch: req.RequirementsMatch,
		AssignedAgentID:   req.AssignedAgentID,
		LastActivityAt:    now,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		BuyerName:       lead.BuyerName,
		Stage:           lead.Stage,
		Status:          lead.Status,
		AssignedAgentID: lead.AssignedAgentID,
	})

	// Entering the funnel is a transition into New Lead: apply its automation.
	lead, _, err = s.applyAutomation(ctx, lead, domain.StageNewLead, now)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return toLeadResponse(lead), nil
}

// Get returns a single lead.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// List returns leads matching the filters, paginated.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var status *string
	if req.Status != nil {
		value := string(*req.Status)
		status = &value
	}

	leads, total, err := s.repo.ListLeads(ctx, repository.ListLeadsParams{
		AgentID: req.AgentID,
		Status:  status,
		Stage:   req.Stage,
		Search:  req.Search,
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = toLeadResponse(lead)
	}

	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Update applies a partial update and recomputes the score from the updated
// factors.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	var normalizedPhone *string
	if req.Phone != nil {
		value := phone.NormalizeE164(*req.Phone)
		normalizedPhone = &value
	}

	now := s.nowFn()
	input := scoring.Input{
		Status:            current.Status,
		Stage:             current.Stage,
		LastActivity:      current.LastActivityAt,
		ResponseRate:      current.ResponseRate,
		BudgetMatch:       current.BudgetMatch,
		RequirementsMatch: current.RequirementsMatch,
	}
	if req.Status != nil {
		input.Status = string(*req.Status)
	}
	if req.ResponseRate != nil {
		input.ResponseRate = *req.ResponseRate
	}
	if req.BudgetMatch != nil {
		input.BudgetMatch = *req.BudgetMatch
	}
	if req.RequirementsMatch != nil {
		input.RequirementsMatch = *req.RequirementsMatch
	}
	score := scoring.Calculate(input, now)

	var status *string
	if req.Status != nil {
		value := string(*req.Status)
		status = &value
	}

	lead, err := s.repo.UpdateLead(ctx, repository.UpdateLeadParams{
		ID:                id,
		BuyerName:         req.BuyerName,
		Phone:             normalizedPhone,
		Email:             req.Email,
		Status:            status,
		ProjectName:       req.ProjectName,
		Budget:            req.Budget,
		Requirements:      req.Requirements,
		ResponseRate:      req.ResponseRate,
		BudgetMatch:       req.BudgetMatch,
		RequirementsMatch: req.RequirementsMatch,
		AssignedAgentID:   req.AssignedAgentID,
		Score:             &score,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	return toLeadResponse(lead), nil
}

// ChangeStage moves a lead to a new stage through the stage automation. This
// is the sole stage-change entry point; it persists the follow-up, appends
// the automated reminder and schedules its delivery.
func (s *Service) ChangeStage(ctx context.Context, id uuid.UUID, newStage string) (transport.LeadResponse, error) {
	if !domain.IsKnownStage(newStage) {
		return transport.LeadResponse{}, apperr.Validation("unknown stage")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}

	if domain.IsTerminalStage(current.Stage) {
		return transport.LeadResponse{}, apperr.Conflict("lead is in a terminal stage")
	}

	now := s.nowFn()
	previousStage := current.Stage

	lead, reminderID, err := s.applyAutomation(ctx, current, newStage, now)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadStageChanged{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		AssignedAgentID: lead.AssignedAgentID,
		PreviousStage:   previousStage,
		NewStage:        lead.Stage,
		NextFollowUp:    lead.NextFollowUp,
		ReminderID:      reminderID,
	})

	return toLeadResponse(lead), nil
}

// applyAutomation runs the engine's transition automation for newStage,
// persists the stage, score and follow-up, and stores the appended reminder
// when the automation produced one.
func (s *Service) applyAutomation(ctx context.Context, current repository.Lead, newStage string, now time.Time) (repository.Lead, *uuid.UUID, error) {
	engineLead := domain.Lead{
		ID:                current.ID,
		Stage:             current.Stage,
		NextFollowUp:      current.NextFollowUp,
		NextFollowUpLabel: current.NextFollowUpLabel,
	}
	updated := domain.ApplyStageAutomation(engineLead, newStage, now)

	score := scoring.Calculate(scoring.Input{
		Status:            current.Status,
		Stage:             updated.Stage,
		LastActivity:      now,
		ResponseRate:      current.ResponseRate,
		BudgetMatch:       current.BudgetMatch,
		RequirementsMatch: current.RequirementsMatch,
	}, now)

	lead, err := s.repo.UpdateStage(ctx, repository.UpdateStageParams{
		ID:                current.ID,
		Stage:             updated.Stage,
		Score:             score,
		NextFollowUp:      updated.NextFollowUp,
		NextFollowUpLabel: updated.NextFollowUpLabel,
		LastActivityAt:    now,
	})
	if err != nil {
		return repository.Lead{}, nil, apperr.Internal("persist stage change", err)
	}

	if len(updated.Reminders) == 0 {
		return lead, nil, nil
	}

	automated := updated.Reminders[len(updated.Reminders)-1]
	stored, err := s.repo.CreateReminder(ctx, repository.CreateReminderParams{
		ID:          automated.ID,
		LeadID:      lead.ID,
		Type:        automated.Type,
		Title:       automated.Title,
		Description: automated.Description,
		DueDate:     automated.DueDate,
		DueTime:     automated.DueTime,
		DueAt:       lead.NextFollowUp,
		Priority:    automated.Priority,
		CreatedAt:   automated.CreatedAt,
	})
	if err != nil {
		return repository.Lead{}, nil, apperr.Internal("persist automated reminder", err)
	}

	s.bus.Publish(ctx, events.ReminderCreated{
		BaseEvent:  events.NewBaseEvent(),
		ReminderID: stored.ID,
		LeadID:     lead.ID,
		AgentID:    lead.AssignedAgentID,
		Title:      stored.Title,
		DueAt:      stored.DueAt,
	})

	if s.scheduler != nil && stored.DueAt != nil {
		if err := s.scheduler.ScheduleReminderDue(ctx, stored.ID, lead.ID, *stored.DueAt); err != nil {
			// Reminder delivery is best effort; the row itself is persisted.
			return lead, &stored.ID, nil
		}
	}

	return lead, &stored.ID, nil
}

// Issues evaluates the lead's health: fresh score, staleness and all
// applicable issues.
func (s *Service) Issues(ctx context.Context, id uuid.UUID) (transport.LeadIssuesResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadIssuesResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadIssuesResponse{}, err
	}

	now := s.nowFn()
	score := scoring.Calculate(scoring.Input{
		Status:            lead.Status,
		Stage:             lead.Stage,
		LastActivity:      lead.LastActivityAt,
		ResponseRate:      lead.ResponseRate,
		BudgetMatch:       lead.BudgetMatch,
		RequirementsMatch: lead.RequirementsMatch,
	}, now)

	issues := domain.DetectIssues(domain.IssueSnapshot{
		LastActivity: lead.LastActivityAt,
		Stage:        lead.Stage,
		NextFollowUp: lead.NextFollowUp,
		Score:        score,
	}, now)

	items := make([]transport.IssueResponse, len(issues))
	for i, issue := range issues {
		items[i] = transport.IssueResponse{
			Type:            issue.Type,
			Severity:        issue.Severity,
			Message:         issue.Message,
			SuggestedAction: issue.SuggestedAction,
		}
	}

	return transport.LeadIssuesResponse{
		LeadID: lead.ID,
		Score:  score,
		Stale:  domain.IsStale(lead.LastActivityAt, now),
		Issues: items,
	}, nil
}

// NextStage returns the transition suggestion for the lead's current stage,
// or nil when the stage is terminal or unrecognized.
func (s *Service) NextStage(ctx context.Context, id uuid.UUID) (*transport.NextStageResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}

	suggestion := domain.SuggestNextStage(lead.Stage)
	if suggestion == nil {
		return nil, nil
	}

	return &transport.NextStageResponse{
		NextStage:         suggestion.NextStage,
		RequiredActions:   suggestion.RequiredActions,
		EstimatedDuration: suggestion.EstimatedDuration,
	}, nil
}
