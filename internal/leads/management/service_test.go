package management

import (
	"context"
	"errors"
	"testing"
	"time"

	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/leads/domain"
	"estate_crm_backend/internal/leads/repository"
	"estate_crm_backend/internal/leads/transport"
	"estate_crm_backend/platform/apperr"

	"github.com/google/uuid"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	leads          map[uuid.UUID]repository.Lead
	reminders      []repository.Reminder
	updateStageErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]repository.Lead)}
}

func (f *fakeRepo) CreateLead(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:                uuid.New(),
		BuyerName:         params.BuyerName,
		Phone:             params.Phone,
		Email:             params.Email,
		Status:            params.Status,
		Stage:             params.Stage,
		ProjectName:       params.ProjectName,
		Budget:            params.Budget,
		Requirements:      params.Requirements,
		Score:             params.Score,
		ResponseRate:      params.ResponseRate,
		BudgetMatch:       params.BudgetMatch,
		RequirementsMatch: params.RequirementsMatch,
		AssignedAgentID:   params.AssignedAgentID,
		LastActivityAt:    params.LastActivityAt,
		CreatedAt:         params.LastActivityAt,
		UpdatedAt:         params.LastActivityAt,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) ListLeads(_ context.Context, params repository.ListLeadsParams) ([]repository.Lead, int, error) {
	all := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		all = append(all, lead)
	}
	total := len(all)
	if params.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[params.Offset:]
	if params.Limit > 0 && params.Limit < len(all) {
		all = all[:params.Limit]
	}
	return all, total, nil
}

func (f *fakeRepo) UpdateLead(_ context.Context, params repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[params.ID]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.BuyerName != nil {
		lead.BuyerName = *params.BuyerName
	}
	if params.Phone != nil {
		lead.Phone = *params.Phone
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.ResponseRate != nil {
		lead.ResponseRate = *params.ResponseRate
	}
	if params.BudgetMatch != nil {
		lead.BudgetMatch = *params.BudgetMatch
	}
	if params.RequirementsMatch != nil {
		lead.RequirementsMatch = *params.RequirementsMatch
	}
	if params.Score != nil {
		lead.Score = *params.Score
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateStage(_ context.Context, params repository.UpdateStageParams) (repository.Lead, error) {
	if f.updateStageErr != nil {
		return repository.Lead{}, f.updateStageErr
	}
	lead, ok := f.leads[params.ID]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Stage = params.Stage
	lead.Score = params.Score
	lead.NextFollowUp = params.NextFollowUp
	lead.NextFollowUpLabel = params.NextFollowUpLabel
	lead.LastActivityAt = params.LastActivityAt
	lead.UpdatedAt = params.LastActivityAt
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) CreateReminder(_ context.Context, params repository.CreateReminderParams) (repository.Reminder, error) {
	reminder := repository.Reminder{
		ID:          params.ID,
		LeadID:      params.LeadID,
		Type:        params.Type,
		Title:       params.Title,
		Description: params.Description,
		DueDate:     params.DueDate,
		DueTime:     params.DueTime,
		DueAt:       params.DueAt,
		Priority:    params.Priority,
		CreatedAt:   params.CreatedAt,
	}
	f.reminders = append(f.reminders, reminder)
	return reminder, nil
}

type recordBus struct {
	published []events.Event
}

func (b *recordBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordBus) Subscribe(string, events.Handler) {}

func (b *recordBus) names() []string {
	names := make([]string, len(b.published))
	for i, event := range b.published {
		names[i] = event.EventName()
	}
	return names
}

type scheduledTask struct {
	reminderID uuid.UUID
	leadID     uuid.UUID
	runAt      time.Time
}

type fakeScheduler struct {
	tasks []scheduledTask
}

func (f *fakeScheduler) ScheduleReminderDue(_ context.Context, reminderID, leadID uuid.UUID, runAt time.Time) error {
	f.tasks = append(f.tasks, scheduledTask{reminderID: reminderID, leadID: leadID, runAt: runAt})
	return nil
}

func newTestService() (*Service, *fakeRepo, *recordBus, *fakeScheduler) {
	repo := newFakeRepo()
	bus := &recordBus{}
	scheduler := &fakeScheduler{}
	svc := New(repo, bus, scheduler)
	svc.nowFn = func() time.Time { return now }
	return svc, repo, bus, scheduler
}

func seedLead(repo *fakeRepo, stage string) repository.Lead {
	lead := repository.Lead{
		ID:             uuid.New(),
		BuyerName:      "Priya Sharma",
		Phone:          "+919876543210",
		Status:         "Warm",
		Stage:          stage,
		Score:          6,
		ResponseRate:   0.5,
		LastActivityAt: now.Add(-2 * time.Hour),
		CreatedAt:      now.Add(-48 * time.Hour),
		UpdatedAt:      now.Add(-2 * time.Hour),
	}
	repo.leads[lead.ID] = lead
	return lead
}

func TestCreateRunsNewLeadAutomation(t *testing.T) {
	svc, repo, bus, scheduler := newTestService()

	resp, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		BuyerName:         "Rahul Verma",
		Phone:             "9876543210",
		Status:            transport.LeadStatusHot,
		ResponseRate:      0.9,
		BudgetMatch:       true,
		RequirementsMatch: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if resp.Stage != domain.StageNewLead {
		t.Fatalf("stage = %q, want %q", resp.Stage, domain.StageNewLead)
	}
	// Hot lead, fresh activity, high response rate, full fit: clamped at max.
	if resp.Score != 10 {
		t.Errorf("score = %d, want 10", resp.Score)
	}
	if resp.Phone != "+919876543210" {
		t.Errorf("phone = %q, want normalized E.164", resp.Phone)
	}
	if resp.NextFollowUpLabel != "Mar 10, 2026 (Today)" {
		t.Errorf("follow-up label = %q", resp.NextFollowUpLabel)
	}

	if len(repo.reminders) != 1 {
		t.Fatalf("reminders = %d, want 1", len(repo.reminders))
	}
	if repo.reminders[0].Title != "Make first contact call" {
		t.Errorf("reminder title = %q", repo.reminders[0].Title)
	}

	if len(scheduler.tasks) != 1 {
		t.Fatalf("scheduled tasks = %d, want 1", len(scheduler.tasks))
	}
	wantRunAt := now.Add(2 * time.Hour)
	if !scheduler.tasks[0].runAt.Equal(wantRunAt) {
		t.Errorf("scheduled at %v, want %v", scheduler.tasks[0].runAt, wantRunAt)
	}

	names := bus.names()
	if len(names) != 2 || names[0] != "leads.lead.created" || names[1] != "leads.reminder.created" {
		t.Errorf("published events = %v", names)
	}
}

func TestChangeStageAppendsReminderAndSchedules(t *testing.T) {
	svc, repo, bus, scheduler := newTestService()
	lead := seedLead(repo, domain.StageNewLead)

	resp, err := svc.ChangeStage(context.Background(), lead.ID, domain.StageContacted)
	if err != nil {
		t.Fatalf("ChangeStage: %v", err)
	}

	if resp.Stage != domain.StageContacted {
		t.Fatalf("stage = %q, want %q", resp.Stage, domain.StageContacted)
	}
	if resp.NextFollowUpLabel != "Mar 11, 2026 (Tomorrow)" {
		t.Errorf("follow-up label = %q", resp.NextFollowUpLabel)
	}
	if resp.NextFollowUp == nil || !resp.NextFollowUp.Equal(now.Add(24*time.Hour)) {
		t.Errorf("next follow-up = %v, want %v", resp.NextFollowUp, now.Add(24*time.Hour))
	}

	if len(repo.reminders) != 1 {
		t.Fatalf("reminders = %d, want 1", len(repo.reminders))
	}
	reminder := repo.reminders[0]
	if reminder.Type != domain.ReminderTypeFollowUp {
		t.Errorf("reminder type = %q", reminder.Type)
	}
	if reminder.LeadID != lead.ID {
		t.Errorf("reminder lead = %v, want %v", reminder.LeadID, lead.ID)
	}

	if len(scheduler.tasks) != 1 {
		t.Fatalf("scheduled tasks = %d, want 1", len(scheduler.tasks))
	}
	if !scheduler.tasks[0].runAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("scheduled at %v", scheduler.tasks[0].runAt)
	}

	names := bus.names()
	// Reminder persistence happens inside the transition, so its event lands
	// before the stage change announcement.
	if len(names) != 2 || names[0] != "leads.reminder.created" || names[1] != "leads.lead.stage_changed" {
		t.Errorf("published events = %v", names)
	}
	changed, ok := bus.published[1].(events.LeadStageChanged)
	if !ok {
		t.Fatalf("second event is %T", bus.published[1])
	}
	if changed.PreviousStage != domain.StageNewLead || changed.NewStage != domain.StageContacted {
		t.Errorf("transition %q -> %q", changed.PreviousStage, changed.NewStage)
	}
	if changed.ReminderID == nil || *changed.ReminderID != reminder.ID {
		t.Errorf("reminder id on event = %v", changed.ReminderID)
	}
}

func TestChangeStageRejectsUnknownStage(t *testing.T) {
	svc, repo, _, _ := newTestService()
	lead := seedLead(repo, domain.StageNewLead)

	_, err := svc.ChangeStage(context.Background(), lead.ID, "Warp Drive")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestChangeStageRejectsTerminalLead(t *testing.T) {
	svc, repo, _, _ := newTestService()
	lead := seedLead(repo, domain.StageBookedClosed)

	_, err := svc.ChangeStage(context.Background(), lead.ID, domain.StageNegotiation)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("err = %v, want conflict error", err)
	}
}

func TestChangeStagePersistenceFailureIsInternal(t *testing.T) {
	svc, repo, _, _ := newTestService()
	lead := seedLead(repo, domain.StageNewLead)
	repo.updateStageErr = errors.New("connection reset")

	_, err := svc.ChangeStage(context.Background(), lead.ID, domain.StageContacted)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindInternal {
		t.Fatalf("err = %v, want internal error", err)
	}
}

func TestChangeStageLeadNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ChangeStage(context.Background(), uuid.New(), domain.StageContacted)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("err = %v, want not found error", err)
	}
}

func TestIssuesForNeglectedLead(t *testing.T) {
	svc, repo, _, _ := newTestService()
	lead := seedLead(repo, domain.StageNegotiation)
	lead.Status = "Hot"
	lead.LastActivityAt = now.Add(-80 * time.Hour)
	overdue := now.Add(-3 * time.Hour)
	lead.NextFollowUp = &overdue
	repo.leads[lead.ID] = lead

	resp, err := svc.Issues(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}

	if !resp.Stale {
		t.Error("expected lead to be stale")
	}
	types := make(map[string]bool)
	for _, issue := range resp.Issues {
		types[issue.Type] = true
	}
	if !types[domain.IssueStale] {
		t.Errorf("missing stale issue, got %v", types)
	}
	if !types[domain.IssueOverdue] {
		t.Errorf("missing overdue follow-up issue, got %v", types)
	}
	if !types[domain.IssueHighPriority] {
		t.Errorf("missing high priority issue, got %v", types)
	}
}

func TestNextStageSuggestion(t *testing.T) {
	svc, repo, _, _ := newTestService()

	active := seedLead(repo, domain.StageSiteVisitScheduled)
	resp, err := svc.NextStage(context.Background(), active.ID)
	if err != nil {
		t.Fatalf("NextStage: %v", err)
	}
	if resp == nil || resp.NextStage != domain.StageSiteVisitCompleted {
		t.Fatalf("suggestion = %+v", resp)
	}

	closed := seedLead(repo, domain.StageBookedClosed)
	resp, err = svc.NextStage(context.Background(), closed.ID)
	if err != nil {
		t.Fatalf("NextStage terminal: %v", err)
	}
	if resp != nil {
		t.Fatalf("terminal suggestion = %+v, want nil", resp)
	}
}

func TestUpdateRecomputesScore(t *testing.T) {
	svc, repo, _, _ := newTestService()
	lead := seedLead(repo, domain.StageContacted)

	cold := transport.LeadStatusCold
	lowRate := 0.1
	resp, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{
		Status:       &cold,
		ResponseRate: &lowRate,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Cold (-2), Contacted (+1), recent activity (+1), low rate (-1): 5-2+1+1-1.
	if resp.Score != 4 {
		t.Errorf("score = %d, want 4", resp.Score)
	}
	if resp.Status != "Cold" {
		t.Errorf("status = %q", resp.Status)
	}
}
