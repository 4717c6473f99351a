package notification

import (
	"context"
	"testing"
	"time"

	"estate_crm_backend/internal/email"
	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/notification/inapp"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeInApp struct {
	sent []inapp.SendParams
}

func (f *fakeInApp) Send(_ context.Context, p inapp.SendParams) error {
	f.sent = append(f.sent, p)
	return nil
}

type fakeDirectory struct {
	managers  []Person
	people    map[uuid.UUID]Person
	buyerName string
}

func (f *fakeDirectory) ListManagers(context.Context) ([]Person, error) {
	return f.managers, nil
}

func (f *fakeDirectory) GetPerson(_ context.Context, id uuid.UUID) (Person, error) {
	p, ok := f.people[id]
	if !ok {
		return Person{}, errPersonNotFound
	}
	return p, nil
}

func (f *fakeDirectory) GetBuyerName(context.Context, uuid.UUID) (string, error) {
	return f.buyerName, nil
}

type recordEmailSender struct {
	recipients []string
	mails      []email.ManagerAlertEmail
}

func (r *recordEmailSender) SendManagerAlert(_ context.Context, toEmail string, data email.ManagerAlertEmail) error {
	r.recipients = append(r.recipients, toEmail)
	r.mails = append(r.mails, data)
	return nil
}

func newTestSubscriber(dir *fakeDirectory) (*Subscriber, *fakeInApp, *recordEmailSender) {
	inApp := &fakeInApp{}
	mails := &recordEmailSender{}
	sub := NewSubscriber(inApp, dir, mails, "http://localhost:4200", logger.NewNop())
	return sub, inApp, mails
}

func TestManagerAlertFansOutToAllManagers(t *testing.T) {
	agentID := uuid.New()
	managerA := Person{ID: uuid.New(), Email: "a@crm.test", Name: "Asha"}
	managerB := Person{ID: uuid.New(), Email: "b@crm.test", Name: "Bala"}
	dir := &fakeDirectory{
		managers:  []Person{managerA, managerB},
		people:    map[uuid.UUID]Person{agentID: {ID: agentID, Name: "Ravi"}},
		buyerName: "Priya Sharma",
	}
	sub, inApp, mails := newTestSubscriber(dir)

	leadID := uuid.New()
	err := sub.onManagerAlertRaised(context.Background(), events.ManagerAlertRaised{
		BaseEvent:   events.BaseEvent{Timestamp: now},
		LeadID:      leadID,
		AgentID:     agentID,
		AlertType:   "stale",
		Severity:    "high",
		Title:       "Lead Alert: stale",
		Description: "No activity for 80 hours",
	})
	if err != nil {
		t.Fatalf("onManagerAlertRaised: %v", err)
	}

	if len(inApp.sent) != 2 {
		t.Fatalf("in-app notifications = %d, want 2", len(inApp.sent))
	}
	first := inApp.sent[0]
	if first.UserID != managerA.ID {
		t.Errorf("first recipient = %s, want %s", first.UserID, managerA.ID)
	}
	if first.Title != "Lead Alert: stale" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Category != "alert" {
		t.Errorf("category = %q, want alert", first.Category)
	}
	if first.LeadID == nil || *first.LeadID != leadID {
		t.Errorf("leadId not carried on notification")
	}

	if len(mails.recipients) != 2 {
		t.Fatalf("emails sent = %d, want 2", len(mails.recipients))
	}
	if mails.recipients[0] != "a@crm.test" || mails.recipients[1] != "b@crm.test" {
		t.Errorf("email recipients = %v", mails.recipients)
	}
	mail := mails.mails[0]
	if mail.AgentName != "Ravi" {
		t.Errorf("agent name = %q, want Ravi", mail.AgentName)
	}
	if mail.BuyerName != "Priya Sharma" {
		t.Errorf("buyer name = %q", mail.BuyerName)
	}
	if mail.LeadURL != "http://localhost:4200/leads/"+leadID.String() {
		t.Errorf("lead URL = %q", mail.LeadURL)
	}
}

func TestManagerAlertWithNoManagersIsDropped(t *testing.T) {
	sub, inApp, mails := newTestSubscriber(&fakeDirectory{})

	err := sub.onManagerAlertRaised(context.Background(), events.ManagerAlertRaised{
		BaseEvent: events.BaseEvent{Timestamp: now},
		LeadID:    uuid.New(),
		AgentID:   uuid.New(),
		Title:     "Lead Alert: stale",
	})
	if err != nil {
		t.Fatalf("onManagerAlertRaised: %v", err)
	}
	if len(inApp.sent) != 0 || len(mails.recipients) != 0 {
		t.Errorf("expected no deliveries, got %d in-app and %d emails", len(inApp.sent), len(mails.recipients))
	}
}

func TestReminderDueNotifiesAssignedAgent(t *testing.T) {
	dir := &fakeDirectory{buyerName: "Priya Sharma"}
	sub, inApp, _ := newTestSubscriber(dir)

	agentID := uuid.New()
	leadID := uuid.New()
	err := sub.onReminderDue(context.Background(), events.ReminderDue{
		BaseEvent:  events.BaseEvent{Timestamp: now},
		ReminderID: uuid.New(),
		LeadID:     leadID,
		AgentID:    &agentID,
		Title:      "Make first contact call",
		Priority:   "high",
	})
	if err != nil {
		t.Fatalf("onReminderDue: %v", err)
	}

	if len(inApp.sent) != 1 {
		t.Fatalf("in-app notifications = %d, want 1", len(inApp.sent))
	}
	n := inApp.sent[0]
	if n.UserID != agentID {
		t.Errorf("recipient = %s, want %s", n.UserID, agentID)
	}
	if n.Content != "Make first contact call: Priya Sharma" {
		t.Errorf("content = %q", n.Content)
	}
	if n.Category != "warning" {
		t.Errorf("category = %q, want warning", n.Category)
	}
}

func TestReminderDueOnUnassignedLeadIsDropped(t *testing.T) {
	sub, inApp, _ := newTestSubscriber(&fakeDirectory{})

	err := sub.onReminderDue(context.Background(), events.ReminderDue{
		BaseEvent: events.BaseEvent{Timestamp: now},
		LeadID:    uuid.New(),
		Title:     "Make first contact call",
	})
	if err != nil {
		t.Fatalf("onReminderDue: %v", err)
	}
	if len(inApp.sent) != 0 {
		t.Errorf("expected no delivery for unassigned lead")
	}
}

func TestLeadCreatedNotifiesAgent(t *testing.T) {
	sub, inApp, _ := newTestSubscriber(&fakeDirectory{})

	agentID := uuid.New()
	err := sub.onLeadCreated(context.Background(), events.LeadCreated{
		BaseEvent:       events.BaseEvent{Timestamp: now},
		LeadID:          uuid.New(),
		BuyerName:       "Priya Sharma",
		Stage:           "New Lead",
		Status:          "Hot",
		AssignedAgentID: &agentID,
	})
	if err != nil {
		t.Fatalf("onLeadCreated: %v", err)
	}
	if len(inApp.sent) != 1 {
		t.Fatalf("in-app notifications = %d, want 1", len(inApp.sent))
	}
	if inApp.sent[0].Content != "Priya Sharma is now in your pipeline." {
		t.Errorf("content = %q", inApp.sent[0].Content)
	}
}
