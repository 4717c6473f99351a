// Package notification fans lead lifecycle events out to the people who need
// to act on them, as in-app notifications and (for manager alerts) email.
package notification

import (
	"context"
	"fmt"

	"estate_crm_backend/internal/email"
	"estate_crm_backend/internal/events"
	"estate_crm_backend/internal/notification/inapp"
	"estate_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// InAppSender persists an in-app notification.
type InAppSender interface {
	Send(ctx context.Context, p inapp.SendParams) error
}

// RecipientDirectory resolves notification recipients and lead context.
type RecipientDirectory interface {
	ListManagers(ctx context.Context) ([]Person, error)
	GetPerson(ctx context.Context, id uuid.UUID) (Person, error)
	GetBuyerName(ctx context.Context, leadID uuid.UUID) (string, error)
}

// Subscriber handles lead lifecycle events and turns them into notifications.
type Subscriber struct {
	inApp     InAppSender
	directory RecipientDirectory
	emails    email.Sender
	baseURL   string
	log       *logger.Logger
}

func NewSubscriber(inApp InAppSender, directory RecipientDirectory, emails email.Sender, baseURL string, log *logger.Logger) *Subscriber {
	return &Subscriber{
		inApp:     inApp,
		directory: directory,
		emails:    emails,
		baseURL:   baseURL,
		log:       log,
	}
}

// Register subscribes the handlers on the bus.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(events.ReminderDue{}.EventName(), events.HandlerFunc(s.onReminderDue))
	bus.Subscribe(events.ManagerAlertRaised{}.EventName(), events.HandlerFunc(s.onManagerAlertRaised))
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(s.onLeadCreated))
}

// onReminderDue notifies the assigned agent that a reminder has come due.
// Reminders on unassigned leads have nobody to notify and are dropped.
func (s *Subscriber) onReminderDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ReminderDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.AgentID == nil {
		return nil
	}

	buyerName, err := s.directory.GetBuyerName(ctx, e.LeadID)
	if err != nil {
		return err
	}

	content := e.Title
	if buyerName != "" {
		content = fmt.Sprintf("%s: %s", e.Title, buyerName)
	}

	leadID := e.LeadID
	return s.inApp.Send(ctx, inapp.SendParams{
		UserID:   *e.AgentID,
		Title:    "Reminder due",
		Content:  content,
		LeadID:   &leadID,
		Category: "warning",
	})
}

// onManagerAlertRaised delivers the alert to every manager, in-app and by
// email. Email failures are logged and do not block in-app delivery.
func (s *Subscriber) onManagerAlertRaised(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ManagerAlertRaised)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	managers, err := s.directory.ListManagers(ctx)
	if err != nil {
		return err
	}
	if len(managers) == 0 {
		s.log.Warn("manager alert raised but no managers exist", "leadId", e.LeadID)
		return nil
	}

	agentName := "an agent"
	if agent, err := s.directory.GetPerson(ctx, e.AgentID); err == nil {
		agentName = agent.Name
	}
	buyerName, err := s.directory.GetBuyerName(ctx, e.LeadID)
	if err != nil {
		return err
	}

	leadID := e.LeadID
	leadURL := fmt.Sprintf("%s/leads/%s", s.baseURL, e.LeadID)

	for _, manager := range managers {
		if err := s.inApp.Send(ctx, inapp.SendParams{
			UserID:   manager.ID,
			Title:    e.Title,
			Content:  e.Description,
			LeadID:   &leadID,
			Category: "alert",
		}); err != nil {
			return err
		}

		mail := email.ManagerAlertEmail{
			ManagerName: manager.Name,
			AgentName:   agentName,
			BuyerName:   buyerName,
			AlertTitle:  e.Title,
			Description: e.Description,
			Severity:    e.Severity,
			LeadURL:     leadURL,
		}
		if err := s.emails.SendManagerAlert(ctx, manager.Email, mail); err != nil {
			s.log.Error("manager alert email failed",
				"managerId", manager.ID, "leadId", e.LeadID, "error", err)
		}
	}
	return nil
}

// onLeadCreated tells the assigned agent a new lead landed in their book.
func (s *Subscriber) onLeadCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.AssignedAgentID == nil {
		return nil
	}

	leadID := e.LeadID
	return s.inApp.Send(ctx, inapp.SendParams{
		UserID:   *e.AssignedAgentID,
		Title:    "New lead assigned",
		Content:  fmt.Sprintf("%s is now in your pipeline.", e.BuyerName),
		LeadID:   &leadID,
		Category: "info",
	})
}
