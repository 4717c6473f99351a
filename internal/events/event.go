// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"estate_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID          uuid.UUID  `json:"leadId"`
	BuyerName       string     `json:"buyerName"`
	Stage           string     `json:"stage"`
	Status          string     `json:"status"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStageChanged is published after a stage transition has been persisted.
type LeadStageChanged struct {
	BaseEvent
	LeadID          uuid.UUID  `json:"leadId"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
	PreviousStage   string     `json:"previousStage"`
	NewStage        string     `json:"newStage"`
	NextFollowUp    *time.Time `json:"nextFollowUp,omitempty"`
	ReminderID      *uuid.UUID `json:"reminderId,omitempty"`
}

func (e LeadStageChanged) EventName() string { return "leads.lead.stage_changed" }

// ReminderCreated is published for every appended reminder, whether automated
// or manual.
type ReminderCreated struct {
	BaseEvent
	ReminderID uuid.UUID  `json:"reminderId"`
	LeadID     uuid.UUID  `json:"leadId"`
	AgentID    *uuid.UUID `json:"agentId,omitempty"`
	Title      string     `json:"title"`
	DueAt      *time.Time `json:"dueAt,omitempty"`
}

func (e ReminderCreated) EventName() string { return "leads.reminder.created" }

// ReminderDue is published by the scheduler worker when a reminder's due
// instant has arrived and it is still open.
type ReminderDue struct {
	BaseEvent
	ReminderID uuid.UUID  `json:"reminderId"`
	LeadID     uuid.UUID  `json:"leadId"`
	AgentID    *uuid.UUID `json:"agentId,omitempty"`
	Title      string     `json:"title"`
	Priority   string     `json:"priority"`
}

func (e ReminderDue) EventName() string { return "leads.reminder.due" }

// ManagerAlertRaised is published when the inactivity sweep (or an on-demand
// evaluation) turns a detected issue into a manager alert.
type ManagerAlertRaised struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	AgentID     uuid.UUID `json:"agentId"`
	AlertType   string    `json:"alertType"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

func (e ManagerAlertRaised) EventName() string { return "leads.manager_alert.raised" }
