package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reminder types.
const (
	ReminderTypeCall        = "call"
	ReminderTypeSiteVisit   = "site_visit"
	ReminderTypeFollowUp    = "follow_up"
	ReminderTypeNegotiation = "negotiation"
	ReminderTypeOther       = "other"
)

// Reminder priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Reminder is a scheduled follow-up task tied to a lead. Reminders are
// append-only; completion is the only mutation and they are never deleted.
type Reminder struct {
	ID          uuid.UUID
	Type        string
	Title       string
	Description string
	DueDate     string
	DueTime     string
	Priority    string
	IsCompleted bool
	CreatedAt   time.Time
}

// Lead is the engine's view of a lead for stage automation. The persistence
// layer maps its own row onto this and back.
type Lead struct {
	ID                uuid.UUID
	Stage             string
	NextFollowUp      *time.Time
	NextFollowUpLabel string
	Reminders         []Reminder
}

// rule is one entry of the unified stage-automation table. Gated entries
// drive ProposeReminder and only fire within the freshness window right after
// a transition; ungated entries drive StageAutomation and fire unconditionally
// on an explicit stage change.
type rule struct {
	Stage        string
	Gated        bool
	ReminderType string
	Title        string
	Description  string
	Priority     string

	// Gated entries: hours until the proposed reminder is due.
	DueInHours int

	// Ungated entries: next follow-up offset in days (with optional display
	// suffix) and the reminder's due time, either fixed or now-relative.
	FollowUpDays   int
	FollowUpSuffix string
	DueTimeFixed   string
	DueHoursAhead  int
}

var automationRules = []rule{
	// Freshness-gated reminder proposals for the working stages.
	{Stage: StageNewLead, Gated: true, ReminderType: ReminderTypeCall, Title: "Initial contact call",
		Description: "Make first contact with the lead", Priority: PriorityHigh, DueInHours: 4},
	{Stage: StageContacted, Gated: true, ReminderType: ReminderTypeFollowUp, Title: "Follow-up on initial contact",
		Description: "Check interest level and schedule site visit", Priority: PriorityMedium, DueInHours: 24},
	{Stage: StageSiteVisitScheduled, Gated: true, ReminderType: ReminderTypeSiteVisit, Title: "Site visit reminder",
		Description: "Confirm attendance and prepare property details", Priority: PriorityHigh, DueInHours: 2},
	{Stage: StageSiteVisitCompleted, Gated: true, ReminderType: ReminderTypeFollowUp, Title: "Post-visit follow-up",
		Description: "Gather feedback and address concerns", Priority: PriorityMedium, DueInHours: 8},
	{Stage: StageNegotiation, Gated: true, ReminderType: ReminderTypeNegotiation, Title: "Negotiation follow-up",
		Description: "Review offer and move towards booking", Priority: PriorityHigh, DueInHours: 48},

	// Unconditional transition automation, covering terminal stages too.
	{Stage: StageNewLead, ReminderType: ReminderTypeCall, Title: "Make first contact call",
		Description: "Reach out while the enquiry is fresh", Priority: PriorityHigh,
		FollowUpDays: 0, FollowUpSuffix: " (Today)", DueHoursAhead: 2},
	{Stage: StageContacted, ReminderType: ReminderTypeFollowUp, Title: "Follow-up call to schedule site visit",
		Description: "Confirm interest and agree on a visit slot", Priority: PriorityMedium,
		FollowUpDays: 1, FollowUpSuffix: " (Tomorrow)", DueHoursAhead: 24},
	{Stage: StageSiteVisitScheduled, ReminderType: ReminderTypeSiteVisit, Title: "Prepare site visit materials and property details",
		Description: "Brochures, floor plans and unit availability", Priority: PriorityMedium,
		FollowUpDays: 2, DueTimeFixed: "10:00 AM"},
	{Stage: StageSiteVisitCompleted, ReminderType: ReminderTypeFollowUp, Title: "Send follow-up email with proposal and pricing",
		Description: "Capture visit feedback in the proposal", Priority: PriorityMedium,
		FollowUpDays: 1, DueTimeFixed: "11:00 AM"},
	{Stage: StageNegotiation, ReminderType: ReminderTypeNegotiation, Title: "Discuss pricing options and payment plans",
		Description: "Align on terms and move towards booking", Priority: PriorityHigh,
		FollowUpDays: 1, DueTimeFixed: "2:00 PM"},
	{Stage: StageBookingInitiated, ReminderType: ReminderTypeOther, Title: "Complete booking paperwork and documentation",
		Description: "Collect signatures and token payment", Priority: PriorityHigh,
		FollowUpDays: 1, DueTimeFixed: "10:00 AM"},
	{Stage: StageBookedClosed, ReminderType: ReminderTypeFollowUp, Title: "Post-sale follow-up and request referral",
		Description: "Check in after possession and ask for referrals", Priority: PriorityLow,
		FollowUpDays: 30, DueTimeFixed: "3:00 PM"},
	{Stage: StageLostDropped, ReminderType: ReminderTypeFollowUp, Title: "Check in to see if circumstances changed",
		Description: "Revisit dropped leads after a cooling-off period", Priority: PriorityLow,
		FollowUpDays: 30, DueTimeFixed: "2:00 PM"},
}

func ruleFor(stage string, gated bool) *rule {
	for i := range automationRules {
		if automationRules[i].Stage == stage && automationRules[i].Gated == gated {
			return &automationRules[i]
		}
	}
	return nil
}

// ReminderProposal is a suggested reminder for a stage the lead just entered.
// The caller persists it with a fresh ID and creation timestamp.
type ReminderProposal struct {
	ShouldCreateReminder bool
	ReminderType         string
	Title                string
	Description          string
	Priority             string
	DueInHours           int
}

// ProposeReminder returns a reminder proposal for the given stage when the
// last activity is less than one hour old, i.e. the stage change that caused
// it just happened. Stages without a gated rule (Booking Initiated onwards and
// unknown stages) and activity older than the window both yield nil.
func ProposeReminder(stage string, lastActivity, now time.Time) *ReminderProposal {
	r := ruleFor(stage, true)
	if r == nil {
		return nil
	}

	if now.Sub(lastActivity).Hours() >= 1 {
		return nil
	}

	return &ReminderProposal{
		ShouldCreateReminder: true,
		ReminderType:         r.ReminderType,
		Title:                r.Title,
		Description:          r.Description,
		Priority:             r.Priority,
		DueInHours:           r.DueInHours,
	}
}

// StageAutomationResult is the unconditional automation for an explicit stage
// change: the next follow-up and a fully formed reminder.
type StageAutomationResult struct {
	NextFollowUp      time.Time
	NextFollowUpLabel string
	Reminder          Reminder
}

// StageAutomation returns the transition automation for the new stage, or nil
// when the stage has no ungated rule (unknown stages only; the table covers
// every catalog stage including the terminal ones).
func StageAutomation(newStage string, now time.Time) *StageAutomationResult {
	r := ruleFor(newStage, false)
	if r == nil {
		return nil
	}

	followUp := now.AddDate(0, 0, r.FollowUpDays)

	dueTime := r.DueTimeFixed
	if dueTime == "" {
		dueTime = FormatDisplayTime(now.Add(time.Duration(r.DueHoursAhead) * time.Hour))
	}

	return &StageAutomationResult{
		NextFollowUp:      followUp,
		NextFollowUpLabel: FormatDisplayDate(followUp) + r.FollowUpSuffix,
		Reminder: Reminder{
			ID:          uuid.New(),
			Type:        r.ReminderType,
			Title:       r.Title,
			Description: r.Description,
			DueDate:     FormatDisplayDate(followUp),
			DueTime:     dueTime,
			Priority:    r.Priority,
			IsCompleted: false,
			CreatedAt:   now,
		},
	}
}

// ApplyStageAutomation moves a lead to newStage and applies the transition
// automation when one exists. The input lead is never mutated; the returned
// copy carries the new stage, updated follow-up and the appended reminder with
// all prior reminders preserved.
func ApplyStageAutomation(lead Lead, newStage string, now time.Time) Lead {
	updated := lead
	updated.Stage = newStage
	updated.Reminders = append([]Reminder(nil), lead.Reminders...)

	automation := StageAutomation(newStage, now)
	if automation == nil {
		return updated
	}

	followUp := automation.NextFollowUp
	updated.NextFollowUp = &followUp
	updated.NextFollowUpLabel = automation.NextFollowUpLabel
	updated.Reminders = append(updated.Reminders, automation.Reminder)

	return updated
}
