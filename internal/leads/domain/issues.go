package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Issue severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Issue types.
const (
	IssueStale         = "stale"
	IssueOverdue       = "overdue"
	IssueLowEngagement = "low_engagement"
	IssueHighPriority  = "high_priority"
)

const staleThresholdHours = 72

// IsStale reports whether a lead has had no activity for more than 72 hours.
// Exactly 72 hours is not stale.
func IsStale(lastActivity, now time.Time) bool {
	return now.Sub(lastActivity).Hours() > staleThresholdHours
}

// InactivityAssessment is the result of the tiered inactivity check.
type InactivityAssessment struct {
	ShouldAlert bool
	Severity    string
	Message     string
}

// AssessInactivity classifies elapsed inactivity into alert tiers. Unlike
// IsStale this uses inclusive thresholds, so exactly 72 hours already tiers
// high. The asymmetry matches the shipped behavior and is kept deliberately.
func AssessInactivity(lastActivity, now time.Time) InactivityAssessment {
	hours := now.Sub(lastActivity).Hours()

	switch {
	case hours >= 72:
		return InactivityAssessment{
			ShouldAlert: true,
			Severity:    SeverityHigh,
			Message:     "Lead has been inactive for 72+ hours. Immediate action required.",
		}
	case hours >= 48:
		return InactivityAssessment{
			ShouldAlert: true,
			Severity:    SeverityMedium,
			Message:     "Lead inactive for 48 hours. Manager notification sent.",
		}
	case hours >= 24:
		return InactivityAssessment{
			ShouldAlert: true,
			Severity:    SeverityLow,
			Message:     "Lead inactive for 24 hours. Reminder sent to agent.",
		}
	}

	return InactivityAssessment{ShouldAlert: false, Severity: SeverityLow, Message: ""}
}

// Issue is a computed warning about a lead's health. Issues are derived on
// every evaluation and never stored.
type Issue struct {
	Type            string
	Severity        string
	Message         string
	SuggestedAction string
}

// IssueSnapshot carries the lead fields the issue checks read.
type IssueSnapshot struct {
	LastActivity time.Time
	Stage        string
	NextFollowUp *time.Time
	Score        int
}

// DetectIssues runs all health checks independently; a lead can carry several
// issues at once.
func DetectIssues(lead IssueSnapshot, now time.Time) []Issue {
	issues := make([]Issue, 0, 4)

	if assessment := AssessInactivity(lead.LastActivity, now); assessment.ShouldAlert {
		issues = append(issues, Issue{
			Type:            IssueStale,
			Severity:        assessment.Severity,
			Message:         assessment.Message,
			SuggestedAction: "Contact the lead immediately to re-engage",
		})
	}

	if lead.NextFollowUp != nil && lead.NextFollowUp.Before(now) {
		issues = append(issues, Issue{
			Type:            IssueOverdue,
			Severity:        SeverityMedium,
			Message:         "Follow-up is overdue",
			SuggestedAction: "Complete the pending follow-up action",
		})
	}

	if lead.Score >= 8 && lead.Stage == StageNegotiation {
		issues = append(issues, Issue{
			Type:            IssueHighPriority,
			Severity:        SeverityHigh,
			Message:         "High-priority lead in negotiation stage",
			SuggestedAction: "Prioritize this lead and move to booking",
		})
	}

	if lead.Score < 4 {
		issues = append(issues, Issue{
			Type:            IssueLowEngagement,
			Severity:        SeverityLow,
			Message:         "Lead showing low engagement",
			SuggestedAction: "Re-assess lead qualification and interest level",
		})
	}

	return issues
}

// ManagerAlert is a notification record raised from a detected issue.
type ManagerAlert struct {
	AlertType   string
	Severity    string
	Title       string
	Description string
	LeadID      uuid.UUID
	AgentID     uuid.UUID
}

// BuildManagerAlert maps an issue to a manager-facing alert. Every call
// produces a new alert; deduplication and cool-downs are the caller's concern.
func BuildManagerAlert(leadID, agentID uuid.UUID, issue Issue) ManagerAlert {
	return ManagerAlert{
		AlertType:   issue.Type,
		Severity:    issue.Severity,
		Title:       "Lead Alert: " + strings.ReplaceAll(issue.Type, "_", " "),
		Description: issue.Message,
		LeadID:      leadID,
		AgentID:     agentID,
	}
}
