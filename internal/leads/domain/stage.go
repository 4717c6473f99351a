// Package domain provides core business rules for the leads bounded context:
// the stage catalog, inactivity rules, issue detection, stage automation and
// agent performance rollups. Everything in this package is pure; callers
// supply the current time.
package domain

const (
	StageNewLead            = "New Lead"
	StageContacted          = "Contacted"
	StageSiteVisitScheduled = "Site Visit Scheduled"
	StageSiteVisitCompleted = "Site Visit Completed"
	StageNegotiation        = "Negotiation"
	StageBookingInitiated   = "Booking Initiated"
	StageBookedClosed       = "Booked / Closed"
	StageLostDropped        = "Lost / Dropped"
)

// PipelineStages is the linear sales funnel in order. StageLostDropped is
// reachable from any non-terminal stage and is not part of the linear order.
var PipelineStages = []string{
	StageNewLead,
	StageContacted,
	StageSiteVisitScheduled,
	StageSiteVisitCompleted,
	StageNegotiation,
	StageBookingInitiated,
	StageBookedClosed,
}

var knownStages = map[string]struct{}{
	StageNewLead:            {},
	StageContacted:          {},
	StageSiteVisitScheduled: {},
	StageSiteVisitCompleted: {},
	StageNegotiation:        {},
	StageBookingInitiated:   {},
	StageBookedClosed:       {},
	StageLostDropped:        {},
}

// terminalStages are stages where the workflow is complete. No transition
// suggestion or gated reminder is produced for them.
var terminalStages = map[string]bool{
	StageBookedClosed: true,
	StageLostDropped:  true,
}

func IsKnownStage(stage string) bool {
	_, ok := knownStages[stage]
	return ok
}

// IsTerminalStage returns true for Booked / Closed and Lost / Dropped.
func IsTerminalStage(stage string) bool {
	return terminalStages[stage]
}

// TransitionSuggestion describes the next step in the funnel for a stage.
type TransitionSuggestion struct {
	NextStage         string
	RequiredActions   []string
	EstimatedDuration string
}

var stageProgression = map[string]TransitionSuggestion{
	StageNewLead: {
		NextStage:         StageContacted,
		RequiredActions:   []string{"Make initial call", "Capture requirements", "Qualify lead"},
		EstimatedDuration: "1-2 days",
	},
	StageContacted: {
		NextStage:         StageSiteVisitScheduled,
		RequiredActions:   []string{"Discuss requirements", "Present project options", "Schedule visit"},
		EstimatedDuration: "2-3 days",
	},
	StageSiteVisitScheduled: {
		NextStage:         StageSiteVisitCompleted,
		RequiredActions:   []string{"Conduct site visit", "Show units", "Answer questions"},
		EstimatedDuration: "1 day",
	},
	StageSiteVisitCompleted: {
		NextStage:         StageNegotiation,
		RequiredActions:   []string{"Follow up on feedback", "Address concerns", "Present offer"},
		EstimatedDuration: "2-5 days",
	},
	StageNegotiation: {
		NextStage:         StageBookingInitiated,
		RequiredActions:   []string{"Finalize terms", "Prepare documents", "Collect token amount"},
		EstimatedDuration: "3-7 days",
	},
	StageBookingInitiated: {
		NextStage:         StageBookedClosed,
		RequiredActions:   []string{"Complete documentation", "Process payments", "Sign agreement"},
		EstimatedDuration: "7-14 days",
	},
}

// SuggestNextStage returns the follow-on stage with its required actions and
// estimated duration. It returns nil for terminal stages and for stages it
// does not recognize; nil signals "no automated suggestion", not an error.
func SuggestNextStage(currentStage string) *TransitionSuggestion {
	suggestion, ok := stageProgression[currentStage]
	if !ok {
		return nil
	}
	return &suggestion
}

// StageIndex returns the position of the stage in the linear funnel, or -1
// when the stage is not part of it (including Lost / Dropped).
func StageIndex(stage string) int {
	for i, s := range PipelineStages {
		if s == stage {
			return i
		}
	}
	return -1
}

// StageProgress returns the funnel completion as a fraction in [0,1].
// Stages outside the linear funnel yield 0.
func StageProgress(stage string) float64 {
	idx := StageIndex(stage)
	if idx < 0 {
		return 0
	}
	return float64(idx) / float64(len(PipelineStages)-1)
}
