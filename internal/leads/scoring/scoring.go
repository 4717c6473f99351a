// Package scoring derives a 1-10 quality score for a lead from its heat
// status, funnel position, activity recency, responsiveness and fit flags.
package scoring

import (
	"time"

	"estate_crm_backend/internal/leads/domain"
)

// Score bounds. Every result clamps into this range.
const (
	MinScore = 1
	MaxScore = 10
)

// Lead heat statuses.
const (
	StatusHot  = "Hot"
	StatusWarm = "Warm"
	StatusCold = "Cold"
)

const baseScore = 5

// Funnel position contribution. Later working stages score higher; unknown
// stages contribute nothing.
var stageScores = map[string]int{
	domain.StageNewLead:            0,
	domain.StageContacted:          1,
	domain.StageSiteVisitScheduled: 2,
	domain.StageSiteVisitCompleted: 3,
	domain.StageNegotiation:        3,
	domain.StageBookingInitiated:   4,
}

// Input carries the scoring factors for one lead.
type Input struct {
	Status            string
	Stage             string
	LastActivity      time.Time
	ResponseRate      float64 // 0.0-1.0
	BudgetMatch       bool
	RequirementsMatch bool
}

// Calculate computes the lead score. The factor order and the strict
// comparison directions are load-bearing; boundary values (24h, 72h, 0.8,
// 0.3) sit in the neutral band.
func Calculate(input Input, now time.Time) int {
	score := baseScore

	switch input.Status {
	case StatusHot:
		score += 3
	case StatusWarm:
		score += 1
	case StatusCold:
		score -= 2
	}

	score += stageScores[input.Stage]

	hoursSinceActivity := now.Sub(input.LastActivity).Hours()
	if hoursSinceActivity < 24 {
		score++
	} else if hoursSinceActivity > 72 {
		score -= 2
	}

	if input.ResponseRate > 0.8 {
		score++
	} else if input.ResponseRate < 0.3 {
		score--
	}

	if input.BudgetMatch {
		score++
	}
	if input.RequirementsMatch {
		score++
	}

	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
