package domain

import "time"

// PerformanceMetrics is a rollup over a set of leads, typically pre-filtered
// to one agent. Recomputed on demand; never stored.
type PerformanceMetrics struct {
	TotalLeads     int
	ActiveLeads    int
	ConversionRate float64 // percent of leads in Booked / Closed
	AvgResponse    float64 // mean hours between creation and last activity
	StaleLeadRate  float64 // percent of leads past the stale threshold
}

// MetricsLead carries the lead fields the rollup reads.
type MetricsLead struct {
	Stage        string
	CreatedAt    time.Time
	LastActivity time.Time
}

// CalculatePerformanceMetrics aggregates leads into performance statistics.
// Empty input degrades every rate to zero rather than erroring.
func CalculatePerformanceMetrics(leads []MetricsLead, now time.Time) PerformanceMetrics {
	total := len(leads)
	if total == 0 {
		return PerformanceMetrics{}
	}

	var active, closed, stale int
	var responseHours float64
	for _, lead := range leads {
		if !IsTerminalStage(lead.Stage) {
			active++
		}
		if lead.Stage == StageBookedClosed {
			closed++
		}
		if IsStale(lead.LastActivity, now) {
			stale++
		}
		responseHours += lead.LastActivity.Sub(lead.CreatedAt).Hours()
	}

	return PerformanceMetrics{
		TotalLeads:     total,
		ActiveLeads:    active,
		ConversionRate: float64(closed) / float64(total) * 100,
		AvgResponse:    responseHours / float64(total),
		StaleLeadRate:  float64(stale) / float64(total) * 100,
	}
}
