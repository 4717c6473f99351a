package domain

import (
	"testing"
	"time"
)

func TestCalculatePerformanceMetricsEmptyInput(t *testing.T) {
	got := CalculatePerformanceMetrics(nil, now)
	if got != (PerformanceMetrics{}) {
		t.Fatalf("metrics over empty input = %+v, want zero value", got)
	}
}

func TestCalculatePerformanceMetrics(t *testing.T) {
	leads := []MetricsLead{
		{Stage: StageBookedClosed, CreatedAt: now.Add(-48 * time.Hour), LastActivity: now.Add(-24 * time.Hour)},
		{Stage: StageNegotiation, CreatedAt: now.Add(-10 * time.Hour), LastActivity: now.Add(-2 * time.Hour)},
		{Stage: StageLostDropped, CreatedAt: now.Add(-200 * time.Hour), LastActivity: now.Add(-100 * time.Hour)},
		{Stage: StageNewLead, CreatedAt: now.Add(-4 * time.Hour), LastActivity: now.Add(-4 * time.Hour)},
	}

	got := CalculatePerformanceMetrics(leads, now)

	if got.TotalLeads != 4 {
		t.Errorf("TotalLeads = %d, want 4", got.TotalLeads)
	}
	if got.ActiveLeads != 2 {
		t.Errorf("ActiveLeads = %d, want 2", got.ActiveLeads)
	}
	if got.ConversionRate != 25 {
		t.Errorf("ConversionRate = %v, want 25", got.ConversionRate)
	}
	if got.StaleLeadRate != 25 {
		t.Errorf("StaleLeadRate = %v, want 25", got.StaleLeadRate)
	}
	// (24 + 8 + 100 + 0) / 4
	if got.AvgResponse != 33 {
		t.Errorf("AvgResponse = %v, want 33", got.AvgResponse)
	}
}
