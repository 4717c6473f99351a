package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestIsStaleBoundary(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    bool
	}{
		{71 * time.Hour, false},
		{72 * time.Hour, false}, // exactly 72h is not stale
		{72*time.Hour + time.Second, true},
		{100 * time.Hour, true},
	}

	for _, tc := range cases {
		if got := IsStale(now.Add(-tc.elapsed), now); got != tc.want {
			t.Errorf("IsStale at %s = %v, want %v", tc.elapsed, got, tc.want)
		}
	}
}

func TestAssessInactivityTiers(t *testing.T) {
	cases := []struct {
		name         string
		elapsed      time.Duration
		wantAlert    bool
		wantSeverity string
	}{
		{"fresh", 1 * time.Hour, false, SeverityLow},
		{"just under 24h", 24*time.Hour - time.Minute, false, SeverityLow},
		{"exactly 24h", 24 * time.Hour, true, SeverityLow},
		{"exactly 48h", 48 * time.Hour, true, SeverityMedium},
		{"exactly 72h", 72 * time.Hour, true, SeverityHigh},
		{"way past", 200 * time.Hour, true, SeverityHigh},
	}

	for _, tc := range cases {
		got := AssessInactivity(now.Add(-tc.elapsed), now)
		if got.ShouldAlert != tc.wantAlert || got.Severity != tc.wantSeverity {
			t.Errorf("%s: AssessInactivity = {alert:%v severity:%s}, want {alert:%v severity:%s}",
				tc.name, got.ShouldAlert, got.Severity, tc.wantAlert, tc.wantSeverity)
		}
		if tc.wantAlert && got.Message == "" {
			t.Errorf("%s: alerting assessment has empty message", tc.name)
		}
		if !tc.wantAlert && got.Message != "" {
			t.Errorf("%s: non-alerting assessment has message %q", tc.name, got.Message)
		}
	}
}

func TestDetectIssuesStacksIndependently(t *testing.T) {
	overdue := now.Add(-1 * time.Hour)
	issues := DetectIssues(IssueSnapshot{
		LastActivity: now.Add(-80 * time.Hour),
		Stage:        StageNegotiation,
		NextFollowUp: &overdue,
		Score:        9,
	}, now)

	if len(issues) != 3 {
		t.Fatalf("DetectIssues returned %d issues, want 3: %+v", len(issues), issues)
	}

	byType := map[string]Issue{}
	for _, issue := range issues {
		byType[issue.Type] = issue
	}

	if byType[IssueStale].Severity != SeverityHigh {
		t.Errorf("stale severity = %s, want high", byType[IssueStale].Severity)
	}
	if byType[IssueOverdue].Severity != SeverityMedium {
		t.Errorf("overdue severity = %s, want medium", byType[IssueOverdue].Severity)
	}
	if byType[IssueHighPriority].Severity != SeverityHigh {
		t.Errorf("high_priority severity = %s, want high", byType[IssueHighPriority].Severity)
	}
}

func TestDetectIssuesHealthyLead(t *testing.T) {
	followUp := now.Add(24 * time.Hour)
	issues := DetectIssues(IssueSnapshot{
		LastActivity: now.Add(-2 * time.Hour),
		Stage:        StageContacted,
		NextFollowUp: &followUp,
		Score:        7,
	}, now)

	if len(issues) != 0 {
		t.Fatalf("DetectIssues = %+v, want none", issues)
	}
}

func TestDetectIssuesEdges(t *testing.T) {
	t.Run("score 8 outside negotiation is not high priority", func(t *testing.T) {
		issues := DetectIssues(IssueSnapshot{
			LastActivity: now.Add(-1 * time.Hour),
			Stage:        StageContacted,
			Score:        9,
		}, now)
		for _, issue := range issues {
			if issue.Type == IssueHighPriority {
				t.Fatal("unexpected high_priority issue outside Negotiation")
			}
		}
	})

	t.Run("score below 4 flags low engagement", func(t *testing.T) {
		issues := DetectIssues(IssueSnapshot{
			LastActivity: now.Add(-1 * time.Hour),
			Stage:        StageNewLead,
			Score:        3,
		}, now)
		if len(issues) != 1 || issues[0].Type != IssueLowEngagement {
			t.Fatalf("DetectIssues = %+v, want single low_engagement", issues)
		}
	})

	t.Run("future follow-up is not overdue", func(t *testing.T) {
		followUp := now.Add(time.Minute)
		issues := DetectIssues(IssueSnapshot{
			LastActivity: now.Add(-1 * time.Hour),
			Stage:        StageNewLead,
			NextFollowUp: &followUp,
			Score:        6,
		}, now)
		if len(issues) != 0 {
			t.Fatalf("DetectIssues = %+v, want none", issues)
		}
	})
}

func TestBuildManagerAlert(t *testing.T) {
	leadID := uuid.New()
	agentID := uuid.New()

	alert := BuildManagerAlert(leadID, agentID, Issue{
		Type:     IssueHighPriority,
		Severity: SeverityHigh,
		Message:  "High-priority lead in negotiation stage",
	})

	if alert.Title != "Lead Alert: high priority" {
		t.Errorf("Title = %q", alert.Title)
	}
	if alert.AlertType != IssueHighPriority || alert.Severity != SeverityHigh {
		t.Errorf("alert = %+v", alert)
	}
	if alert.LeadID != leadID || alert.AgentID != agentID {
		t.Error("alert lost routing identifiers")
	}
	if alert.Description != "High-priority lead in negotiation stage" {
		t.Errorf("Description = %q", alert.Description)
	}
}
