package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestProposeReminderFreshnessGate(t *testing.T) {
	// Template exists but activity is no longer fresh.
	if got := ProposeReminder(StageContacted, now.Add(-90*time.Minute), now); got != nil {
		t.Fatalf("ProposeReminder past the window = %+v, want nil", got)
	}
	// Exactly one hour is outside the window.
	if got := ProposeReminder(StageContacted, now.Add(-time.Hour), now); got != nil {
		t.Fatalf("ProposeReminder at exactly 1h = %+v, want nil", got)
	}

	got := ProposeReminder(StageContacted, now.Add(-30*time.Minute), now)
	if got == nil {
		t.Fatal("ProposeReminder within the window = nil")
	}
	if !got.ShouldCreateReminder {
		t.Error("ShouldCreateReminder = false")
	}
	if got.ReminderType != ReminderTypeFollowUp || got.DueInHours != 24 {
		t.Errorf("proposal = %+v", got)
	}
	if got.Title != "Follow-up on initial contact" {
		t.Errorf("Title = %q", got.Title)
	}
}

func TestProposeReminderStageCoverage(t *testing.T) {
	fresh := now.Add(-5 * time.Minute)

	wantDue := map[string]int{
		StageNewLead:            4,
		StageContacted:          24,
		StageSiteVisitScheduled: 2,
		StageSiteVisitCompleted: 8,
		StageNegotiation:        48,
	}
	for stage, due := range wantDue {
		got := ProposeReminder(stage, fresh, now)
		if got == nil {
			t.Errorf("ProposeReminder(%q) = nil", stage)
			continue
		}
		if got.DueInHours != due {
			t.Errorf("ProposeReminder(%q).DueInHours = %d, want %d", stage, got.DueInHours, due)
		}
	}

	// Late, terminal and unknown stages have no gated rule.
	for _, stage := range []string{StageBookingInitiated, StageBookedClosed, StageLostDropped, "bogus"} {
		if got := ProposeReminder(stage, fresh, now); got != nil {
			t.Errorf("ProposeReminder(%q) = %+v, want nil", stage, got)
		}
	}
}

func TestStageAutomationCoversAllStagesIncludingTerminal(t *testing.T) {
	stages := append(append([]string{}, PipelineStages...), StageLostDropped)
	for _, stage := range stages {
		got := StageAutomation(stage, now)
		if got == nil {
			t.Errorf("StageAutomation(%q) = nil", stage)
			continue
		}
		if got.Reminder.IsCompleted {
			t.Errorf("StageAutomation(%q) produced a completed reminder", stage)
		}
		if got.Reminder.ID == uuid.Nil {
			t.Errorf("StageAutomation(%q) produced a nil reminder id", stage)
		}
		if !got.Reminder.CreatedAt.Equal(now) {
			t.Errorf("StageAutomation(%q).Reminder.CreatedAt = %v", stage, got.Reminder.CreatedAt)
		}
	}

	if got := StageAutomation("bogus", now); got != nil {
		t.Errorf("StageAutomation(bogus) = %+v, want nil", got)
	}
}

func TestStageAutomationReminderTypes(t *testing.T) {
	cases := []struct {
		stage    string
		wantType string
	}{
		{StageNewLead, ReminderTypeCall},
		{StageContacted, ReminderTypeFollowUp},
		{StageSiteVisitScheduled, ReminderTypeSiteVisit},
		{StageSiteVisitCompleted, ReminderTypeFollowUp},
		{StageNegotiation, ReminderTypeNegotiation},
		{StageBookingInitiated, ReminderTypeOther},
		{StageBookedClosed, ReminderTypeFollowUp},
		{StageLostDropped, ReminderTypeFollowUp},
	}

	for _, tc := range cases {
		got := StageAutomation(tc.stage, now)
		if got == nil {
			t.Fatalf("StageAutomation(%q) = nil", tc.stage)
		}
		if got.Reminder.Type != tc.wantType {
			t.Errorf("%s: reminder type = %q, want %q", tc.stage, got.Reminder.Type, tc.wantType)
		}
	}

	// The follow-up reminder appended on reaching Contacted must agree with
	// the gated proposal for the same stage.
	proposal := ProposeReminder(StageContacted, now.Add(-30*time.Minute), now)
	if proposal == nil {
		t.Fatal("ProposeReminder(Contacted) = nil")
	}
	if auto := StageAutomation(StageContacted, now); auto.Reminder.Type != proposal.ReminderType {
		t.Errorf("Contacted types diverge: automation %q vs proposal %q",
			auto.Reminder.Type, proposal.ReminderType)
	}
}

func TestStageAutomationFollowUpFormatting(t *testing.T) {
	cases := []struct {
		stage     string
		wantLabel string
		wantDate  string
		wantTime  string
	}{
		{StageNewLead, "Mar 10, 2026 (Today)", "Mar 10, 2026", "2:00 PM"}, // now 12:00 + 2h
		{StageContacted, "Mar 11, 2026 (Tomorrow)", "Mar 11, 2026", "12:00 PM"},
		{StageSiteVisitScheduled, "Mar 12, 2026", "Mar 12, 2026", "10:00 AM"},
		{StageBookingInitiated, "Mar 11, 2026", "Mar 11, 2026", "10:00 AM"},
		{StageBookedClosed, "Apr 9, 2026", "Apr 9, 2026", "3:00 PM"},
		{StageLostDropped, "Apr 9, 2026", "Apr 9, 2026", "2:00 PM"},
	}

	for _, tc := range cases {
		got := StageAutomation(tc.stage, now)
		if got == nil {
			t.Fatalf("StageAutomation(%q) = nil", tc.stage)
		}
		if got.NextFollowUpLabel != tc.wantLabel {
			t.Errorf("%s: label = %q, want %q", tc.stage, got.NextFollowUpLabel, tc.wantLabel)
		}
		if got.Reminder.DueDate != tc.wantDate {
			t.Errorf("%s: due date = %q, want %q", tc.stage, got.Reminder.DueDate, tc.wantDate)
		}
		if got.Reminder.DueTime != tc.wantTime {
			t.Errorf("%s: due time = %q, want %q", tc.stage, got.Reminder.DueTime, tc.wantTime)
		}
	}
}

func TestApplyStageAutomationAppendsWithoutMutating(t *testing.T) {
	existing := Reminder{ID: uuid.New(), Type: ReminderTypeCall, Title: "old"}
	lead := Lead{
		ID:        uuid.New(),
		Stage:     StageNegotiation,
		Reminders: []Reminder{existing},
	}

	updated := ApplyStageAutomation(lead, StageBookingInitiated, now)

	if lead.Stage != StageNegotiation || len(lead.Reminders) != 1 {
		t.Fatal("input lead was mutated")
	}
	if updated.Stage != StageBookingInitiated {
		t.Errorf("stage = %q", updated.Stage)
	}
	if len(updated.Reminders) != 2 {
		t.Fatalf("reminders = %d, want 2", len(updated.Reminders))
	}
	if updated.Reminders[0].ID != existing.ID {
		t.Error("prior reminder not preserved")
	}
	if updated.Reminders[1].Title != "Complete booking paperwork and documentation" {
		t.Errorf("appended reminder title = %q", updated.Reminders[1].Title)
	}
	if updated.NextFollowUp == nil || !updated.NextFollowUp.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("next follow-up = %v", updated.NextFollowUp)
	}
}

func TestApplyStageAutomationUnknownStageOnlyMovesStage(t *testing.T) {
	followUp := now.Add(time.Hour)
	lead := Lead{
		ID:                uuid.New(),
		Stage:             StageContacted,
		NextFollowUp:      &followUp,
		NextFollowUpLabel: "Mar 10, 2026",
		Reminders:         []Reminder{{ID: uuid.New()}},
	}

	updated := ApplyStageAutomation(lead, "Paused", now)

	if updated.Stage != "Paused" {
		t.Errorf("stage = %q", updated.Stage)
	}
	if len(updated.Reminders) != 1 {
		t.Errorf("reminders = %d, want 1", len(updated.Reminders))
	}
	if updated.NextFollowUp == nil || !updated.NextFollowUp.Equal(followUp) {
		t.Error("follow-up should be untouched when no automation exists")
	}
}
