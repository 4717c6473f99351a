package domain

import "testing"

func TestSuggestNextStageWalksTheFunnel(t *testing.T) {
	cases := []struct {
		stage    string
		wantNext string
	}{
		{StageNewLead, StageContacted},
		{StageContacted, StageSiteVisitScheduled},
		{StageSiteVisitScheduled, StageSiteVisitCompleted},
		{StageSiteVisitCompleted, StageNegotiation},
		{StageNegotiation, StageBookingInitiated},
		{StageBookingInitiated, StageBookedClosed},
	}

	for _, tc := range cases {
		got := SuggestNextStage(tc.stage)
		if got == nil {
			t.Fatalf("SuggestNextStage(%q) = nil, want %q", tc.stage, tc.wantNext)
		}
		if got.NextStage != tc.wantNext {
			t.Errorf("SuggestNextStage(%q).NextStage = %q, want %q", tc.stage, got.NextStage, tc.wantNext)
		}
		if len(got.RequiredActions) != 3 {
			t.Errorf("SuggestNextStage(%q) has %d required actions, want 3", tc.stage, len(got.RequiredActions))
		}
		if got.EstimatedDuration == "" {
			t.Errorf("SuggestNextStage(%q) has empty estimated duration", tc.stage)
		}
	}
}

func TestSuggestNextStageTerminalAndUnknown(t *testing.T) {
	for _, stage := range []string{StageBookedClosed, StageLostDropped, "Cold Storage", ""} {
		if got := SuggestNextStage(stage); got != nil {
			t.Errorf("SuggestNextStage(%q) = %+v, want nil", stage, got)
		}
	}
}

func TestStageIndexAndProgress(t *testing.T) {
	if idx := StageIndex(StageNewLead); idx != 0 {
		t.Errorf("StageIndex(New Lead) = %d, want 0", idx)
	}
	if idx := StageIndex(StageBookedClosed); idx != len(PipelineStages)-1 {
		t.Errorf("StageIndex(Booked / Closed) = %d, want %d", idx, len(PipelineStages)-1)
	}
	if idx := StageIndex(StageLostDropped); idx != -1 {
		t.Errorf("StageIndex(Lost / Dropped) = %d, want -1", idx)
	}
	if p := StageProgress(StageBookedClosed); p != 1 {
		t.Errorf("StageProgress(Booked / Closed) = %v, want 1", p)
	}
	if p := StageProgress("bogus"); p != 0 {
		t.Errorf("StageProgress(bogus) = %v, want 0", p)
	}
}

func TestTerminalStages(t *testing.T) {
	if !IsTerminalStage(StageBookedClosed) || !IsTerminalStage(StageLostDropped) {
		t.Error("terminal stages not recognized")
	}
	for _, stage := range PipelineStages[:len(PipelineStages)-1] {
		if IsTerminalStage(stage) {
			t.Errorf("IsTerminalStage(%q) = true, want false", stage)
		}
	}
	if IsKnownStage("Mystery") {
		t.Error("IsKnownStage(Mystery) = true, want false")
	}
}
