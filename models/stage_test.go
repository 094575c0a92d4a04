package models

import "testing"

func TestParseStage(t *testing.T) {
	valid := []string{
		"shortlisting", "screening", "assignment-sent", "assignment-submitted",
		"interview", "offer-sent", "offer-accepted", "hired", "rejected",
	}
	for _, raw := range valid {
		got, err := ParseStage(raw)
		if err != nil {
			t.Errorf("ParseStage(%q): %v", raw, err)
		}
		if string(got) != raw {
			t.Errorf("ParseStage(%q) = %q", raw, got)
		}
	}

	for _, raw := range []string{"", "Screening", "phone-screen", "offer"} {
		if _, err := ParseStage(raw); err == nil {
			t.Errorf("ParseStage(%q): expected error", raw)
		}
	}
}

func TestStageOrdering(t *testing.T) {
	for i := range StageOrder {
		for j := range StageOrder {
			got := StageOrder[i].Before(StageOrder[j])
			if got != (i < j) {
				t.Errorf("%s.Before(%s) = %v", StageOrder[i], StageOrder[j], got)
			}
		}
	}
}

func TestRejectedHasNoOrderPosition(t *testing.T) {
	for _, s := range StageOrder {
		if StageRejected.Before(s) {
			t.Errorf("rejected.Before(%s) = true", s)
		}
		if s.Before(StageRejected) {
			t.Errorf("%s.Before(rejected) = true", s)
		}
	}
}

func TestTerminalStages(t *testing.T) {
	for _, s := range StageOrder {
		want := s == StageHired
		if s.IsTerminal() != want {
			t.Errorf("%s.IsTerminal() = %v", s, s.IsTerminal())
		}
	}
	if !StageRejected.IsTerminal() {
		t.Error("rejected.IsTerminal() = false")
	}
}

func TestStageLabels(t *testing.T) {
	cases := map[Stage]string{
		StageAssignmentSent:      "Assignment Sent",
		StageAssignmentSubmitted: "Assignment Submitted",
		StageOfferAccepted:       "Offer Accepted",
		StageRejected:            "Rejected",
	}
	for stage, want := range cases {
		if got := stage.Label(); got != want {
			t.Errorf("%s.Label() = %q, want %q", stage, got, want)
		}
	}
}
