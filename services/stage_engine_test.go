package services

import (
	"errors"
	"testing"
	"time"

	"aip-recruiter/models"
)

var testTime = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *StageEngine {
	t.Helper()
	timeNow = func() time.Time { return testTime }
	t.Cleanup(func() { timeNow = time.Now })
	return NewStageEngine(DefaultTransitionPolicy())
}

func newTestApplication(stage models.Stage) models.Application {
	return models.Application{
		ApplicationID:  41,
		JobID:          7,
		CandidateName:  "Asha Verma",
		CandidateEmail: "asha@example.com",
		Stage:          stage,
		StageEnteredAt: testTime.Add(-48 * time.Hour),
		AppliedAt:      testTime.Add(-96 * time.Hour),
		Job:            models.JobPosting{JobID: 7, Title: "Backend Engineer"},
	}
}

func intPtr(v int) *int { return &v }

func TestForwardTransitionsToLaterStages(t *testing.T) {
	engine := newTestEngine(t)

	for i, from := range models.StageOrder {
		if from.IsTerminal() {
			continue
		}
		for _, to := range models.StageOrder[i+1:] {
			app := newTestApplication(from)
			got, _, err := engine.RequestTransition(app, to, TransitionContext{
				ActorName:  "Priya",
				AssigneeID: intPtr(9),
			})
			if err != nil {
				t.Fatalf("%s -> %s: unexpected error %v", from, to, err)
			}
			if got.Stage != to {
				t.Errorf("%s -> %s: stage = %s", from, to, got.Stage)
			}
			if got.StageEnteredAt != testTime {
				t.Errorf("%s -> %s: stage_entered_at not reset", from, to)
			}
		}
	}
}

func TestBackwardMoveRequiresRevert(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageInterview)
	_, _, err := engine.RequestTransition(app, models.StageScreening, TransitionContext{
		ActorName:  "Priya",
		AssigneeID: intPtr(9),
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestSameStageTransitionRejected(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageScreening)
	_, _, err := engine.RequestTransition(app, models.StageScreening, TransitionContext{
		ActorName:  "Priya",
		AssigneeID: intPtr(9),
	})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestTerminalStagesAreAbsorbing(t *testing.T) {
	engine := newTestEngine(t)

	allStages := append(append([]models.Stage{}, models.StageOrder...), models.StageRejected)

	for _, from := range []models.Stage{models.StageHired, models.StageRejected} {
		for _, to := range allStages {
			if to == from {
				continue
			}
			app := newTestApplication(from)
			_, _, err := engine.RequestTransition(app, to, TransitionContext{
				ActorName:  "Priya",
				Reason:     "any",
				AssigneeID: intPtr(9),
			})
			if !errors.Is(err, ErrTerminalStateViolation) {
				t.Errorf("%s -> %s: err = %v, want ErrTerminalStateViolation", from, to, err)
			}
		}
	}
}

func TestUnknownTargetStage(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageScreening)
	_, _, err := engine.RequestTransition(app, models.Stage("phone-screen"), TransitionContext{ActorName: "Priya"})
	if !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("err = %v, want ErrInvalidStage", err)
	}
}

func TestRejectionRequiresReason(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageInterview)
	got, _, err := engine.RequestTransition(app, models.StageRejected, TransitionContext{
		ActorName: "Priya",
		Reason:    "   ",
	})
	if !errors.Is(err, ErrMissingReason) {
		t.Fatalf("err = %v, want ErrMissingReason", err)
	}
	if got.Stage != models.StageInterview {
		t.Errorf("application mutated on failed transition: stage = %s", got.Stage)
	}
}

func TestMissingAssignee(t *testing.T) {
	engine := newTestEngine(t)

	// interview is configured to require a responsible party
	app := newTestApplication(models.StageShortlisting)
	_, _, err := engine.RequestTransition(app, models.StageInterview, TransitionContext{ActorName: "Priya"})
	if !errors.Is(err, ErrMissingAssignee) {
		t.Fatalf("err = %v, want ErrMissingAssignee", err)
	}
}

func TestExistingAssigneeSatisfiesRequirement(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageShortlisting)
	app.AssignedTo = intPtr(12)

	got, effects, err := engine.RequestTransition(app, models.StageInterview, TransitionContext{ActorName: "Priya"})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.AssignedTo == nil || *got.AssignedTo != 12 {
		t.Errorf("assigned_to dropped during transition")
	}

	task := findTaskEffect(t, effects)
	if task.AssigneeID != 12 {
		t.Errorf("task assignee = %d, want 12", task.AssigneeID)
	}
}

func TestTransitionAppendsExactlyOneComment(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageShortlisting)
	ctx := TransitionContext{ActorName: "Priya", AssigneeID: intPtr(9)}

	steps := []models.Stage{
		models.StageScreening,
		models.StageAssignmentSent,
		models.StageInterview,
		models.StageOfferSent,
	}
	for i, target := range steps {
		var err error
		app, _, err = engine.RequestTransition(app, target, ctx)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, target, err)
		}
		if len(app.Comments) != i+1 {
			t.Fatalf("after %d transitions comments = %d", i+1, len(app.Comments))
		}
		last := app.Comments[len(app.Comments)-1]
		if last.Author != "Priya" || last.Stage != target {
			t.Errorf("comment entry = %+v", last)
		}
	}
}

func TestEngineDoesNotMutateInput(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageShortlisting)
	app.Comments = []models.ApplicationComment{{Text: "Candidate added manually", Stage: models.StageShortlisting}}

	_, _, err := engine.RequestTransition(app, models.StageScreening, TransitionContext{
		ActorName:  "Priya",
		AssigneeID: intPtr(9),
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if app.Stage != models.StageShortlisting {
		t.Errorf("input stage mutated to %s", app.Stage)
	}
	if len(app.Comments) != 1 {
		t.Errorf("input comment log mutated, len = %d", len(app.Comments))
	}
}

func TestScreeningTransitionEffects(t *testing.T) {
	engine := newTestEngine(t)

	// Scenario: shortlisting -> screening with Priya acting and Raj assigned
	app := newTestApplication(models.StageShortlisting)
	got, effects, err := engine.RequestTransition(app, models.StageScreening, TransitionContext{
		ActorName:  "Priya",
		AssigneeID: intPtr(9),
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.Stage != models.StageScreening {
		t.Errorf("stage = %s", got.Stage)
	}
	if got.AssignedTo == nil || *got.AssignedTo != 9 {
		t.Errorf("assigned_to = %v, want 9", got.AssignedTo)
	}
	if len(effects) != 2 {
		t.Fatalf("effects = %d, want 2", len(effects))
	}

	notif := findNotificationEffect(t, effects)
	if notif.TemplateKey != TemplateScreeningInvite {
		t.Errorf("template = %s", notif.TemplateKey)
	}
	if notif.RecipientEmail != "asha@example.com" {
		t.Errorf("recipient = %s", notif.RecipientEmail)
	}
	if notif.TemplateData["job_title"] != "Backend Engineer" {
		t.Errorf("template data = %v", notif.TemplateData)
	}

	task := findTaskEffect(t, effects)
	if task.AssigneeID != 9 || task.ApplicationID != 41 {
		t.Errorf("task effect = %+v", task)
	}
}

func TestRejectionSetsReasonAndDate(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageInterview)
	got, effects, err := engine.RequestTransition(app, models.StageRejected, TransitionContext{
		ActorName: "Priya",
		Reason:    "Failed technical round",
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.Stage != models.StageRejected {
		t.Errorf("stage = %s", got.Stage)
	}
	if got.RejectionReason == nil || *got.RejectionReason != "Failed technical round" {
		t.Errorf("rejection_reason = %v", got.RejectionReason)
	}
	if got.RejectionDate == nil || !got.RejectionDate.Equal(testTime) {
		t.Errorf("rejection_date = %v", got.RejectionDate)
	}

	if len(effects) != 1 {
		t.Fatalf("effects = %d, want 1", len(effects))
	}
	notif := findNotificationEffect(t, effects)
	if notif.TemplateKey != TemplateRejection {
		t.Errorf("template = %s", notif.TemplateKey)
	}
	if notif.TemplateData["reason"] != "Failed technical round" {
		t.Errorf("template data = %v", notif.TemplateData)
	}
}

func TestRevertToEarlierStage(t *testing.T) {
	engine := newTestEngine(t)

	// offer-sent -> interview is earlier, allowed for a regular actor
	app := newTestApplication(models.StageOfferSent)
	got, _, err := engine.RevertStage(app, models.StageInterview, TransitionContext{
		ActorName:  "Admin",
		Reason:     "Candidate requested renegotiation",
		AssigneeID: intPtr(9),
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.Stage != models.StageInterview {
		t.Errorf("stage = %s", got.Stage)
	}
	last := got.Comments[len(got.Comments)-1]
	if last.Text != "Reverted to Interview: Candidate requested renegotiation" {
		t.Errorf("revert comment = %q", last.Text)
	}
}

func TestRevertToLaterStageFailsForRegularActor(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageScreening)
	_, _, err := engine.RevertStage(app, models.StageInterview, TransitionContext{
		ActorName: "Admin",
		Reason:    "moving forward",
	})
	if !errors.Is(err, ErrInvalidRevertTarget) {
		t.Fatalf("err = %v, want ErrInvalidRevertTarget", err)
	}
}

func TestSuperAdminRevertIgnoresOrder(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageScreening)
	got, _, err := engine.RevertStage(app, models.StageOfferSent, TransitionContext{
		ActorName:  "Root",
		Reason:     "correcting a data-entry mistake",
		SuperAdmin: true,
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.Stage != models.StageOfferSent {
		t.Errorf("stage = %s", got.Stage)
	}
}

func TestRevertNeverTargetsTerminalStages(t *testing.T) {
	engine := newTestEngine(t)

	for _, target := range []models.Stage{models.StageHired, models.StageRejected} {
		for _, super := range []bool{false, true} {
			app := newTestApplication(models.StageOfferSent)
			_, _, err := engine.RevertStage(app, target, TransitionContext{
				ActorName:  "Root",
				Reason:     "any",
				SuperAdmin: super,
			})
			if !errors.Is(err, ErrInvalidRevertTarget) {
				t.Errorf("revert to %s (super=%v): err = %v, want ErrInvalidRevertTarget", target, super, err)
			}
		}
	}
}

func TestRevertOutOfTerminalStagesDisallowed(t *testing.T) {
	engine := newTestEngine(t)

	for _, from := range []models.Stage{models.StageHired, models.StageRejected} {
		app := newTestApplication(from)
		_, _, err := engine.RevertStage(app, models.StageScreening, TransitionContext{
			ActorName:  "Root",
			Reason:     "any",
			AssigneeID: intPtr(9),
			SuperAdmin: true,
		})
		if !errors.Is(err, ErrTerminalStateViolation) {
			t.Errorf("revert out of %s: err = %v, want ErrTerminalStateViolation", from, err)
		}
	}
}

func TestRevertRequiresReason(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageOfferSent)
	_, _, err := engine.RevertStage(app, models.StageInterview, TransitionContext{ActorName: "Admin"})
	if !errors.Is(err, ErrMissingReason) {
		t.Fatalf("err = %v, want ErrMissingReason", err)
	}
}

func TestRejectApplicationWrapper(t *testing.T) {
	engine := newTestEngine(t)

	app := newTestApplication(models.StageScreening)
	got, _, err := engine.RejectApplication(app, "Position filled", "Priya")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.Stage != models.StageRejected {
		t.Errorf("stage = %s", got.Stage)
	}

	// Second rejection is an explicit error, not a silent overwrite
	_, _, err = engine.RejectApplication(got, "Another reason", "Priya")
	if !errors.Is(err, ErrAlreadyRejected) {
		t.Fatalf("err = %v, want ErrAlreadyRejected", err)
	}
	if got.RejectionReason == nil || *got.RejectionReason != "Position filled" {
		t.Errorf("rejection reason overwritten: %v", got.RejectionReason)
	}
}

func findNotificationEffect(t *testing.T, effects []Effect) SendNotificationEffect {
	t.Helper()
	for _, e := range effects {
		if n, ok := e.(SendNotificationEffect); ok {
			return n
		}
	}
	t.Fatal("no SendNotificationEffect emitted")
	return SendNotificationEffect{}
}

func findTaskEffect(t *testing.T, effects []Effect) CreateTaskEffect {
	t.Helper()
	for _, e := range effects {
		if task, ok := e.(CreateTaskEffect); ok {
			return task
		}
	}
	t.Fatal("no CreateTaskEffect emitted")
	return CreateTaskEffect{}
}
