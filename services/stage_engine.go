package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aip-recruiter/models"
)

// Engine validation errors. All are anticipated input conditions returned to
// the caller; none should reach a generic recovery path.
var (
	ErrInvalidStage           = errors.New("target stage is not a known pipeline stage")
	ErrInvalidTransition      = errors.New("target stage must be later in the pipeline; use revert for backward moves")
	ErrTerminalStateViolation = errors.New("application is in a terminal stage and cannot move forward")
	ErrMissingReason          = errors.New("a reason is required for this stage change")
	ErrMissingAssignee        = errors.New("this stage requires a responsible assignee")
	ErrInvalidRevertTarget    = errors.New("revert target must be an earlier, non-terminal stage")
	ErrAlreadyRejected        = errors.New("application is already rejected")
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// TransitionContext carries who is acting and why.
type TransitionContext struct {
	ActorName  string
	Reason     string
	AssigneeID *int

	// SuperAdmin loosens the strictly-earlier rule for reverts. It never
	// permits leaving or entering a terminal stage.
	SuperAdmin bool
}

// Effect is a side-effect descriptor produced by a transition. The engine
// never performs effects itself; callers persist the stage change first and
// then execute effects best-effort (see ExecuteEffects).
type Effect interface {
	effect()
}

// SendNotificationEffect asks the notification dispatcher to send a templated
// email about the application.
type SendNotificationEffect struct {
	TemplateKey    string
	ApplicationID  int
	RecipientEmail string
	TemplateData   map[string]string
}

// CreateTaskEffect asks the task service to record who must act next.
type CreateTaskEffect struct {
	ApplicationID int
	AssigneeID    int
	StageLabel    string
	Notes         string
}

func (SendNotificationEffect) effect() {}
func (CreateTaskEffect) effect()       {}

// Template keys consumed by the notification dispatcher.
const (
	TemplateScreeningInvite = "screening_invite"
	TemplateInterviewInvite = "interview_invite"
	TemplateOfferSent       = "offer_sent"
	TemplateRejection       = "rejection"
)

// TransitionPolicy is the configuration table deciding which stages require a
// named responsible party and which stage entries trigger a candidate email.
type TransitionPolicy struct {
	AssigneeRequired map[models.Stage]bool
	NotifyTemplates  map[models.Stage]string
}

// DefaultTransitionPolicy returns the product defaults: screening, the
// assignment round and interviews need someone on the hook, and the candidate
// is emailed on screening, interview, offer and rejection.
func DefaultTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{
		AssigneeRequired: map[models.Stage]bool{
			models.StageScreening:      true,
			models.StageAssignmentSent: true,
			models.StageInterview:      true,
		},
		NotifyTemplates: map[models.Stage]string{
			models.StageScreening: TemplateScreeningInvite,
			models.StageInterview: TemplateInterviewInvite,
			models.StageOfferSent: TemplateOfferSent,
			models.StageRejected:  TemplateRejection,
		},
	}
}

// StageEngine validates and executes stage changes for one application. It is
// pure: input application + request in, new application value + effects out.
// It holds no DB handle and no mutable state beyond its policy.
type StageEngine struct {
	policy TransitionPolicy
}

func NewStageEngine(policy TransitionPolicy) *StageEngine {
	return &StageEngine{policy: policy}
}

// RequestTransition performs a forward move to target, or into rejected from
// any non-terminal stage. On success it returns the updated application value
// with exactly one appended audit comment, plus the effect descriptors for
// the entered stage. The input application is not modified.
func (e *StageEngine) RequestTransition(app models.Application, target models.Stage, ctx TransitionContext) (models.Application, []Effect, error) {
	if !target.IsValid() {
		return app, nil, ErrInvalidStage
	}

	if app.Stage.IsTerminal() {
		if app.Stage == models.StageRejected && target == models.StageRejected {
			return app, nil, ErrAlreadyRejected
		}
		return app, nil, ErrTerminalStateViolation
	}

	if target == models.StageRejected {
		if strings.TrimSpace(ctx.Reason) == "" {
			return app, nil, ErrMissingReason
		}
	} else if !app.Stage.Before(target) {
		return app, nil, ErrInvalidTransition
	}

	assignee, err := e.resolveAssignee(app, target, ctx)
	if err != nil {
		return app, nil, err
	}

	now := timeNow()
	next := app
	next.Stage = target
	next.StageEnteredAt = now
	next.UpdateAt = now
	if ctx.AssigneeID != nil {
		next.AssignedTo = ctx.AssigneeID
	}

	summary := fmt.Sprintf("Moved to %s", target.Label())
	if target == models.StageRejected {
		reason := strings.TrimSpace(ctx.Reason)
		next.RejectionReason = &reason
		next.RejectionDate = &now
		summary = "Rejected"
	}

	next.Comments = appendComment(app, models.ApplicationComment{
		ApplicationID: app.ApplicationID,
		Text:          withReason(summary, ctx.Reason),
		Author:        ctx.ActorName,
		Stage:         target,
		CreatedAt:     now,
	})

	return next, e.stageEffects(next, target, assignee, ctx.Reason), nil
}

// RevertStage moves an application backward. Regular actors may only target a
// stage strictly earlier than the current one; super admins may target any
// non-terminal stage regardless of order. Terminal stages are never valid
// revert targets and terminal applications are never revertible.
func (e *StageEngine) RevertStage(app models.Application, target models.Stage, ctx TransitionContext) (models.Application, []Effect, error) {
	if !target.IsValid() {
		return app, nil, ErrInvalidStage
	}
	if strings.TrimSpace(ctx.Reason) == "" {
		return app, nil, ErrMissingReason
	}
	if target.IsTerminal() {
		return app, nil, ErrInvalidRevertTarget
	}
	if app.Stage.IsTerminal() {
		return app, nil, ErrTerminalStateViolation
	}
	if target == app.Stage {
		return app, nil, ErrInvalidRevertTarget
	}
	if !ctx.SuperAdmin && !target.Before(app.Stage) {
		return app, nil, ErrInvalidRevertTarget
	}

	assignee, err := e.resolveAssignee(app, target, ctx)
	if err != nil {
		return app, nil, err
	}

	now := timeNow()
	next := app
	next.Stage = target
	next.StageEnteredAt = now
	next.UpdateAt = now
	if ctx.AssigneeID != nil {
		next.AssignedTo = ctx.AssigneeID
	}

	// Tagged so the audit trail is unambiguous about direction.
	next.Comments = appendComment(app, models.ApplicationComment{
		ApplicationID: app.ApplicationID,
		Text:          withReason(fmt.Sprintf("Reverted to %s", target.Label()), ctx.Reason),
		Author:        ctx.ActorName,
		Stage:         target,
		CreatedAt:     now,
	})

	return next, e.stageEffects(next, target, assignee, ctx.Reason), nil
}

// RejectApplication is the convenience wrapper over RequestTransition into
// rejected. Rejecting an already-rejected application fails with
// ErrAlreadyRejected rather than silently overwriting the recorded reason.
func (e *StageEngine) RejectApplication(app models.Application, reason, actorName string) (models.Application, []Effect, error) {
	if app.Stage == models.StageRejected {
		return app, nil, ErrAlreadyRejected
	}
	return e.RequestTransition(app, models.StageRejected, TransitionContext{
		ActorName: actorName,
		Reason:    reason,
	})
}

// resolveAssignee returns who must act in the target stage, or
// ErrMissingAssignee when the stage requires one and neither the context nor
// the application names anyone. A zero id means no task is needed.
func (e *StageEngine) resolveAssignee(app models.Application, target models.Stage, ctx TransitionContext) (int, error) {
	if !e.policy.AssigneeRequired[target] {
		if ctx.AssigneeID != nil {
			return *ctx.AssigneeID, nil
		}
		return 0, nil
	}
	if ctx.AssigneeID != nil {
		return *ctx.AssigneeID, nil
	}
	if app.AssignedTo != nil {
		return *app.AssignedTo, nil
	}
	return 0, ErrMissingAssignee
}

func (e *StageEngine) stageEffects(app models.Application, target models.Stage, assignee int, reason string) []Effect {
	var effects []Effect

	if key, ok := e.policy.NotifyTemplates[target]; ok {
		data := map[string]string{
			"candidate_name": app.CandidateName,
			"stage":          target.Label(),
		}
		if app.Job.Title != "" {
			data["job_title"] = app.Job.Title
		}
		if target == models.StageRejected {
			data["reason"] = strings.TrimSpace(reason)
		}
		effects = append(effects, SendNotificationEffect{
			TemplateKey:    key,
			ApplicationID:  app.ApplicationID,
			RecipientEmail: app.CandidateEmail,
			TemplateData:   data,
		})
	}

	if e.policy.AssigneeRequired[target] && assignee != 0 {
		effects = append(effects, CreateTaskEffect{
			ApplicationID: app.ApplicationID,
			AssigneeID:    assignee,
			StageLabel:    target.Label(),
			Notes:         fmt.Sprintf("%s is waiting on you in %s", app.CandidateName, target.Label()),
		})
	}

	return effects
}

// appendComment copies the comment log before appending so the input
// application's slice is never shared with the result.
func appendComment(app models.Application, entry models.ApplicationComment) []models.ApplicationComment {
	comments := make([]models.ApplicationComment, 0, len(app.Comments)+1)
	comments = append(comments, app.Comments...)
	return append(comments, entry)
}

func withReason(summary, reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return summary
	}
	return summary + ": " + reason
}
