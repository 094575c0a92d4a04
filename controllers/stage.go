package controllers

import (
	"errors"
	"net/http"
	"time"

	"aip-recruiter/config"
	"aip-recruiter/middleware"
	"aip-recruiter/models"
	"aip-recruiter/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// stageEngine is the single owner of the transition rules; no handler writes
// the stage column directly.
var stageEngine = services.NewStageEngine(services.DefaultTransitionPolicy())

// TransitionApplication moves an application forward in the pipeline.
// POST /applications/:id/transition
func TransitionApplication(c *gin.Context) {
	var req models.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := models.ParseStage(req.TargetStage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target stage"})
		return
	}

	runStageChange(c, func(app models.Application, ctx services.TransitionContext) (models.Application, []services.Effect, error) {
		ctx.Reason = req.Reason
		ctx.AssigneeID = req.AssigneeID
		return stageEngine.RequestTransition(app, target, ctx)
	})
}

// RevertApplicationStage moves an application backward.
// POST /applications/:id/revert
func RevertApplicationStage(c *gin.Context) {
	var req models.RevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := models.ParseStage(req.TargetStage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown target stage"})
		return
	}

	runStageChange(c, func(app models.Application, ctx services.TransitionContext) (models.Application, []services.Effect, error) {
		ctx.Reason = req.Reason
		return stageEngine.RevertStage(app, target, ctx)
	})
}

// RejectApplicationStage rejects a candidate from any non-terminal stage.
// POST /applications/:id/reject
func RejectApplicationStage(c *gin.Context) {
	var req models.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runStageChange(c, func(app models.Application, ctx services.TransitionContext) (models.Application, []services.Effect, error) {
		return stageEngine.RejectApplication(app, req.Reason, ctx.ActorName)
	})
}

// runStageChange loads the application, runs the pure engine computation,
// persists the mutation first and only then executes effects. Effect failures
// come back as warnings on a 200 response: the stage change is authoritative
// once validated, effect delivery is best-effort and independently retryable.
func runStageChange(c *gin.Context, change func(models.Application, services.TransitionContext) (models.Application, []services.Effect, error)) {
	id := c.Param("id")

	var application models.Application
	if err := config.DB.Preload("Job").
		Where("application_id = ? AND applications.delete_at IS NULL", id).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	actorName, _ := c.Get("actorName")
	name, _ := actorName.(string)
	ctx := services.TransitionContext{
		ActorName:  name,
		SuperAdmin: middleware.IsSuperAdmin(c),
	}

	updated, effects, err := change(application, ctx)
	if err != nil {
		status, message := stageErrorResponse(err)
		c.JSON(status, gin.H{"error": message})
		return
	}

	// Persist the stage mutation and the new audit entry together. The new
	// comment is always the last element; earlier entries are already stored.
	newComment := updated.Comments[len(updated.Comments)-1]
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Application{}).
			Where("application_id = ?", updated.ApplicationID).
			Updates(map[string]interface{}{
				"stage":            updated.Stage,
				"stage_entered_at": updated.StageEnteredAt,
				"assigned_to":      updated.AssignedTo,
				"rejection_reason": updated.RejectionReason,
				"rejection_date":   updated.RejectionDate,
				"update_at":        updated.UpdateAt,
			}).Error; err != nil {
			return err
		}
		return tx.Create(&newComment).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save stage change"})
		return
	}

	warnings := services.ExecuteEffects(config.DB, effects)

	response := gin.H{
		"message":     "Stage updated successfully",
		"application": updated.ToResponse(time.Now()),
	}
	if len(warnings) > 0 {
		response["warnings"] = warnings
	}
	c.JSON(http.StatusOK, response)
}

// stageErrorResponse maps engine validation errors to specific user-facing
// messages; none of them fall through to a generic 500.
func stageErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidStage):
		return http.StatusBadRequest, "Unknown target stage"
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusBadRequest, "Target stage must be later in the pipeline; use revert for backward moves"
	case errors.Is(err, services.ErrTerminalStateViolation):
		return http.StatusConflict, "Application is in a terminal stage and cannot be moved"
	case errors.Is(err, services.ErrMissingReason):
		return http.StatusBadRequest, "Please provide a reason"
	case errors.Is(err, services.ErrMissingAssignee):
		return http.StatusBadRequest, "Please name a responsible assignee for this stage"
	case errors.Is(err, services.ErrInvalidRevertTarget):
		return http.StatusBadRequest, "Revert target must be an earlier, non-terminal stage"
	case errors.Is(err, services.ErrAlreadyRejected):
		return http.StatusConflict, "Application is already rejected"
	}
	return http.StatusBadRequest, err.Error()
}
