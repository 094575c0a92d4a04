package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"aip-recruiter/config"
	"aip-recruiter/models"
	"aip-recruiter/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmitApplication is the public, unauthenticated apply endpoint. New
// applications always start in shortlisting.
func SubmitApplication(c *gin.Context) {
	var req models.PublicApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateEmail(req.CandidateEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate email"})
		return
	}

	var job models.JobPosting
	if err := config.DB.Where("job_id = ? AND delete_at IS NULL", req.JobID).
		First(&job).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job posting"})
		return
	}
	if !job.IsOpen() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This job is not accepting applications"})
		return
	}

	// One live application per candidate per job
	var existing int64
	config.DB.Model(&models.Application{}).
		Where("job_id = ? AND candidate_email = ? AND delete_at IS NULL", req.JobID, req.CandidateEmail).
		Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "An application for this job already exists for this email"})
		return
	}

	now := time.Now()
	application := models.Application{
		ApplicationNumber: generateApplicationNumber(),
		JobID:             req.JobID,
		CandidateName:     utils.SanitizeInput(req.CandidateName),
		CandidateEmail:    strings.ToLower(strings.TrimSpace(req.CandidateEmail)),
		CandidatePhone:    req.CandidatePhone,
		Stage:             models.StageShortlisting,
		StageEnteredAt:    now,
		AppliedAt:         now,
		CreateAt:          now,
		UpdateAt:          now,
	}

	if err := config.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":            "Application submitted successfully",
		"application_number": application.ApplicationNumber,
	})
}

// AddApplication creates an application on behalf of a candidate (staff only).
func AddApplication(c *gin.Context) {
	var req models.ManualAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var job models.JobPosting
	if err := config.DB.Where("job_id = ? AND delete_at IS NULL", req.JobID).
		First(&job).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job posting"})
		return
	}

	actorName, _ := c.Get("actorName")

	now := time.Now()
	application := models.Application{
		ApplicationNumber: generateApplicationNumber(),
		JobID:             req.JobID,
		CandidateName:     utils.SanitizeInput(req.CandidateName),
		CandidateEmail:    strings.ToLower(strings.TrimSpace(req.CandidateEmail)),
		CandidatePhone:    req.CandidatePhone,
		Stage:             models.StageShortlisting,
		StageEnteredAt:    now,
		AppliedAt:         now,
		CreateAt:          now,
		UpdateAt:          now,
	}

	if err := config.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add candidate"})
		return
	}

	text := "Candidate added manually"
	if strings.TrimSpace(req.Note) != "" {
		text += ": " + utils.SanitizeInput(req.Note)
	}
	comment := models.ApplicationComment{
		ApplicationID: application.ApplicationID,
		Text:          text,
		Author:        actorName.(string),
		Stage:         models.StageShortlisting,
		CreatedAt:     now,
	}
	if err := config.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record audit entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Candidate added successfully",
		"application": application.ToResponse(now),
	})
}

// GetApplicationsList returns the pipeline board contents with filters.
func GetApplicationsList(c *gin.Context) {
	var applications []models.Application
	query := config.DB.Preload("Job").Preload("Assignee").
		Where("applications.delete_at IS NULL")

	if stage := c.Query("stage"); stage != "" {
		parsed, err := models.ParseStage(stage)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown stage filter"})
			return
		}
		query = query.Where("stage = ?", parsed)
	}
	if jobID := c.Query("job_id"); jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}
	if c.Query("hot") == "true" {
		query = query.Where("is_hot_applicant = ?", true)
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		query = query.Where("assigned_to = ?", assignee)
	}

	if err := query.Order("applied_at DESC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	now := time.Now()
	responses := make([]models.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, applications[i].ToResponse(now))
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": responses,
		"total":        len(responses),
	})
}

// GetApplicationByID returns one application with its full comment log.
func GetApplicationByID(c *gin.Context) {
	id := c.Param("id")

	var application models.Application
	if err := config.DB.Preload("Job").Preload("Assignee").Preload("Resume").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("application_id = ? AND applications.delete_at IS NULL", id).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": application.ToResponse(time.Now()),
	})
}

// ToggleHotApplicant flips the hot flag; independent of stage.
func ToggleHotApplicant(c *gin.Context) {
	id := c.Param("id")

	var application models.Application
	if err := config.DB.Where("application_id = ? AND delete_at IS NULL", id).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	application.IsHotApplicant = !application.IsHotApplicant
	application.UpdateAt = time.Now()

	if err := config.DB.Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Hot flag updated",
		"is_hot_applicant": application.IsHotApplicant,
	})
}

// ReassignApplication explicitly changes who is responsible next, outside of
// a stage transition. The change is recorded in the comment log.
func ReassignApplication(c *gin.Context) {
	id := c.Param("id")

	var req models.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var application models.Application
	if err := config.DB.Where("application_id = ? AND delete_at IS NULL", id).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	var assignee models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.AssigneeID).
		First(&assignee).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee not found"})
		return
	}

	actorName, _ := c.Get("actorName")

	now := time.Now()
	application.AssignedTo = &req.AssigneeID
	application.UpdateAt = now

	text := fmt.Sprintf("Reassigned to %s", assignee.FullName())
	if strings.TrimSpace(req.Note) != "" {
		text += ": " + utils.SanitizeInput(req.Note)
	}
	comment := models.ApplicationComment{
		ApplicationID: application.ApplicationID,
		Text:          text,
		Author:        actorName.(string),
		Stage:         application.Stage,
		CreatedAt:     now,
	}

	if err := config.DB.Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reassign application"})
		return
	}
	if err := config.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record audit entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application reassigned",
		"assigned_to": req.AssigneeID,
	})
}

// AddComment appends a free-form note to the audit log.
func AddComment(c *gin.Context) {
	id := c.Param("id")

	var req models.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var application models.Application
	if err := config.DB.Where("application_id = ? AND delete_at IS NULL", id).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	actorName, _ := c.Get("actorName")

	comment := models.ApplicationComment{
		ApplicationID: application.ApplicationID,
		Text:          utils.SanitizeInput(req.Text),
		Author:        actorName.(string),
		Stage:         application.Stage,
		CreatedAt:     time.Now(),
	}

	if err := config.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added",
		"comment": comment,
	})
}

// GetComments returns the append-only audit log, oldest first.
func GetComments(c *gin.Context) {
	id := c.Param("id")

	var comments []models.ApplicationComment
	if err := config.DB.Where("application_id = ?", id).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"total":    len(comments),
	})
}

// generateApplicationNumber builds an opaque reference like APP-20250901-1a2b3c4d.
func generateApplicationNumber() string {
	dateStr := time.Now().Format("20060102")
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("APP-%s-%s", dateStr, suffix)
}
