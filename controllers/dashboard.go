package controllers

import (
	"net/http"
	"time"

	"aip-recruiter/config"
	"aip-recruiter/models"

	"github.com/gin-gonic/gin"
)

type stageCount struct {
	Stage models.Stage `json:"stage"`
	Count int64        `json:"count"`
}

// GetPipelineStats returns the per-stage board counts plus summary numbers.
func GetPipelineStats(c *gin.Context) {
	query := config.DB.Model(&models.Application{}).Where("delete_at IS NULL")
	if jobID := c.Query("job_id"); jobID != "" {
		query = query.Where("job_id = ?", jobID)
	}

	var rows []stageCount
	if err := query.Select("stage, COUNT(*) as count").
		Group("stage").Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pipeline stats"})
		return
	}

	counts := make(map[models.Stage]int64, len(rows))
	for _, row := range rows {
		counts[row.Stage] = row.Count
	}

	// Emit every stage, zero-filled, in board order with rejected last.
	stages := make([]stageCount, 0, len(models.StageOrder)+1)
	var total, active int64
	for _, s := range models.StageOrder {
		stages = append(stages, stageCount{Stage: s, Count: counts[s]})
		total += counts[s]
		if !s.IsTerminal() {
			active += counts[s]
		}
	}
	stages = append(stages, stageCount{Stage: models.StageRejected, Count: counts[models.StageRejected]})
	total += counts[models.StageRejected]

	var hot int64
	config.DB.Model(&models.Application{}).
		Where("delete_at IS NULL AND is_hot_applicant = ?", true).
		Count(&hot)

	c.JSON(http.StatusOK, gin.H{
		"stages":         stages,
		"total":          total,
		"active":         active,
		"hired":          counts[models.StageHired],
		"rejected":       counts[models.StageRejected],
		"hot_applicants": hot,
	})
}

// GetRecentActivity returns the latest audit entries across applications.
func GetRecentActivity(c *gin.Context) {
	var comments []models.ApplicationComment
	if err := config.DB.Order("created_at DESC").Limit(50).
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": comments,
		"total":    len(comments),
	})
}

// GetJobSummary returns per-job application counts for open postings.
func GetJobSummary(c *gin.Context) {
	type jobSummary struct {
		JobID        int    `json:"job_id"`
		Title        string `json:"title"`
		Department   string `json:"department"`
		Applications int64  `json:"applications"`
		Hired        int64  `json:"hired"`
	}

	var jobs []models.JobPosting
	if err := config.DB.Where("status = 'open' AND delete_at IS NULL").
		Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	summaries := make([]jobSummary, 0, len(jobs))
	for _, job := range jobs {
		var applied, hired int64
		config.DB.Model(&models.Application{}).
			Where("job_id = ? AND delete_at IS NULL", job.JobID).Count(&applied)
		config.DB.Model(&models.Application{}).
			Where("job_id = ? AND delete_at IS NULL AND stage = ?", job.JobID, models.StageHired).
			Count(&hired)
		summaries = append(summaries, jobSummary{
			JobID:        job.JobID,
			Title:        job.Title,
			Department:   job.Department,
			Applications: applied,
			Hired:        hired,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":         summaries,
		"generated_at": time.Now(),
	})
}
