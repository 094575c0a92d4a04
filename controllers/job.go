package controllers

import (
	"net/http"
	"time"

	"aip-recruiter/config"
	"aip-recruiter/models"

	"github.com/gin-gonic/gin"
)

// GetOpenJobs returns open postings for the public careers page.
func GetOpenJobs(c *gin.Context) {
	var jobs []models.JobPosting
	query := config.DB.Where("status = 'open' AND delete_at IS NULL")

	if dept := c.Query("department"); dept != "" {
		query = query.Where("department = ?", dept)
	}

	if err := query.Order("create_at DESC").Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJobs returns all postings for staff, any status
func GetJobs(c *gin.Context) {
	var jobs []models.JobPosting
	query := config.DB.Preload("Creator").Where("delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if dept := c.Query("department"); dept != "" {
		query = query.Where("department = ?", dept)
	}

	if err := query.Order("create_at DESC").Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJob returns single posting by ID
func GetJob(c *gin.Context) {
	id := c.Param("id")

	var job models.JobPosting
	if err := config.DB.Preload("Creator").
		Where("job_id = ? AND delete_at IS NULL", id).
		First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job})
}

// CreateJob creates a new job posting (admin only)
func CreateJob(c *gin.Context) {
	var req models.JobPostingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	now := time.Now()
	job := models.JobPosting{
		Title:          req.Title,
		Department:     req.Department,
		Location:       req.Location,
		EmploymentType: "full-time",
		Description:    req.Description,
		Requirements:   req.Requirements,
		SalaryRange:    req.SalaryRange,
		Openings:       1,
		Status:         "draft",
		CreatedBy:      userID.(int),
		CreateAt:       now,
		UpdateAt:       now,
	}
	if req.EmploymentType != "" {
		job.EmploymentType = req.EmploymentType
	}
	if req.Openings != nil && *req.Openings > 0 {
		job.Openings = *req.Openings
	}

	if err := config.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Job created successfully",
		"job":     job,
	})
}

// UpdateJob updates an existing posting (admin only)
func UpdateJob(c *gin.Context) {
	id := c.Param("id")

	var req models.JobPostingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var job models.JobPosting
	if err := config.DB.Where("job_id = ? AND delete_at IS NULL", id).
		First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Department != nil {
		job.Department = *req.Department
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.EmploymentType != nil {
		job.EmploymentType = *req.EmploymentType
	}
	if req.Description != nil {
		job.Description = req.Description
	}
	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	if req.SalaryRange != nil {
		job.SalaryRange = req.SalaryRange
	}
	if req.Openings != nil && *req.Openings > 0 {
		job.Openings = *req.Openings
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	job.UpdateAt = time.Now()

	if err := config.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Job updated successfully",
		"job":     job,
	})
}

// DeleteJob soft deletes a posting (admin only)
func DeleteJob(c *gin.Context) {
	id := c.Param("id")

	var job models.JobPosting
	if err := config.DB.Where("job_id = ? AND delete_at IS NULL", id).
		First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	// Postings with live candidates must be closed, not deleted
	var active int64
	config.DB.Model(&models.Application{}).
		Where("job_id = ? AND delete_at IS NULL AND stage NOT IN ?", job.JobID,
			[]models.Stage{models.StageHired, models.StageRejected}).
		Count(&active)
	if active > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete a job with active applications"})
		return
	}

	now := time.Now()
	job.DeleteAt = &now

	if err := config.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
