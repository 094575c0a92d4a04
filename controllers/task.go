package controllers

import (
	"net/http"
	"time"

	"aip-recruiter/config"
	"aip-recruiter/models"

	"github.com/gin-gonic/gin"
)

// GetMyTasks returns the caller's task list, open tasks first.
func GetMyTasks(c *gin.Context) {
	userID, _ := c.Get("userID")

	var tasks []models.Task
	query := config.DB.Preload("Application").Preload("Application.Job").
		Where("assignee_id = ?", userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("status ASC, create_at DESC").Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// CompleteTask marks one of the caller's tasks as done.
func CompleteTask(c *gin.Context) {
	id := c.Param("id")
	userID, _ := c.Get("userID")

	var task models.Task
	if err := config.DB.Where("task_id = ? AND assignee_id = ?", id, userID).
		First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	if !task.IsOpen() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task is already done"})
		return
	}

	task.Status = "done"
	task.UpdateAt = time.Now()

	if err := config.DB.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task completed"})
}
