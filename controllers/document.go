package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aip-recruiter/config"
	"aip-recruiter/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedDocumentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

func uploadBasePath() string {
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	return uploadPath
}

// UploadDocument attaches a resume, offer letter or assignment file to an
// application. Multipart fields: file, file_kind.
func UploadDocument(c *gin.Context) {
	applicationID := c.Param("id")
	userID, _ := c.Get("userID")

	var application models.Application
	if err := config.DB.Where("application_id = ? AND delete_at IS NULL", applicationID).
		First(&application).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	fileKind := c.PostForm("file_kind")
	switch fileKind {
	case "", "resume":
		fileKind = "resume"
	case "offer_letter", "assignment":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file kind"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Validate file size
	maxSize := int64(10 * 1024 * 1024) // 10MB
	if file.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 10MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}

	// Store under uploads/applications/<id>/ with an opaque name
	folder := filepath.Join(uploadBasePath(), "applications", applicationID)
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload directory"})
		return
	}

	storedName := uuid.NewString() + ext
	fullPath := filepath.Join(folder, storedName)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	uploaderID := userID.(int)
	now := time.Now()
	fileUpload := models.FileUpload{
		OriginalName: file.Filename,
		StoredPath:   fullPath,
		FileKind:     fileKind,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		IsPublic:     false,
		UploadedBy:   &uploaderID,
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}

	if err := config.DB.Create(&fileUpload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record file"})
		return
	}

	if fileKind == "resume" {
		application.ResumeFileID = &fileUpload.FileID
		application.UpdateAt = now
		if err := config.DB.Save(&application).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link resume"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    fileUpload,
	})
}

// DownloadDocument streams a stored file by id.
func DownloadDocument(c *gin.Context) {
	fileID := c.Param("file_id")

	var fileUpload models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&fileUpload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if _, err := os.Stat(fileUpload.StoredPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing from storage"})
		return
	}

	c.FileAttachment(fileUpload.StoredPath, fileUpload.OriginalName)
}

// DeleteDocument soft deletes a file record; the bytes stay on disk.
func DeleteDocument(c *gin.Context) {
	fileID := c.Param("file_id")

	var fileUpload models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&fileUpload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	now := time.Now()
	fileUpload.DeleteAt = &now

	if err := config.DB.Save(&fileUpload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
