package models

import "time"

// JobPosting represents the job_postings table
type JobPosting struct {
	JobID          int     `gorm:"primaryKey;column:job_id" json:"job_id"`
	Title          string  `gorm:"column:title" json:"title"`
	Department     string  `gorm:"column:department" json:"department"`
	Location       string  `gorm:"column:location" json:"location"`
	EmploymentType string  `gorm:"column:employment_type;type:enum('full-time','part-time','contract','internship');default:'full-time'" json:"employment_type"`
	Description    *string `gorm:"column:description" json:"description"`
	Requirements   *string `gorm:"column:requirements" json:"requirements"`
	SalaryRange    *string `gorm:"column:salary_range" json:"salary_range,omitempty"`
	Openings       int     `gorm:"column:openings;default:1" json:"openings"`

	Status    string     `gorm:"column:status;type:enum('draft','open','closed');default:'draft'" json:"status"`
	CreatedBy int        `gorm:"column:created_by" json:"created_by"`
	CreateAt  time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt  time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Creator User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (JobPosting) TableName() string {
	return "job_postings"
}

// IsOpen reports whether the posting accepts new applications.
func (j *JobPosting) IsOpen() bool {
	return j.Status == "open"
}

// ===== Request DTOs =====

type JobPostingCreateRequest struct {
	Title          string  `json:"title" binding:"required"`
	Department     string  `json:"department" binding:"required"`
	Location       string  `json:"location" binding:"required"`
	EmploymentType string  `json:"employment_type" binding:"omitempty,oneof=full-time part-time contract internship"`
	Description    *string `json:"description"`
	Requirements   *string `json:"requirements"`
	SalaryRange    *string `json:"salary_range"`
	Openings       *int    `json:"openings"`
}

type JobPostingUpdateRequest struct {
	Title          *string `json:"title"`
	Department     *string `json:"department"`
	Location       *string `json:"location"`
	EmploymentType *string `json:"employment_type" binding:"omitempty,oneof=full-time part-time contract internship"`
	Description    *string `json:"description"`
	Requirements   *string `json:"requirements"`
	SalaryRange    *string `json:"salary_range"`
	Openings       *int    `json:"openings"`
	Status         *string `json:"status" binding:"omitempty,oneof=draft open closed"`
}
