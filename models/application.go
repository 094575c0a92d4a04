package models

import "time"

// Application represents the applications table: one candidate's submission
// against one job posting. The stage field is mutated exclusively through the
// stage engine in services; handlers never write it directly.
type Application struct {
	ApplicationID     int    `gorm:"primaryKey;column:application_id" json:"application_id"`
	ApplicationNumber string `gorm:"column:application_number;unique" json:"application_number"`
	JobID             int    `gorm:"column:job_id" json:"job_id"`

	CandidateName  string  `gorm:"column:candidate_name" json:"candidate_name"`
	CandidateEmail string  `gorm:"column:candidate_email" json:"candidate_email"`
	CandidatePhone *string `gorm:"column:candidate_phone" json:"candidate_phone,omitempty"`
	ResumeFileID   *int    `gorm:"column:resume_file_id" json:"resume_file_id,omitempty"`

	Stage          Stage     `gorm:"column:stage;type:varchar(32)" json:"stage"`
	StageEnteredAt time.Time `gorm:"column:stage_entered_at" json:"stage_entered_at"`
	AppliedAt      time.Time `gorm:"column:applied_at" json:"applied_at"`

	// AIScore is advisory, written by the external scoring job only.
	AIScore *float64 `gorm:"column:ai_score" json:"ai_score,omitempty"`

	AssignedTo     *int `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	IsHotApplicant bool `gorm:"column:is_hot_applicant" json:"is_hot_applicant"`

	RejectionReason *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	RejectionDate   *time.Time `gorm:"column:rejection_date" json:"rejection_date,omitempty"`

	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Job      JobPosting           `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Assignee *User                `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Resume   *FileUpload          `gorm:"foreignKey:ResumeFileID" json:"resume,omitempty"`
	Comments []ApplicationComment `gorm:"foreignKey:ApplicationID" json:"comments,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// ApplicationComment is the append-only audit trail. Every stage transition
// appends exactly one entry; entries are never updated, deleted or reordered.
type ApplicationComment struct {
	CommentID     int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	ApplicationID int       `gorm:"column:application_id" json:"application_id"`
	Text          string    `gorm:"column:text" json:"text"`
	Author        string    `gorm:"column:author" json:"author"`
	Stage         Stage     `gorm:"column:stage;type:varchar(32)" json:"stage"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ApplicationComment) TableName() string {
	return "application_comments"
}

// ===== Request/Response DTOs =====

// PublicApplyRequest is the unauthenticated candidate-facing payload.
type PublicApplyRequest struct {
	JobID          int     `json:"job_id" binding:"required"`
	CandidateName  string  `json:"candidate_name" binding:"required"`
	CandidateEmail string  `json:"candidate_email" binding:"required,email"`
	CandidatePhone *string `json:"candidate_phone"`
}

// ManualAddRequest is used when staff add a candidate by hand.
type ManualAddRequest struct {
	JobID          int     `json:"job_id" binding:"required"`
	CandidateName  string  `json:"candidate_name" binding:"required"`
	CandidateEmail string  `json:"candidate_email" binding:"required,email"`
	CandidatePhone *string `json:"candidate_phone"`
	Note           string  `json:"note"`
}

type TransitionRequest struct {
	TargetStage string `json:"target_stage" binding:"required"`
	Reason      string `json:"reason"`
	AssigneeID  *int   `json:"assignee_id"`
}

type RevertRequest struct {
	TargetStage string `json:"target_stage" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ReassignRequest struct {
	AssigneeID int    `json:"assignee_id" binding:"required"`
	Note       string `json:"note"`
}

type CommentCreateRequest struct {
	Text string `json:"text" binding:"required"`
}

// ApplicationResponse adds the derived display fields. days_in_stage and
// total_days are computed on read, never stored.
type ApplicationResponse struct {
	Application
	StageLabel  string `json:"stage_label"`
	DaysInStage int    `json:"days_in_stage"`
	TotalDays   int    `json:"total_days"`
}

// ToResponse converts an Application for API output, computing derived fields
// against now.
func (a *Application) ToResponse(now time.Time) ApplicationResponse {
	return ApplicationResponse{
		Application: *a,
		StageLabel:  a.Stage.Label(),
		DaysInStage: daysBetween(a.StageEnteredAt, now),
		TotalDays:   daysBetween(a.AppliedAt, now),
	}
}

func daysBetween(from, to time.Time) int {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
