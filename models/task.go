package models

import "time"

// Task is a who-must-act-next record created when a transition enters a stage
// that requires a responsible party.
type Task struct {
	TaskID        int        `gorm:"primaryKey;column:task_id" json:"task_id"`
	ApplicationID int        `gorm:"column:application_id" json:"application_id"`
	AssigneeID    int        `gorm:"column:assignee_id" json:"assignee_id"`
	StageLabel    string     `gorm:"column:stage_label" json:"stage_label"`
	Notes         string     `gorm:"column:notes" json:"notes"`
	Status        string     `gorm:"column:status;type:enum('open','done');default:'open'" json:"status"`
	DueDate       *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time  `gorm:"column:update_at" json:"update_at"`

	// Relations
	Application Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	Assignee    User        `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// IsOpen reports whether the task still needs action.
func (t *Task) IsOpen() bool {
	return t.Status == "open"
}
