package models

import "time"

// EmailTemplate holds the editable per-stage email bodies. TemplateKey matches
// the SendNotification effect keys emitted by the stage engine. Placeholders
// use the {{name}} form.
type EmailTemplate struct {
	ID              uint      `gorm:"primaryKey;column:id" json:"id"`
	TemplateKey     string    `gorm:"column:template_key;unique" json:"template_key"`
	SubjectTemplate string    `gorm:"column:subject_template" json:"subject_template"`
	BodyTemplate    string    `gorm:"column:body_template" json:"body_template"`
	Description     *string   `gorm:"column:description" json:"description,omitempty"`
	IsActive        bool      `gorm:"column:is_active" json:"is_active"`
	UpdatedBy       *uint     `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (EmailTemplate) TableName() string { return "email_templates" }
