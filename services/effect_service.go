package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"aip-recruiter/config"
	"aip-recruiter/models"
)

// sendMailFunc is swapped out in tests.
var sendMailFunc = config.SendMail

// ExecuteEffects delivers the side effects of an already-persisted stage
// change: candidate emails, task rows for the next responsible party and
// in-app notifications. Delivery is best-effort; every failure is logged and
// returned as a user-facing warning, never as an error, so a failed email can
// never undo a validated stage change.
func ExecuteEffects(db *gorm.DB, effects []Effect) []string {
	var warnings []string

	for _, effect := range effects {
		switch eff := effect.(type) {
		case SendNotificationEffect:
			if err := deliverNotificationEmail(eff); err != nil {
				log.Printf("stage email send failed (template=%s application=%d): %v",
					eff.TemplateKey, eff.ApplicationID, err)
				warnings = append(warnings, fmt.Sprintf(
					"Stage updated, but the %s email may not have been sent", eff.TemplateKey))
			}
		case CreateTaskEffect:
			if err := createStageTask(db, eff); err != nil {
				log.Printf("task creation failed (application=%d assignee=%d): %v",
					eff.ApplicationID, eff.AssigneeID, err)
				warnings = append(warnings, "Stage updated, but the follow-up task could not be created")
			}
		default:
			log.Printf("unknown effect type %T, skipped", effect)
		}
	}

	return warnings
}

func deliverNotificationEmail(eff SendNotificationEffect) error {
	if strings.TrimSpace(eff.RecipientEmail) == "" {
		return fmt.Errorf("no recipient email on application %d", eff.ApplicationID)
	}

	tpl, err := GetEmailTemplate(eff.TemplateKey)
	if err != nil {
		return err
	}

	subject := ApplyTemplatePlaceholders(tpl.SubjectTemplate, eff.TemplateData)
	body := ApplyTemplatePlaceholders(tpl.BodyTemplate, eff.TemplateData)
	html := BuildCandidateEmailHTML(subject, eff.TemplateData["candidate_name"], body)

	return sendMailFunc([]string{eff.RecipientEmail}, subject, html)
}

func createStageTask(db *gorm.DB, eff CreateTaskEffect) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	now := time.Now()
	task := models.Task{
		ApplicationID: eff.ApplicationID,
		AssigneeID:    eff.AssigneeID,
		StageLabel:    eff.StageLabel,
		Notes:         eff.Notes,
		Status:        "open",
		CreateAt:      now,
		UpdateAt:      now,
	}
	if err := db.Create(&task).Error; err != nil {
		return err
	}

	appID := uint(eff.ApplicationID)
	notif := models.Notification{
		UserID:               uint(eff.AssigneeID),
		Title:                fmt.Sprintf("New task: %s", eff.StageLabel),
		Message:              eff.Notes,
		Type:                 "info",
		RelatedApplicationID: &appID,
		IsRead:               false,
		CreateAt:             now,
	}
	if err := db.Create(&notif).Error; err != nil {
		// Task exists; a missing bell icon entry is not worth surfacing.
		log.Printf("in-app notification insert failed (task=%d): %v", task.TaskID, err)
	}

	return nil
}

// BuildCandidateEmailHTML wraps a plain-text body in the formal email layout.
func BuildCandidateEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "Candidate"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
