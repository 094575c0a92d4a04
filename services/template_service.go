package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"aip-recruiter/config"
	"aip-recruiter/models"
)

var (
	templateCacheMu sync.RWMutex
	templateCache   *templateCacheEntry
	templateTTL     = 5 * time.Minute
)

type templateCacheEntry struct {
	byKey     map[string]models.EmailTemplate
	fetchedAt time.Time
}

// builtinTemplates back the notification dispatcher when the email_templates
// table has no active row for a key, so a missing template row never blocks a
// stage change.
var builtinTemplates = map[string]models.EmailTemplate{
	TemplateScreeningInvite: {
		TemplateKey:     TemplateScreeningInvite,
		SubjectTemplate: "Your application for {{job_title}} is moving forward",
		BodyTemplate:    "Your application has moved to the {{stage}} stage. Our team will contact you shortly with next steps.",
	},
	TemplateInterviewInvite: {
		TemplateKey:     TemplateInterviewInvite,
		SubjectTemplate: "Interview invitation — {{job_title}}",
		BodyTemplate:    "We would like to invite you to an interview for the {{job_title}} position. We will follow up to schedule a time.",
	},
	TemplateOfferSent: {
		TemplateKey:     TemplateOfferSent,
		SubjectTemplate: "Your offer from our team",
		BodyTemplate:    "Congratulations! An offer for the {{job_title}} position has been sent to you. Please review it and respond at your convenience.",
	},
	TemplateRejection: {
		TemplateKey:     TemplateRejection,
		SubjectTemplate: "Update on your application",
		BodyTemplate:    "Thank you for your interest in the {{job_title}} position. After careful consideration we have decided not to move forward with your application.",
	},
}

func loadTemplates(force bool) (*templateCacheEntry, error) {
	templateCacheMu.RLock()
	cached := templateCache
	templateCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < templateTTL {
		return cached, nil
	}

	templateCacheMu.Lock()
	defer templateCacheMu.Unlock()

	if templateCache != nil && !force && time.Since(templateCache.fetchedAt) < templateTTL {
		return templateCache, nil
	}

	if config.DB == nil {
		return nil, errors.New("database not initialized")
	}

	var rows []models.EmailTemplate
	if err := config.DB.Where("is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	byKey := make(map[string]models.EmailTemplate, len(rows))
	for _, tpl := range rows {
		key := strings.TrimSpace(tpl.TemplateKey)
		if key == "" {
			continue
		}
		byKey[key] = tpl
	}

	entry := &templateCacheEntry{
		byKey:     byKey,
		fetchedAt: time.Now(),
	}
	templateCache = entry
	return entry, nil
}

// ClearTemplateCache invalidates the in-memory template cache.
func ClearTemplateCache() {
	templateCacheMu.Lock()
	defer templateCacheMu.Unlock()
	templateCache = nil
}

// GetEmailTemplate returns the active template for key, falling back to the
// built-in default when the table has none.
func GetEmailTemplate(key string) (models.EmailTemplate, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return models.EmailTemplate{}, errors.New("template key is required")
	}

	if entry, err := loadTemplates(false); err == nil {
		if tpl, ok := entry.byKey[trimmed]; ok {
			return tpl, nil
		}
	}

	if tpl, ok := builtinTemplates[trimmed]; ok {
		return tpl, nil
	}

	return models.EmailTemplate{}, fmt.Errorf("email template '%s' not found", trimmed)
}

// ApplyTemplatePlaceholders substitutes {{name}} placeholders in text.
func ApplyTemplatePlaceholders(text string, data map[string]string) string {
	for key, value := range data {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}
	return text
}
