package services

import (
	"errors"
	"strings"
	"testing"

	"aip-recruiter/config"
)

func TestApplyTemplatePlaceholders(t *testing.T) {
	got := ApplyTemplatePlaceholders("Interview invitation — {{job_title}} for {{candidate_name}}",
		map[string]string{
			"job_title":      "Backend Engineer",
			"candidate_name": "Asha Verma",
		})
	want := "Interview invitation — Backend Engineer for Asha Verma"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Unknown placeholders are left alone
	got = ApplyTemplatePlaceholders("Hello {{missing}}", map[string]string{"other": "x"})
	if got != "Hello {{missing}}" {
		t.Errorf("got %q", got)
	}
}

func TestBuiltinTemplateFallback(t *testing.T) {
	// No DB configured in tests: lookup must fall back to the builtins
	tpl, err := GetEmailTemplate(TemplateRejection)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if tpl.TemplateKey != TemplateRejection {
		t.Errorf("template key = %s", tpl.TemplateKey)
	}

	if _, err := GetEmailTemplate("no_such_template"); err == nil {
		t.Error("expected error for unknown template key")
	}
	if _, err := GetEmailTemplate("  "); err == nil {
		t.Error("expected error for blank template key")
	}
}

func TestDeliverNotificationEmail(t *testing.T) {
	var gotTo []string
	var gotSubject, gotHTML string
	sendMailFunc = func(to []string, subject, html string) error {
		gotTo = to
		gotSubject = subject
		gotHTML = html
		return nil
	}
	t.Cleanup(func() { sendMailFunc = config.SendMail })

	err := deliverNotificationEmail(SendNotificationEffect{
		TemplateKey:    TemplateInterviewInvite,
		ApplicationID:  41,
		RecipientEmail: "asha@example.com",
		TemplateData: map[string]string{
			"candidate_name": "Asha Verma",
			"job_title":      "Backend Engineer",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(gotTo) != 1 || gotTo[0] != "asha@example.com" {
		t.Errorf("to = %v", gotTo)
	}
	if !strings.Contains(gotSubject, "Backend Engineer") {
		t.Errorf("subject = %q", gotSubject)
	}
	if !strings.Contains(gotHTML, "Dear Asha Verma,") {
		t.Errorf("greeting missing from html")
	}
	if !strings.Contains(gotHTML, "Backend Engineer") {
		t.Errorf("body missing job title")
	}
}

func TestDeliverNotificationEmailRequiresRecipient(t *testing.T) {
	err := deliverNotificationEmail(SendNotificationEffect{
		TemplateKey:   TemplateOfferSent,
		ApplicationID: 41,
	})
	if err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestExecuteEffectsReportsWarnings(t *testing.T) {
	sendMailFunc = func([]string, string, string) error {
		return errors.New("smtp unreachable")
	}
	t.Cleanup(func() { sendMailFunc = config.SendMail })

	warnings := ExecuteEffects(nil, []Effect{
		SendNotificationEffect{
			TemplateKey:    TemplateRejection,
			ApplicationID:  41,
			RecipientEmail: "asha@example.com",
			TemplateData:   map[string]string{"candidate_name": "Asha Verma"},
		},
		CreateTaskEffect{ApplicationID: 41, AssigneeID: 9, StageLabel: "Interview"},
	})

	if len(warnings) != 2 {
		t.Fatalf("warnings = %v", warnings)
	}
	if !strings.Contains(warnings[0], "email may not have been sent") {
		t.Errorf("warnings[0] = %q", warnings[0])
	}
	if !strings.Contains(warnings[1], "task could not be created") {
		t.Errorf("warnings[1] = %q", warnings[1])
	}
}

func TestBuildCandidateEmailHTMLEscapes(t *testing.T) {
	html := BuildCandidateEmailHTML("Subject", "<Asha>", "a < b\nnext line")
	if strings.Contains(html, "<Asha>") {
		t.Error("recipient name not escaped")
	}
	if !strings.Contains(html, "a &lt; b<br />next line") {
		t.Errorf("body not escaped/converted: %s", html)
	}
}
