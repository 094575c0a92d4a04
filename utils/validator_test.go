package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"asha@example.com", "a.b+tag@sub.domain.org"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false", email)
		}
	}

	invalid := []string{"", "plain", "no@tld", "@example.com", "a b@example.com"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+91 98765 43210", "020-1234-5678", "(555) 123-4567"}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = false", phone)
		}
	}

	invalid := []string{"", "123", "call me", "+1234567890123456789012"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = true", phone)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Error("short password accepted")
	}
	if ok, msg := ValidatePassword("longenough"); !ok {
		t.Errorf("valid password rejected: %s", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Errorf("SanitizeInput = %q", got)
	}
}
