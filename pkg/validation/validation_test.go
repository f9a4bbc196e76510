package validation_test

import (
	"strings"
	"testing"

	"github.com/OldStager01/cloud-autoscaler/pkg/validation"
)

func TestSanitizeString_StripsControlCharsButKeepsNewlineAndTab(t *testing.T) {
	got := validation.SanitizeString("  hello\x00world\x01\n\tagain  ")

	if strings.Contains(got, "\x00") || strings.Contains(got, "\x01") {
		t.Errorf("expected null byte and control char stripped, got %q", got)
	}
	if !strings.Contains(got, "\n") || !strings.Contains(got, "\t") {
		t.Errorf("expected newline and tab preserved, got %q", got)
	}
}

func TestValidateServiceID_Valid(t *testing.T) {
	if err := validation.ValidateServiceID("order-matching"); err != nil {
		t.Errorf("expected valid service id, got %v", err)
	}
}

func TestValidateServiceID_TooShort(t *testing.T) {
	if err := validation.ValidateServiceID("ab"); err == nil {
		t.Error("expected error for a 2-character service id")
	}
}

func TestValidateServiceID_RejectsBadChars(t *testing.T) {
	if err := validation.ValidateServiceID("order matching!"); err == nil {
		t.Error("expected error for a service id containing spaces and punctuation")
	}
}

func TestValidateServiceID_RejectsReservedWord(t *testing.T) {
	if err := validation.ValidateServiceID("admin"); err == nil {
		t.Error("expected error for the reserved word 'admin'")
	}
}

func TestValidateUsername_Valid(t *testing.T) {
	if err := validation.ValidateUsername("trader_01"); err != nil {
		t.Errorf("expected valid username, got %v", err)
	}
}

func TestValidateUsername_RejectsHyphen(t *testing.T) {
	if err := validation.ValidateUsername("trader-01"); err == nil {
		t.Error("expected error: usernames allow underscores but not hyphens")
	}
}

func TestValidatePassword_Valid(t *testing.T) {
	if err := validation.ValidatePassword("Str0ng!Pass"); err != nil {
		t.Errorf("expected valid password, got %v", err)
	}
}

func TestValidatePassword_MissingSpecialChar(t *testing.T) {
	if err := validation.ValidatePassword("Str0ngPassword"); err == nil {
		t.Error("expected error for a password with no special character")
	}
}

func TestValidatePassword_TooShort(t *testing.T) {
	if err := validation.ValidatePassword("Sh0rt!"); err == nil {
		t.Error("expected error for a password under 8 characters")
	}
}

func TestValidateInstanceCount_Valid(t *testing.T) {
	if err := validation.ValidateInstanceCount(5); err != nil {
		t.Errorf("expected valid instance count, got %v", err)
	}
}

func TestValidateInstanceCount_RejectsNegative(t *testing.T) {
	if err := validation.ValidateInstanceCount(-1); err == nil {
		t.Error("expected error for a negative instance count")
	}
}

func TestValidateInstanceCount_RejectsAbsurdlyLarge(t *testing.T) {
	if err := validation.ValidateInstanceCount(10001); err == nil {
		t.Error("expected error for an instance count above the sanity cap")
	}
}
