package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wedding-candy/internal/config"
)

func TestBuildBackupReminderContent(t *testing.T) {
	last := time.Date(2024, 5, 18, 20, 30, 0, 0, time.Local)
	tests := []struct {
		name         string
		locale       string
		input        BackupReminderInput
		wantSubject  string
		wantBodyPart []string
	}{
		{
			name:         "zh never backed up",
			locale:       "zh-CN",
			input:        BackupReminderInput{Total: 50},
			wantSubject:  "50 条领取记录",
			wantBodyPart: []string{"当前共有 50 条", "从未备份"},
		},
		{
			name:         "en with last backup",
			locale:       "en",
			input:        BackupReminderInput{Total: 100, LastBackupTime: &last},
			wantSubject:  "100 records collected",
			wantBodyPart: []string{"There are now 100", "Last backup: 2024-05-18 20:30"},
		},
		{
			name:         "unknown locale falls back to zh",
			locale:       "fr-FR",
			input:        BackupReminderInput{Total: 1},
			wantSubject:  "喜糖登记提醒",
			wantBodyPart: []string{"请勿直接回复"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildBackupReminderContent(tt.input, tt.locale)
			if !strings.Contains(subject, tt.wantSubject) {
				t.Fatalf("subject want contains %q got %q", tt.wantSubject, subject)
			}
			for _, part := range tt.wantBodyPart {
				if !strings.Contains(body, part) {
					t.Fatalf("body want contains %q got %q", part, body)
				}
			}
		})
	}
}

func TestEmailServiceSendBackupReminderDisabled(t *testing.T) {
	var nilService *EmailService
	if nilService.Enabled() {
		t.Fatalf("nil service should not be enabled")
	}
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	if svc.Enabled() {
		t.Fatalf("service without recipients should not be enabled")
	}
	if err := svc.SendBackupReminder(BackupReminderInput{Total: 3}); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("want ErrEmailServiceDisabled got %v", err)
	}
}

func TestEmailServiceSendTextEmailValidation(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true, To: []string{" owner@example.com ", ""}})
	if got := svc.recipients(); len(got) != 1 || got[0] != "owner@example.com" {
		t.Fatalf("recipients should be trimmed, got %v", got)
	}
	if err := svc.SendBackupReminder(BackupReminderInput{Total: 3}); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("missing host want ErrEmailServiceNotConfigured got %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 465, From: "noreply@example.com"})
	if err := svc.sendTextEmail("not-an-email", "s", "b"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad address want ErrInvalidEmail got %v", err)
	}
}

func TestBuildEmailMessageEncodesHeaders(t *testing.T) {
	from := buildFromAddress("noreply@example.com", "喜糖登记")
	msg := buildEmailMessage(from, "owner@example.com", "备份提醒", "正文")
	if !strings.Contains(msg, "From: =?UTF-8?q?") || !strings.Contains(msg, "<noreply@example.com>") {
		t.Fatalf("from header should be encoded, got %q", msg)
	}
	if !strings.Contains(msg, "Subject: =?UTF-8?q?") || !strings.HasSuffix(msg, "\r\n\r\n正文") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if buildFromAddress("noreply@example.com", " ") != "noreply@example.com" {
		t.Fatalf("empty name should return bare address")
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	if normalizeEmailSendError(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
	rejected := errors.New("550 5.1.1 mailbox unavailable")
	if err := normalizeEmailSendError(rejected); !errors.Is(err, ErrEmailRecipientRejected) {
		t.Fatalf("want ErrEmailRecipientRejected got %v", err)
	}
	other := errors.New("dial tcp: timeout")
	if err := normalizeEmailSendError(other); err != other {
		t.Fatalf("other errors should pass through, got %v", err)
	}
}
