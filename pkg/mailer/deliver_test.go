package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	mailtpl "github.com/oksasatya/accounts-api/pkg/mailer/templates"
)

type sendFunc func(ctx context.Context, to, subject, text, html string) error

func (f sendFunc) Send(ctx context.Context, to, subject, text, html string) error {
	return f(ctx, to, subject, text, html)
}

func TestDeliver_Template(t *testing.T) {
	var gotTo, gotSubject, gotText string
	s := sendFunc(func(_ context.Context, to, subject, text, _ string) error {
		gotTo, gotSubject, gotText = to, subject, text
		return nil
	})
	job := EmailJob{
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData("Accounts", "Ana", "ana@x.com"),
	}
	if err := Deliver(context.Background(), s, job); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if gotTo != "ana@x.com" {
		t.Fatalf("expected recipient from data, got %q", gotTo)
	}
	if gotSubject != "Welcome to Accounts" || !strings.Contains(gotText, "Ana") {
		t.Fatalf("unexpected message %q %q", gotSubject, gotText)
	}
}

func TestDeliver_Undeliverable(t *testing.T) {
	never := sendFunc(func(context.Context, string, string, string, string) error {
		t.Fatal("send should not be called")
		return nil
	})
	tests := []struct {
		name string
		job  EmailJob
	}{
		{"no recipient", EmailJob{Subject: "x", Text: "y"}},
		{"unknown template", EmailJob{To: "a@x.com", Template: "missing"}},
		{"empty body", EmailJob{To: "a@x.com", Subject: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Deliver(context.Background(), never, tt.job)
			if !errors.Is(err, ErrUndeliverable) {
				t.Fatalf("expected ErrUndeliverable, got %v", err)
			}
		})
	}
}

func TestDeliver_SendErrorIsRetryable(t *testing.T) {
	boom := errors.New("mailgun 503")
	s := sendFunc(func(context.Context, string, string, string, string) error { return boom })
	err := Deliver(context.Background(), s, EmailJob{To: "a@x.com", Subject: "s", Text: "t"})
	if !errors.Is(err, boom) || errors.Is(err, ErrUndeliverable) {
		t.Fatalf("expected retryable send error, got %v", err)
	}
}
