package templates

import (
	"strings"
	"testing"
	"time"
)

func TestRender_Welcome(t *testing.T) {
	subject, text, html, err := Render(Welcome, NewWelcomeData("Accounts", "Ana", "ana@x.com"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if subject != "Welcome to Accounts" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(text, "Hi Ana") || !strings.Contains(html, "<strong>ana@x.com</strong>") {
		t.Fatalf("body missing recipient details:\n%s\n%s", text, html)
	}
}

func TestRender_PasswordChanged(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	_, text, _, err := Render(PasswordChanged, NewPasswordChangedData("", "", "ana@x.com", WithTime(at)))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(text, "Hi there") || !strings.Contains(text, "01 March 2024, 09:30") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestRender_EscapesHTML(t *testing.T) {
	_, _, html, err := Render(Welcome, NewWelcomeData("Accounts", "<script>", "a@x.com"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("expected name to be escaped in html body")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("nope", nil); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestToMap_OmitsZeroTime(t *testing.T) {
	m := NewWelcomeData("Accounts", "Ana", "ana@x.com")
	if _, ok := m["TimeAt"]; ok {
		t.Fatal("expected TimeAt to be omitted")
	}
	if m["Type"] != Welcome || m["Email"] != "ana@x.com" {
		t.Fatalf("unexpected data %v", m)
	}
}
