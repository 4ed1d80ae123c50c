package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var files embed.FS

// Template names. Each has <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
const (
	Welcome         = "welcome"
	PasswordChanged = "password_changed"
)

// EmailData holds the fields account email templates may reference.
type EmailData struct {
	Name    string
	Email   string
	AppName string
	Type    string
	Time    string
	TimeAt  time.Time
}

// ToMap flattens d into EmailJob.Data. A zero TimeAt is left out.
func ToMap(d EmailData) map[string]any {
	m := map[string]any{
		"Name":    d.Name,
		"Email":   d.Email,
		"AppName": d.AppName,
		"Type":    d.Type,
		"Time":    d.Time,
	}
	if !d.TimeAt.IsZero() {
		m["TimeAt"] = d.TimeAt
	}
	return m
}

// defaultFn backs {{ .Value | default "Fallback" }}.
func defaultFn(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if rv := reflect.ValueOf(value); !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{"default": defaultFn}
}

// Parsed once; a broken template fails at init.
var (
	textSet = texttpl.Must(texttpl.New("").Funcs(funcs()).ParseFS(files, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("").Funcs(funcs()).ParseFS(files, "*.html.tmpl"))
)

func execText(name string, data any) (string, error) {
	t := textSet.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

func execHTML(name string, data any) (string, error) {
	t := htmlSet.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

// Render returns the trimmed subject and the text and html bodies for name.
func Render(name string, data any) (subject, text, html string, err error) {
	if subject, err = execText(name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execText(name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	if html, err = execHTML(name+".html.tmpl", data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
