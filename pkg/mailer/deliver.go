package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/accounts-api/pkg/mailer/templates"
)

// ErrUndeliverable marks jobs that will never succeed; workers drop them instead of requeueing.
var ErrUndeliverable = errors.New("undeliverable email job")

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Deliver renders job when it names a template and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		if v, ok := job.Data["Email"].(string); ok {
			job.To = v
		}
	}
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrUndeliverable)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrUndeliverable, job.Template, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return fmt.Errorf("%w: empty message", ErrUndeliverable)
	}
	return s.Send(ctx, job.To, subject, text, html)
}
