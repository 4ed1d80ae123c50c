package notify

import (
	"context"
	"time"

	"github.com/oksasatya/accounts-api/internal/domain/entity"
	"github.com/oksasatya/accounts-api/pkg/mailer"
	mailtpl "github.com/oksasatya/accounts-api/pkg/mailer/templates"
)

// Publisher puts one JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier turns account events into queued email jobs.
type EmailNotifier struct {
	pub     Publisher
	appName string
	now     func() time.Time
}

func NewEmailNotifier(pub Publisher, appName string) *EmailNotifier {
	return &EmailNotifier{pub: pub, appName: appName, now: time.Now}
}

func (n *EmailNotifier) Welcome(ctx context.Context, u entity.PublicUser) error {
	return n.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(n.appName, u.Name, u.Email),
	})
}

func (n *EmailNotifier) PasswordChanged(ctx context.Context, u entity.PublicUser) error {
	return n.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.PasswordChanged,
		Data:     mailtpl.NewPasswordChangedData(n.appName, u.Name, u.Email, mailtpl.WithTime(n.now())),
	})
}
