package templates

import "time"

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func newData(appName, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email, AppName: appName, Type: typ}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(appName, name, email string, opts ...Option) map[string]any {
	return ToMap(newData(appName, Welcome, name, email, opts...))
}

func NewPasswordChangedData(appName, name, email string, opts ...Option) map[string]any {
	return ToMap(newData(appName, PasswordChanged, name, email, opts...))
}
