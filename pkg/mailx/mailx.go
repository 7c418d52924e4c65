// Package mailx provides template-based email dispatch over SMTP. The
// service layer depends on the Mailer interface; the SMTP client here is the
// production implementation and tests substitute a recording fake.
package mailx

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"
)

// Template identifies a registered email template plus its render props.
type Template struct {
	ID    string
	Props map[string]string
}

// Options carries per-message delivery parameters.
type Options struct {
	To      string
	Subject string
}

// Mailer dispatches a templated email. Implementations must not retry;
// retry policy belongs to the caller's transport configuration.
type Mailer interface {
	SendTemplate(ctx context.Context, tpl Template, opts Options) error
}

// SMTPConfig configures the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// SMTPMailer sends templated mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg       SMTPConfig
	templates map[string]*template.Template
}

// NewSMTPMailer parses the given template bodies up front so malformed
// templates fail at startup rather than on first send.
func NewSMTPMailer(cfg SMTPConfig, bodies map[string]string) (*SMTPMailer, error) {
	templates := make(map[string]*template.Template, len(bodies))
	for id, body := range bodies {
		tpl, err := template.New(id).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("mailx: parse template %q: %w", id, err)
		}
		templates[id] = tpl
	}
	return &SMTPMailer{cfg: cfg, templates: templates}, nil
}

// SendTemplate renders the template and delivers it via SMTP.
func (m *SMTPMailer) SendTemplate(ctx context.Context, tpl Template, opts Options) error {
	parsed, ok := m.templates[tpl.ID]
	if !ok {
		return fmt.Errorf("mailx: unknown template %q", tpl.ID)
	}

	var body bytes.Buffer
	if err := parsed.Execute(&body, tpl.Props); err != nil {
		return fmt.Errorf("mailx: render template %q: %w", tpl.ID, err)
	}

	msg := buildMessage(m.cfg.From, opts.To, opts.Subject, body.String())

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{opts.To}, msg); err != nil {
		return fmt.Errorf("mailx: send to %s: %w", opts.To, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
