// Package notify provides Notifier implementations for contact-query intake.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// SMTPConfig options for the SMTP notifier
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       string // recipient of contact-query notifications
}

// SMTPNotifier delivers contact-query notifications over plain SMTP
type SMTPNotifier struct {
	config SMTPConfig
}

// NewSMTP creates a new SMTP notifier
func NewSMTP(config SMTPConfig) (*SMTPNotifier, error) {
	if config.Host == "" || config.Port == "" {
		return nil, fmt.Errorf("smtp host and port are required")
	}
	if config.From == "" || config.To == "" {
		return nil, fmt.Errorf("smtp from and to addresses are required")
	}
	return &SMTPNotifier{config: config}, nil
}

// ContactReceived sends one notification email for a submitted contact query
func (n *SMTPNotifier) ContactReceived(ctx context.Context, query *blog.ContactQuery) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "From: %s\r\n", n.config.From)
	fmt.Fprintf(&body, "To: %s\r\n", n.config.To)
	fmt.Fprintf(&body, "Subject: User query details from blog app\r\n")
	fmt.Fprintf(&body, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&body, "Name: %s\r\n", query.Name)
	fmt.Fprintf(&body, "Email: %s\r\n", query.Email)
	fmt.Fprintf(&body, "Phone: %s\r\n", query.Phone)
	fmt.Fprintf(&body, "Category: %s\r\n", query.Category)
	fmt.Fprintf(&body, "Query: %s\r\n", query.Query)
	if query.Attachment.Present() {
		fmt.Fprintf(&body, "Attachment: %s\r\n", query.Attachment.URL)
	}

	var auth smtp.Auth
	if n.config.Username != "" {
		auth = smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	}

	addr := fmt.Sprintf("%s:%s", n.config.Host, n.config.Port)
	if err := smtp.SendMail(addr, auth, n.config.From, []string{n.config.To}, []byte(body.String())); err != nil {
		return fmt.Errorf("sending contact notification: %w", err)
	}
	return nil
}
