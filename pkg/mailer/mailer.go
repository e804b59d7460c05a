package mailer

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/pkg/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages. The SMTP implementation is swapped for a fake
// in tests and by the sponsorship service's queue worker.
type Sender interface {
	Send(msg Message) error
}

// SMTPMailer sends HTML email through a plain-auth SMTP relay. When
// credentials are not configured it logs the message and reports success so
// development environments work without a mail account.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// New constructs an SMTPMailer.
func New(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers a single message.
func (m *SMTPMailer) Send(msg Message) error {
	if m.cfg.Host == "" || m.cfg.Username == "" || m.cfg.Password == "" {
		m.logger.Sugar().Warnw("smtp credentials not configured, email not sent",
			"to", msg.To, "subject", msg.Subject)
		return nil
	}

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail),
		"To":           msg.To,
		"Subject":      msg.Subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
