package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"
)

// SMTPConfig addresses an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers through an SMTP relay, upgrading with STARTTLS when
// UseTLS is set.
type SMTPMailer struct {
	config SMTPConfig
	send   sendFunc
	now    func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{config: cfg, now: time.Now}
	if cfg.UseTLS {
		m.send = m.sendWithTLS
	} else {
		m.send = smtp.SendMail
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, fmt.Errorf("context cancelled before sending email: %w", err)
	}

	raw, messageID, err := Encode(msg, m.now())
	if err != nil {
		return Receipt{}, err
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	var auth smtp.Auth
	if m.config.Username != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := m.send(addr, auth, msg.envelopeFrom(), msg.envelopeTo(), raw); err != nil {
		return Receipt{}, fmt.Errorf("smtp send: %w", err)
	}
	return Receipt{MessageID: messageID, Provider: ProviderSMTP}, nil
}

func (m *SMTPMailer) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}
