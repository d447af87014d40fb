package notifier

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"flixcrd-backend/metrics"
	"flixcrd-backend/utils"

	"github.com/sirupsen/logrus"
)

// Mail is a templated outbound email.
type Mail struct {
	To       string
	Subject  string
	Template string
	Context  map[string]interface{}
}

type Mailer interface {
	SendMail(ctx context.Context, mail Mail) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *SMTPMailer) SendMail(ctx context.Context, mail Mail) error {
	if strings.TrimSpace(mail.To) == "" {
		return fmt.Errorf("notifier: empty recipient")
	}
	body, err := render(mail.Template, mail.Context)
	if err != nil {
		return err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", mail.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mail.Subject)
	msg.WriteString("MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n")
	msg.Write(body)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{mail.To}, msg.Bytes()); err != nil {
		return fmt.Errorf("notifier: smtp: %w", err)
	}
	return nil
}

// Async dispatches every mail on its own goroutine and never returns an
// error: failures are logged and counted.
type Async struct {
	next    Mailer
	timeout time.Duration
}

func NewAsync(next Mailer, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Async{next: next, timeout: timeout}
}

func (a *Async) SendMail(_ context.Context, mail Mail) error {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				utils.LogError(fmt.Errorf("%v", r), "Panic while sending email")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.next.SendMail(ctx, mail); err != nil {
			metrics.NotificationFailures.WithLabelValues(mail.Template).Inc()
			utils.Logger.WithFields(logrus.Fields{
				"source":   "notifier",
				"template": mail.Template,
				"error":    err.Error(),
			}).Error("Email dispatch failed")
		}
	}()
	return nil
}

// LogMailer is used when SMTP is not configured.
type LogMailer struct{}

func (LogMailer) SendMail(_ context.Context, mail Mail) error {
	utils.Logger.WithFields(logrus.Fields{
		"source":   "notifier",
		"template": mail.Template,
		"to":       mail.To,
	}).Info("SMTP not configured, email skipped")
	return nil
}
