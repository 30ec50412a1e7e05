// Package notify sends the selection or rejection email that closes an
// interview.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	log "github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("notify: smtp is not configured")

type Mailer interface {
	Send(ctx context.Context, to string, m Message) error
}

type SMTPConfig struct {
	User       string
	Password   string
	Host       string
	Port       string
	From       string
	TLSEnabled bool
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Configured() bool {
	return m.cfg.User != "" && m.cfg.Host != "" && m.cfg.Port != ""
}

func (m *SMTPMailer) Send(ctx context.Context, to string, msg Message) error {
	logger := log.WithFields(log.Fields{"to": to, "kind": msg.Kind})
	if !m.Configured() {
		logger.Warn("outcome email not sent, smtp client is not configured")
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := sasl.NewPlainClient("", m.cfg.User, m.cfg.Password)
	body := strings.NewReader(msg.MIME(m.cfg.From, to))
	addr := m.cfg.Host + ":" + m.cfg.Port

	var err error
	if m.cfg.TLSEnabled {
		err = smtp.SendMailTLS(addr, auth, m.cfg.From, []string{to}, body)
	} else {
		err = smtp.SendMail(addr, auth, m.cfg.From, []string{to}, body)
	}
	if err != nil {
		logger.WithError(err).Error("outcome email failed")
		return fmt.Errorf("send mail: %w", err)
	}
	logger.Info("outcome email sent")
	return nil
}
