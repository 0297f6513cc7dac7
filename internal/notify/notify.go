package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/agamordechai/job-matcher/internal/store"
)

// Config is the SMTP block of the app config. Empty credentials disable
// notifications entirely.
type Config struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
}

// Notifier sends digest emails about analyzed matches and records every
// attempt in the notification log.
type Notifier struct {
	cfg    Config
	store  *store.Store
	logger *zap.Logger

	// send is swappable for tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg Config, st *store.Store, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		cfg:    cfg,
		store:  st,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// IsConfigured reports whether credentials and a recipient are present.
func (n *Notifier) IsConfigured() bool {
	return n.cfg.Username != "" && n.cfg.Password != "" && n.cfg.Recipient != ""
}

// SendDigest emails one message covering all given jobs and logs the attempt
// per job. Unconfigured or empty input is a silent no-op.
func (n *Notifier) SendDigest(ctx context.Context, jobs []store.Job) error {
	if !n.IsConfigured() {
		n.logger.Debug("email not configured, skipping notification")
		return nil
	}
	if len(jobs) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%d New Job Opportunities Found", len(jobs))
	body, err := renderDigest(jobs, time.Now())
	if err != nil {
		return fmt.Errorf("render digest: %w", err)
	}

	sendErr := n.sendMail(subject, body)

	for i := range jobs {
		jobID := jobs[i].ID
		entry := &store.NotificationLog{
			JobID:          &jobID,
			RecipientEmail: n.cfg.Recipient,
			Subject:        subject,
			Body:           body,
			Success:        sendErr == nil,
		}
		if sendErr != nil {
			entry.ErrorMessage = sendErr.Error()
		}
		if err := n.store.LogNotification(ctx, entry); err != nil {
			n.logger.Warn("failed to record notification log", zap.Error(err))
		}
	}

	if sendErr != nil {
		return fmt.Errorf("send digest to %s: %w", n.cfg.Recipient, sendErr)
	}

	n.logger.Info("digest sent",
		zap.Int("jobs", len(jobs)),
		zap.String("recipient", n.cfg.Recipient),
	)
	return nil
}

func (n *Notifier) sendMail(subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", n.cfg.Username)
	fmt.Fprintf(&msg, "To: %s\r\n", n.cfg.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return n.send(addr, auth, n.cfg.Username, []string{n.cfg.Recipient}, msg.Bytes())
}
