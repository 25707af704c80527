package notifications

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
	"golang.org/x/time/rate"
)

// SMTPConfig holds delivery configuration that is not part of the
// admin-managed SMTPSettings slice.
type SMTPConfig struct {
	FromAddress string
	BatchSize   int
	SendRate    rate.Limit // messages per second across batches
}

// SMTPSink delivers incident emails over SMTP with STARTTLS. Recipients
// are placed on the envelope only (BCC), split into batches to respect
// server limits. Transport settings are admin-managed state, pushed in via
// UpdateSettings whenever the store commits a change.
type SMTPSink struct {
	config   SMTPConfig
	renderer *Renderer
	limiter  *rate.Limiter
	send     func(ctx context.Context, settings domain.SMTPSettings, subject, body string, recipients []string) error

	mu       sync.RWMutex
	settings domain.SMTPSettings
}

// maxSendAttempts bounds retries of a batch that failed with a temporary
// error (4xx SMTP code or a network problem).
const maxSendAttempts = 3

// NewSMTPSink creates an SMTP-backed sink.
func NewSMTPSink(config SMTPConfig, renderer *Renderer) (*SMTPSink, error) {
	if config.FromAddress == "" {
		return nil, errors.New("smtp sink: from address is required")
	}
	if config.BatchSize == 0 {
		config.BatchSize = 50
	}
	if config.SendRate == 0 {
		config.SendRate = 10
	}

	s := &SMTPSink{
		config:   config,
		renderer: renderer,
		limiter:  rate.NewLimiter(config.SendRate, 1),
	}
	s.send = s.sendEmail
	return s, nil
}

// UpdateSettings installs the current transport settings.
func (s *SMTPSink) UpdateSettings(settings domain.SMTPSettings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

func (s *SMTPSink) currentSettings() domain.SMTPSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Notify renders the incident email and sends it to all subscribers.
func (s *SMTPSink) Notify(ctx context.Context, incident *domain.Incident, update *domain.IncidentUpdate, subscribers []domain.Subscriber, settings domain.AppSettings) error {
	if len(subscribers) == 0 {
		return nil
	}

	smtpSettings := s.currentSettings()
	if smtpSettings.Host == "" {
		return errors.New("smtp sink: host not configured")
	}

	body, err := s.renderer.Render(incident, update, settings)
	if err != nil {
		recordNotification("smtp", "failed")
		return err
	}
	subject := s.renderer.Subject(incident, settings)

	recipients := make([]string, len(subscribers))
	for i, sub := range subscribers {
		recipients[i] = sub.Email
	}

	var lastErr error
	for i := 0; i < len(recipients); i += s.config.BatchSize {
		end := min(i+s.config.BatchSize, len(recipients))
		if err := s.sendBatch(ctx, smtpSettings, subject, body, recipients[i:end]); err != nil {
			if ctx.Err() != nil {
				return err
			}
			recordNotification("smtp", "failed")
			lastErr = err
			continue
		}
		recordNotification("smtp", "sent")
	}

	return lastErr
}

// sendBatch delivers one batch, retrying temporary failures up to
// maxSendAttempts. Each attempt waits for the rate limiter so retries do
// not burst past the configured send rate.
func (s *SMTPSink) sendBatch(ctx context.Context, settings domain.SMTPSettings, subject, body string, recipients []string) error {
	var err error
	for attempt := 0; attempt < maxSendAttempts; attempt++ {
		if waitErr := s.limiter.Wait(ctx); waitErr != nil {
			return fmt.Errorf("rate limit wait: %w", waitErr)
		}

		err = s.send(ctx, settings, subject, body, recipients)
		if err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

func (s *SMTPSink) sendEmail(ctx context.Context, settings domain.SMTPSettings, subject, body string, recipients []string) error {
	port := settings.Port
	if port == 0 {
		port = 587
	}
	addr := net.JoinHostPort(settings.Host, fmt.Sprintf("%d", port))

	var auth smtp.Auth
	if settings.User != "" && settings.Pass != "" {
		auth = smtp.PlainAuth("", settings.User, settings.Pass, settings.Host)
	}

	tlsConfig := &tls.Config{
		ServerName: settings.Host,
		MinVersion: tls.VersionTLS12,
	}

	msg := s.buildMessage(subject, body)

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, settings.Host)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if settings.Secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(extractEmail(s.config.FromAddress)); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}

	var added int
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			continue
		}
		added++
	}
	if added == 0 {
		return errors.New("no valid recipients")
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return client.Quit()
}

// buildMessage constructs the email with headers in deterministic order.
func (s *SMTPSink) buildMessage(subject, body string) []byte {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.config.FromAddress))
	msg.WriteString("To: undisclosed-recipients:;\r\n")
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return []byte(msg.String())
}

// extractEmail extracts the address from formats like "Name <a@b.com>".
func extractEmail(address string) string {
	if idx := strings.Index(address, "<"); idx != -1 {
		end := strings.Index(address, ">")
		if end > idx {
			return address[idx+1 : end]
		}
	}
	return address
}

// IsRetryable reports whether a delivery error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	errStr := err.Error()

	// SMTP 4xx codes are temporary failures.
	if strings.Contains(errStr, "421") ||
		strings.Contains(errStr, "450") ||
		strings.Contains(errStr, "451") ||
		strings.Contains(errStr, "452") {
		return true
	}

	return false
}
