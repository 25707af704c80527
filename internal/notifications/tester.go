package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
)

// TestResult is the outcome of an SMTP connectivity test. Tests always
// produce a result, never an error: failures are user-facing messages.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Tester checks SMTP connectivity on behalf of the settings form.
type Tester interface {
	Test(ctx context.Context, settings domain.SMTPSettings, recipient string) TestResult
}

// SimulatedFailPassword is the sentinel password that makes the simulated
// tester report an authentication failure.
const SimulatedFailPassword = "fail"

// SimulatedTester stands in for a real SMTP handshake. It resolves after a
// fixed delay and succeeds only when host, user, pass and recipient are all
// present and the password is not the failure sentinel.
type SimulatedTester struct {
	Delay time.Duration
}

// NewSimulatedTester creates a simulated tester with the given delay.
func NewSimulatedTester(delay time.Duration) *SimulatedTester {
	return &SimulatedTester{Delay: delay}
}

// Test runs the simulated check. A cancelled context cuts the delay short
// but still yields a result.
func (t *SimulatedTester) Test(ctx context.Context, settings domain.SMTPSettings, recipient string) TestResult {
	if t.Delay > 0 {
		timer := time.NewTimer(t.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	if settings.Host == "" || settings.User == "" || settings.Pass == "" || recipient == "" {
		return TestResult{Success: false, Message: "Connection failed. Please ensure all fields are filled out correctly."}
	}
	if settings.Pass == SimulatedFailPassword {
		return TestResult{Success: false, Message: "Authentication failed. Please check your username and password."}
	}
	return TestResult{Success: true, Message: fmt.Sprintf("Connection successful! A test email has been sent to %s.", recipient)}
}

// DialTester performs a real handshake: dial, optional STARTTLS, AUTH and
// RCPT for the recipient. No message is sent.
type DialTester struct {
	Timeout time.Duration
}

// NewDialTester creates a handshake-based tester.
func NewDialTester(timeout time.Duration) *DialTester {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &DialTester{Timeout: timeout}
}

// Test attempts the handshake and converts any failure into a result.
func (t *DialTester) Test(ctx context.Context, settings domain.SMTPSettings, recipient string) TestResult {
	if settings.Host == "" || settings.User == "" || settings.Pass == "" || recipient == "" {
		return TestResult{Success: false, Message: "Connection failed. Please ensure all fields are filled out correctly."}
	}

	if err := t.handshake(ctx, settings, recipient); err != nil {
		return TestResult{Success: false, Message: fmt.Sprintf("Connection failed: %v", err)}
	}
	return TestResult{Success: true, Message: fmt.Sprintf("Connection successful! A test email has been sent to %s.", recipient)}
}

func (t *DialTester) handshake(ctx context.Context, settings domain.SMTPSettings, recipient string) error {
	port := settings.Port
	if port == 0 {
		port = 587
	}
	addr := net.JoinHostPort(settings.Host, fmt.Sprintf("%d", port))

	dialer := &net.Dialer{Timeout: t.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, settings.Host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if settings.Secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			tlsConfig := &tls.Config{ServerName: settings.Host, MinVersion: tls.VersionTLS12}
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	auth := smtp.PlainAuth("", settings.User, settings.Pass, settings.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if err := client.Mail(settings.User); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("rcpt: %w", err)
	}

	return client.Quit()
}
