package notifications

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSink_Notify(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sink := NewLogSink(r, nil)
	incident, update := testIncident(domain.IncidentStatusInvestigating, "msg")

	err = sink.Notify(context.Background(), incident, update, []domain.Subscriber{
		{ID: "sub-1", Email: "ops@example.com"},
	}, domain.AppSettings{AppName: "StatusPulse"})
	assert.NoError(t, err)
}

func TestNewSMTPSink_RequiresFromAddress(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = NewSMTPSink(SMTPConfig{}, r)
	assert.Error(t, err)
}

func TestSMTPSink_NotifyWithoutHost(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sink, err := NewSMTPSink(SMTPConfig{FromAddress: "status@example.com"}, r)
	require.NoError(t, err)

	incident, update := testIncident(domain.IncidentStatusInvestigating, "msg")
	err = sink.Notify(context.Background(), incident, update, []domain.Subscriber{
		{ID: "sub-1", Email: "ops@example.com"},
	}, domain.AppSettings{AppName: "StatusPulse"})
	assert.Error(t, err, "transport settings were never pushed")
}

func TestSMTPSink_NotifyNoSubscribersIsNoop(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sink, err := NewSMTPSink(SMTPConfig{FromAddress: "status@example.com"}, r)
	require.NoError(t, err)

	incident, update := testIncident(domain.IncidentStatusInvestigating, "msg")
	err = sink.Notify(context.Background(), incident, update, nil, domain.AppSettings{})
	assert.NoError(t, err)
}

func TestSMTPSink_RetriesTemporaryFailures(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sink, err := NewSMTPSink(SMTPConfig{FromAddress: "status@example.com", SendRate: 1000}, r)
	require.NoError(t, err)
	sink.UpdateSettings(domain.SMTPSettings{Host: "smtp.example.com"})

	var attempts int
	sink.send = func(_ context.Context, _ domain.SMTPSettings, _, _ string, _ []string) error {
		attempts++
		if attempts < 3 {
			return errors.New("451 4.7.1 greylisted, try again later")
		}
		return nil
	}

	incident, update := testIncident(domain.IncidentStatusInvestigating, "msg")
	err = sink.Notify(context.Background(), incident, update, []domain.Subscriber{
		{ID: "sub-1", Email: "ops@example.com"},
	}, domain.AppSettings{AppName: "StatusPulse"})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestSMTPSink_RetriesAreBounded(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sink, err := NewSMTPSink(SMTPConfig{FromAddress: "status@example.com", SendRate: 1000}, r)
	require.NoError(t, err)
	sink.UpdateSettings(domain.SMTPSettings{Host: "smtp.example.com"})

	var attempts int
	sink.send = func(_ context.Context, _ domain.SMTPSettings, _, _ string, _ []string) error {
		attempts++
		return errors.New("421 service not available")
	}

	incident, update := testIncident(domain.IncidentStatusInvestigating, "msg")
	err = sink.Notify(context.Background(), incident, update, []domain.Subscriber{
		{ID: "sub-1", Email: "ops@example.com"},
	}, domain.AppSettings{})
	assert.Error(t, err)
	assert.Equal(t, maxSendAttempts, attempts)
}

func TestSMTPSink_PermanentFailureIsNotRetried(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sink, err := NewSMTPSink(SMTPConfig{FromAddress: "status@example.com", SendRate: 1000}, r)
	require.NoError(t, err)
	sink.UpdateSettings(domain.SMTPSettings{Host: "smtp.example.com"})

	var attempts int
	sink.send = func(_ context.Context, _ domain.SMTPSettings, _, _ string, _ []string) error {
		attempts++
		return errors.New("550 mailbox unavailable")
	}

	incident, update := testIncident(domain.IncidentStatusInvestigating, "msg")
	err = sink.Notify(context.Background(), incident, update, []domain.Subscriber{
		{ID: "sub-1", Email: "ops@example.com"},
	}, domain.AppSettings{})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestSMTPSink_UpdateSettings(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sink, err := NewSMTPSink(SMTPConfig{FromAddress: "status@example.com"}, r)
	require.NoError(t, err)

	sink.UpdateSettings(domain.SMTPSettings{Host: "smtp.example.com", Port: 2525})
	assert.Equal(t, "smtp.example.com", sink.currentSettings().Host)

	sink.UpdateSettings(domain.SMTPSettings{})
	assert.Empty(t, sink.currentSettings().Host, "settings are replaced, not merged")
}

func TestBuildMessage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	sink, err := NewSMTPSink(SMTPConfig{FromAddress: "StatusPulse <status@example.com>"}, r)
	require.NoError(t, err)

	msg := string(sink.buildMessage("[StatusPulse] Outage", "<html></html>"))
	assert.Contains(t, msg, "From: StatusPulse <status@example.com>\r\n")
	assert.Contains(t, msg, "To: undisclosed-recipients:;\r\n")
	assert.Contains(t, msg, "Subject: [StatusPulse] Outage\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=\"utf-8\"\r\n")
	assert.Contains(t, msg, "\r\n\r\n<html></html>")
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", extractEmail("Name <a@b.com>"))
	assert.Equal(t, "a@b.com", extractEmail("a@b.com"))
	assert.Equal(t, "broken <a@b.com", extractEmail("broken <a@b.com"))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(errors.New("550 mailbox unavailable")))
	assert.True(t, IsRetryable(errors.New("451 try again later")))
	assert.True(t, IsRetryable(&net.OpError{Op: "dial", Err: fmt.Errorf("connection refused")}))

	var timeoutErr net.Error = &timeoutError{}
	assert.True(t, IsRetryable(timeoutErr))
}

type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
