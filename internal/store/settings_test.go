package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/conzex/statuspulse/internal/domain"
	"github.com/conzex/statuspulse/internal/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTheme(t *testing.T) {
	s := newTestStore(t, Options{})

	require.NoError(t, s.SetTheme(domain.ThemeDark))
	assert.Equal(t, domain.ThemeDark, s.State().Theme)

	assert.ErrorIs(t, s.SetTheme(domain.Theme("sepia")), ErrInvalidInput)
	assert.Equal(t, domain.ThemeDark, s.State().Theme)
}

func TestUpdateSMTPSettings_WholesaleReplace(t *testing.T) {
	s := newTestStore(t, Options{})

	s.UpdateSMTPSettings(domain.SMTPSettings{Host: "mail.example.com", Port: 25})

	got := s.State().SMTPSettings
	assert.Equal(t, "mail.example.com", got.Host)
	assert.Equal(t, 25, got.Port)
	assert.False(t, got.Secure, "replace, not merge")
}

func TestUpdateAppSettings_Merge(t *testing.T) {
	s := newTestStore(t, Options{})
	original := s.State().AppSettings

	name := "Conzex Status"
	credit := ""
	s.UpdateAppSettings(AppSettingsPatch{AppName: &name, FooterCredit: &credit})

	got := s.State().AppSettings
	assert.Equal(t, "Conzex Status", got.AppName)
	assert.Empty(t, got.FooterCredit, "explicit empty value is applied")
	assert.Equal(t, original.LogoURL, got.LogoURL, "untouched fields survive")
	assert.Equal(t, original.CompanyName, got.CompanyName)
}

func TestRestoreDefaultAppSettings(t *testing.T) {
	s := newTestStore(t, Options{})

	name := "Renamed"
	s.UpdateAppSettings(AppSettingsPatch{AppName: &name})
	require.Equal(t, "Renamed", s.State().AppSettings.AppName)

	s.RestoreDefaultAppSettings()
	assert.Equal(t, DefaultAppSettings(), s.State().AppSettings)
}

func TestTestSMTPConnection_DelegatesToTester(t *testing.T) {
	tester := &mockTester{result: notifications.TestResult{Success: true, Message: "ok"}}
	s := newTestStore(t, Options{Tester: tester})

	result := s.TestSMTPConnection(context.Background(), domain.SMTPSettings{Host: "h"}, "ops@example.com")
	assert.True(t, result.Success)
	assert.Equal(t, 1, tester.calls)
}

func TestTestSMTPConnection_SingleFlight(t *testing.T) {
	tester := &mockTester{
		result: notifications.TestResult{Success: true, Message: "ok"},
		delay:  200 * time.Millisecond,
	}
	s := newTestStore(t, Options{Tester: tester})

	var wg sync.WaitGroup
	results := make([]notifications.TestResult, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.TestSMTPConnection(context.Background(), domain.SMTPSettings{}, "ops@example.com")
		}(i)
	}
	wg.Wait()

	succeeded, busy := 0, 0
	for _, r := range results {
		if r.Success {
			succeeded++
		} else {
			assert.Equal(t, "A connection test is already in progress.", r.Message)
			busy++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, busy)
}
