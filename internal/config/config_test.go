package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DESK_DEFAULT_ROLE", "")
	t.Setenv("DESK_CATEGORIES", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, domain.RoleEndUser, cfg.Desk.DefaultRole)
	assert.Empty(t, cfg.Desk.Categories)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadDeskSettings(t *testing.T) {
	t.Setenv("DESK_DEFAULT_ROLE", "agent")
	t.Setenv("DESK_CATEGORIES", " Billing , ,Outage")
	t.Setenv("DESK_SEED_SAMPLE_DATA", "true")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, cfg.Desk.DefaultRole)
	assert.Equal(t, []string{"Billing", "Outage"}, cfg.Desk.Categories)
	assert.True(t, cfg.Desk.SeedSampleData)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
}

func TestLoadRejectsUnknownDefaultRole(t *testing.T) {
	t.Setenv("DESK_DEFAULT_ROLE", "superuser")

	_, err := Load()
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:9000", AppConfig{Host: "127.0.0.1", Port: "9000"}.Addr())
}
