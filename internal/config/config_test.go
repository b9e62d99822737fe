package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "GIN_MODE", "PUBLIC_DIR", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER",
	"DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "MAIL_TRANSPORT", "REMINDER_FROM",
	"REMINDER_FROM_NAME", "SENDGRID_API_KEY", "SMTP_HOST", "SMTP_PORT", "SMTP_USER",
	"SMTP_PASS", "REMINDER_TIMEZONE", "REMINDER_LOOKAHEAD", "REMINDER_INTERVAL",
	"REMINDERS_ENABLED", "CARECIRCLE_URL", "CONFIG_ENV",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("local", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Reminders.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Reminders.Lookahead)
	assert.Equal(t, TransportLog, cfg.Mail.Transport)
}

func TestLoadMergesEnvironmentFileOverBase(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server:\n  port: \"4000\"\nreminders:\n  lookahead: 10m\n")
	writeFile(t, dir, "staging.yaml", "reminders:\n  lookahead: 3m\n")

	cfg, err := Load("staging", dir)
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, 3*time.Minute, cfg.Reminders.Lookahead)
	assert.Equal(t, time.Minute, cfg.Reminders.Interval, "keys absent from both files keep defaults")
}

func TestEnvironmentWinsOverFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server:\n  port: \"4000\"\n")
	t.Setenv("PORT", "5050")
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("REMINDER_FROM", "care@example.com")

	cfg, err := Load("local", dir)
	require.NoError(t, err)

	assert.Equal(t, "5050", cfg.Server.Port)
	assert.Equal(t, TransportSendGrid, cfg.Mail.Transport)
	assert.Equal(t, "care@example.com", cfg.Mail.FromEmail)
}

func TestSMTPTransportChosenWhenOnlyHostIsSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load("local", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, TransportSMTP, cfg.Mail.Transport)
	assert.Equal(t, 2525, cfg.Mail.SMTPPort)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server: [not, a, map\n")

	_, err := Load("local", dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Mail.Transport = TransportLog
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"zero interval":        func(c *Config) { c.Reminders.Interval = 0 },
		"negative lookahead":   func(c *Config) { c.Reminders.Lookahead = -time.Minute },
		"day long lookahead":   func(c *Config) { c.Reminders.Lookahead = 24 * time.Hour },
		"unknown transport":    func(c *Config) { c.Mail.Transport = "pigeon" },
		"sendgrid without key": func(c *Config) { c.Mail.Transport = TransportSendGrid },
		"bad timezone":         func(c *Config) { c.Reminders.Timezone = "Mars/Olympus" },
		"claim ttl below send": func(c *Config) { c.Reminders.ClaimTTL = 10 * time.Second },
		"unknown gin mode":     func(c *Config) { c.Server.Mode = "verbose" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLocation(t *testing.T) {
	loc, err := ReminderConfig{Timezone: "Local"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = ReminderConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
