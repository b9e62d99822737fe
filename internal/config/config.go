package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mail transports understood by services.NewMailer
const (
	TransportSendGrid = "sendgrid"
	TransportSMTP     = "smtp"
	TransportLog      = "log"
)

// Config is the full application configuration
type Config struct {
	Env       string          `yaml:"-"`
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Mail      MailConfig      `yaml:"mail"`
	Reminders ReminderConfig  `yaml:"reminders"`
	Countdown CountdownConfig `yaml:"countdown"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"` // gin mode: debug, release, test
	PublicDir       string        `yaml:"public_dir"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DBConfig database settings. URL wins over the individual parts.
type DBConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

// MailConfig outgoing mail settings
type MailConfig struct {
	Transport      string        `yaml:"transport"`
	FromEmail      string        `yaml:"from_email"`
	FromName       string        `yaml:"from_name"`
	SendGridAPIKey string        `yaml:"sendgrid_api_key"`
	SMTPHost       string        `yaml:"smtp_host"`
	SMTPPort       int           `yaml:"smtp_port"`
	SMTPUser       string        `yaml:"smtp_user"`
	SMTPPassword   string        `yaml:"smtp_password"`
	SendTimeout    time.Duration `yaml:"send_timeout"`
}

// ReminderConfig medication reminder scheduler settings
type ReminderConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	Lookahead time.Duration `yaml:"lookahead"`
	ClaimTTL  time.Duration `yaml:"claim_ttl"`
	Timezone  string        `yaml:"timezone"`
}

// CountdownConfig settings for the countdown client
type CountdownConfig struct {
	BaseURL      string        `yaml:"base_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

// Default returns the configuration used when no file overrides a value
func Default() Config {
	return Config{
		Env: "local",
		Server: ServerConfig{
			Port:            "3000",
			Mode:            "debug",
			PublicDir:       "public",
			TrustedProxies:  []string{"127.0.0.1"},
			ShutdownTimeout: 30 * time.Second,
		},
		DB: DBConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "carecircle",
			SSLMode: "disable",
		},
		Mail: MailConfig{
			FromName:    "Care Circle",
			SMTPPort:    587,
			SendTimeout: 15 * time.Second,
		},
		Reminders: ReminderConfig{
			Enabled:   true,
			Interval:  time.Minute,
			Lookahead: 5 * time.Minute,
			ClaimTTL:  2 * time.Minute,
			Timezone:  "Local",
		},
		Countdown: CountdownConfig{
			BaseURL:      "http://localhost:3000",
			FetchTimeout: 10 * time.Second,
		},
	}
}

// Location resolves the reminder timezone. Time-of-day values are interpreted in it.
func (r ReminderConfig) Location() (*time.Location, error) {
	if r.Timezone == "" || strings.EqualFold(r.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(r.Timezone)
}

// Validate checks settings that would otherwise fail at runtime
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port must be set")
	}
	if c.Reminders.Interval <= 0 {
		return fmt.Errorf("reminders.interval must be positive, got %s", c.Reminders.Interval)
	}
	if c.Reminders.Lookahead <= 0 {
		return fmt.Errorf("reminders.lookahead must be positive, got %s", c.Reminders.Lookahead)
	}
	if c.Reminders.Lookahead >= 24*time.Hour {
		return fmt.Errorf("reminders.lookahead must be shorter than a day, got %s", c.Reminders.Lookahead)
	}
	if c.Reminders.ClaimTTL <= 0 {
		return fmt.Errorf("reminders.claim_ttl must be positive, got %s", c.Reminders.ClaimTTL)
	}
	if c.Mail.SendTimeout <= 0 {
		return fmt.Errorf("mail.send_timeout must be positive, got %s", c.Mail.SendTimeout)
	}
	// a lease that expires mid-send would let a second dispatcher send again
	if c.Reminders.ClaimTTL <= c.Mail.SendTimeout {
		return fmt.Errorf("reminders.claim_ttl (%s) must be longer than mail.send_timeout (%s)", c.Reminders.ClaimTTL, c.Mail.SendTimeout)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if _, err := c.Reminders.Location(); err != nil {
		return fmt.Errorf("invalid reminders.timezone %q: %w", c.Reminders.Timezone, err)
	}

	switch c.Mail.Transport {
	case TransportSendGrid:
		if c.Mail.SendGridAPIKey == "" {
			return fmt.Errorf("mail.sendgrid_api_key is required for the sendgrid transport")
		}
	case TransportSMTP:
		if c.Mail.SMTPHost == "" {
			return fmt.Errorf("mail.smtp_host is required for the smtp transport")
		}
	case TransportLog:
	default:
		return fmt.Errorf("unknown mail.transport %q", c.Mail.Transport)
	}
	return nil
}

// IsRelease reports whether gin runs in release mode
func (c Config) IsRelease() bool {
	return c.Server.Mode == "release"
}

// overrideFromEnv applies environment variables on top of file values.
// Variable names match the .env used on Railway/Neon.
func overrideFromEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Mode, "GIN_MODE")
	setString(&cfg.Server.PublicDir, "PUBLIC_DIR")

	setString(&cfg.DB.URL, "DATABASE_URL")
	setString(&cfg.DB.Host, "DB_HOST")
	setInt(&cfg.DB.Port, "DB_PORT")
	setString(&cfg.DB.User, "DB_USER")
	setString(&cfg.DB.Password, "DB_PASSWORD")
	setString(&cfg.DB.Name, "DB_NAME")
	setString(&cfg.DB.SSLMode, "DB_SSL_MODE")

	setString(&cfg.Mail.Transport, "MAIL_TRANSPORT")
	setString(&cfg.Mail.FromEmail, "REMINDER_FROM")
	setString(&cfg.Mail.FromName, "REMINDER_FROM_NAME")
	setString(&cfg.Mail.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&cfg.Mail.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Mail.SMTPPort, "SMTP_PORT")
	setString(&cfg.Mail.SMTPUser, "SMTP_USER")
	setString(&cfg.Mail.SMTPPassword, "SMTP_PASS")

	setString(&cfg.Reminders.Timezone, "REMINDER_TIMEZONE")
	setDuration(&cfg.Reminders.Lookahead, "REMINDER_LOOKAHEAD")
	setDuration(&cfg.Reminders.Interval, "REMINDER_INTERVAL")
	if v := os.Getenv("REMINDERS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Reminders.Enabled = b
		}
	}

	setString(&cfg.Countdown.BaseURL, "CARECIRCLE_URL")
}

// resolveTransport picks a transport when none was configured explicitly
func resolveTransport(m *MailConfig) {
	if m.Transport != "" {
		return
	}
	switch {
	case m.SendGridAPIKey != "":
		m.Transport = TransportSendGrid
	case m.SMTPHost != "":
		m.Transport = TransportSMTP
	default:
		m.Transport = TransportLog
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
