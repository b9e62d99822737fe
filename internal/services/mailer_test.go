package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"carecircle/internal/config"
	"carecircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReminderMessage(t *testing.T) {
	msg := ReminderMessage(models.MedicationReminder{
		Name:           "Ravi",
		Email:          "ravi@example.com",
		MedicationName: "Aspirin",
		Dosage:         "75mg",
		Frequency:      "daily",
		Time:           "08:00",
	})

	assert.Equal(t, "Medication Reminder: Aspirin", msg.Subject)
	assert.Equal(t, "ravi@example.com", msg.ToEmail)
	assert.Equal(t, "Hello Ravi,\n\nThis is a reminder to take your medication: Aspirin "+
		"(Dosage: 75mg, Frequency: daily, Time: 08:00).\n\nNotes: None\n\nStay healthy!\nCare Circle", msg.PlainText)
}

func TestReminderMessageEscapesHTML(t *testing.T) {
	msg := ReminderMessage(models.MedicationReminder{
		Name:           "<b>Ravi</b>",
		MedicationName: "Aspirin",
		Notes:          "after food & water",
	})

	assert.Contains(t, msg.PlainText, "Notes: after food & water")
	assert.Contains(t, msg.HTML, "&lt;b&gt;Ravi&lt;/b&gt;")
	assert.Contains(t, msg.HTML, "after food &amp; water")
	assert.False(t, strings.Contains(msg.HTML, "<b>Ravi"))
}

func TestNewMailer(t *testing.T) {
	logger := zap.NewNop()

	m, err := NewMailer(config.MailConfig{Transport: config.TransportSendGrid, SendGridAPIKey: "key"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &EmailService{}, m)

	m, err = NewMailer(config.MailConfig{Transport: config.TransportSMTP, SMTPHost: "smtp.example.com", SMTPPort: 587}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	m, err = NewMailer(config.MailConfig{}, logger)
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, m)

	_, err = NewMailer(config.MailConfig{Transport: "pigeon"}, logger)
	assert.Error(t, err)
}

func TestLogMailerHonoursContext(t *testing.T) {
	m := NewLogMailer(zap.NewNop())
	require.NoError(t, m.Send(context.Background(), Message{ToEmail: "a@example.com"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{}), context.Canceled)
}

func TestSMTPCompose(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", 587, "", "", "noreply@carecircle.app", "Care Circle", zap.NewNop())
	raw := string(m.compose(Message{
		ToName:    "Ravi",
		ToEmail:   "ravi@example.com",
		Subject:   "Medication Reminder: Aspirin",
		PlainText: "line one\nline two",
	}, time.Date(2025, 8, 2, 8, 0, 0, 0, time.UTC)))

	assert.Contains(t, raw, "From: Care Circle <noreply@carecircle.app>\r\n")
	assert.Contains(t, raw, "To: Ravi <ravi@example.com>\r\n")
	assert.Contains(t, raw, "Subject: Medication Reminder: Aspirin\r\n")
	assert.Contains(t, raw, "\r\n\r\nline one\r\nline two\r\n")
}

func TestSMTPMailerDialFailure(t *testing.T) {
	m := NewSMTPMailer("127.0.0.1", 1, "", "", "noreply@carecircle.app", "Care Circle", zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, m.Send(ctx, Message{ToEmail: "ravi@example.com"}))
}
