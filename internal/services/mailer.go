package services

import (
	"fmt"
	"html"
	"strings"

	"carecircle/internal/config"
	"carecircle/internal/models"

	"go.uber.org/zap"
)

// NewMailer picks the transport named by cfg.Transport
func NewMailer(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Transport {
	case config.TransportSendGrid:
		return NewEmailService(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName, logger), nil
	case config.TransportSMTP:
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail, cfg.FromName, logger), nil
	case config.TransportLog, "":
		return NewLogMailer(logger), nil
	}
	return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
}

// ReminderMessage builds the email for one medication reminder
func ReminderMessage(r models.MedicationReminder) Message {
	notes := strings.TrimSpace(r.Notes)
	if notes == "" {
		notes = "None"
	}

	text := fmt.Sprintf("Hello %s,\n\n"+
		"This is a reminder to take your medication: %s (Dosage: %s, Frequency: %s, Time: %s).\n\n"+
		"Notes: %s\n\n"+
		"Stay healthy!\nCare Circle",
		r.Name, r.MedicationName, r.Dosage, r.Frequency, r.Time, notes)

	htmlContent := fmt.Sprintf(`
		<p>Hello %s,</p>
		<p>This is a reminder to take your medication: <strong>%s</strong></p>
		<ul>
			<li><strong>Dosage:</strong> %s</li>
			<li><strong>Frequency:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p><strong>Notes:</strong> %s</p>
		<p>Stay healthy!<br>Care Circle</p>
	`,
		html.EscapeString(r.Name),
		html.EscapeString(r.MedicationName),
		html.EscapeString(r.Dosage),
		html.EscapeString(r.Frequency),
		html.EscapeString(r.Time),
		html.EscapeString(notes),
	)

	return Message{
		ToName:    r.Name,
		ToEmail:   r.Email,
		Subject:   "Medication Reminder: " + r.MedicationName,
		PlainText: text,
		HTML:      htmlContent,
	}
}
