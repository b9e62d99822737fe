package services

import (
	"context"
	"time"

	"carecircle/internal/metrics"
	"carecircle/internal/reminders"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome of one dispatch attempt
type Outcome string

const (
	OutcomeSent        Outcome = "sent"
	OutcomeFailed      Outcome = "failed"
	OutcomeHeld        Outcome = "claim_held"
	OutcomeAlreadySent Outcome = "already_sent"
	OutcomeNotFound    Outcome = "not_found"
)

const markSentTimeout = 5 * time.Second

// Notifier emails a single due reminder and records it as sent
type Notifier struct {
	store       reminders.Store
	mailer      Mailer
	sendTimeout time.Duration
	claimTTL    time.Duration
	logger      *zap.Logger
}

func NewNotifier(store reminders.Store, mailer Mailer, sendTimeout, claimTTL time.Duration, logger *zap.Logger) *Notifier {
	return &Notifier{
		store:       store,
		mailer:      mailer,
		sendTimeout: sendTimeout,
		claimTTL:    claimTTL,
		logger:      logger,
	}
}

// Notify claims the reminder, sends it and marks it sent. The sent flag is
// only written after the transport accepted the message. A failed send
// releases the claim so the next tick retries.
func (n *Notifier) Notify(ctx context.Context, due reminders.Due, now time.Time) Outcome {
	r := due.Reminder
	log := n.logger.With(
		zap.Uint("reminder_id", r.ID),
		zap.String("email", r.Email),
		zap.String("medication", r.MedicationName),
		zap.String("time", r.Time),
	)

	token := uuid.NewString()
	claim, err := n.store.Claim(ctx, r.ID, token, now, n.claimTTL)
	if err != nil {
		log.Error("Failed to claim reminder", zap.Error(err))
		return n.record(OutcomeFailed)
	}
	switch claim {
	case reminders.ClaimHeld:
		log.Debug("Reminder is being sent by another dispatcher")
		return n.record(OutcomeHeld)
	case reminders.ClaimAlreadySent:
		return n.record(OutcomeAlreadySent)
	case reminders.ClaimNotFound:
		log.Warn("Reminder disappeared before dispatch")
		return n.record(OutcomeNotFound)
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	err = n.mailer.Send(sendCtx, ReminderMessage(r))
	cancel()
	if err != nil {
		log.Error("Failed to send medication reminder", zap.Error(err))
		n.release(ctx, r.ID, token, log)
		return n.record(OutcomeFailed)
	}

	// The email is out. Record it even if the tick is being cancelled.
	markCtx, cancelMark := context.WithTimeout(context.WithoutCancel(ctx), markSentTimeout)
	defer cancelMark()

	res, err := n.store.MarkSent(markCtx, r.ID, time.Now())
	if err != nil {
		log.Error("Reminder sent but could not be marked as sent", zap.Error(err))
		return n.record(OutcomeSent)
	}
	if res != reminders.MarkSucceeded {
		log.Warn("Reminder sent but mark-sent found it changed", zap.Stringer("result", res))
	}

	log.Info("Sent medication reminder")
	return n.record(OutcomeSent)
}

func (n *Notifier) release(ctx context.Context, id uint, token string, log *zap.Logger) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markSentTimeout)
	defer cancel()
	if err := n.store.Release(releaseCtx, id, token); err != nil {
		log.Warn("Failed to release reminder claim, it will expire", zap.Error(err))
	}
}

func (n *Notifier) record(o Outcome) Outcome {
	metrics.RecordDispatch(string(o))
	return o
}
