package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"carecircle/internal/metrics"
	"carecircle/internal/reminders"

	"go.uber.org/zap"
)

// ErrTickInProgress is returned by Tick when the previous tick has not finished
var ErrTickInProgress = errors.New("reminder tick already in progress")

// TickReport summarises one scan and notify cycle
type TickReport struct {
	Now     time.Time
	Window  reminders.Window
	Scanned int
	Due     int
	Skipped int
	Sent    int
	Failed  int
	Held    int
}

// ReminderWorker scans for due medication reminders on a fixed period and
// hands each one to the Notifier.
type ReminderWorker struct {
	store     reminders.Store
	notifier  *Notifier
	interval  time.Duration
	lookahead time.Duration
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger

	running atomic.Bool
	wg      sync.WaitGroup
}

type WorkerOption func(*ReminderWorker)

// WithClock replaces time.Now
func WithClock(now func() time.Time) WorkerOption {
	return func(w *ReminderWorker) { w.now = now }
}

// WithLocation sets the zone reminder times are read in
func WithLocation(loc *time.Location) WorkerOption {
	return func(w *ReminderWorker) { w.location = loc }
}

func NewReminderWorker(store reminders.Store, notifier *Notifier, interval, lookahead time.Duration, logger *zap.Logger, opts ...WorkerOption) *ReminderWorker {
	w := &ReminderWorker{
		store:     store,
		notifier:  notifier,
		interval:  interval,
		lookahead: lookahead,
		location:  time.Local,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the worker in the background until ctx is cancelled. The
// returned channel is closed once the loop and any in-flight tick return.
func (w *ReminderWorker) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return done
}

// Run blocks until ctx is cancelled. A tick that is still running when the
// next one fires causes that next one to be skipped.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Medication reminder worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("lookahead", w.lookahead),
		zap.String("timezone", w.location.String()),
	)

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.logger.Info("Medication reminder worker stopped")
			return
		case <-ticker.C:
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				_, err := w.Tick(ctx, w.now())
				if errors.Is(err, ErrTickInProgress) {
					w.logger.Warn("Previous reminder tick still running, skipping this one")
				}
			}()
		}
	}
}

// Tick performs one scan and notify cycle at now. Store errors are logged and
// returned; the next tick starts from scratch. A panic inside the cycle is
// recovered so the worker keeps ticking.
func (w *ReminderWorker) Tick(ctx context.Context, now time.Time) (report TickReport, err error) {
	if !w.running.CompareAndSwap(false, true) {
		metrics.RecordTick("skipped_overlap", 0)
		return TickReport{}, ErrTickInProgress
	}
	defer w.running.Store(false)

	start := time.Now()
	result := "ok"
	defer func() {
		if p := recover(); p != nil {
			w.logger.Error("Reminder tick panicked", zap.Any("panic", p), zap.Stack("stack"))
			err = fmt.Errorf("reminder tick panicked: %v", p)
			result = "panic"
		}
		metrics.RecordTick(result, time.Since(start))
	}()

	now = now.In(w.location)
	report = TickReport{Now: now, Window: reminders.NewWindow(now, w.lookahead)}

	unsent, err := w.store.List(ctx, reminders.Unsent())
	if err != nil {
		w.logger.Error("Failed to load unsent reminders, skipping tick", zap.Error(err))
		result = "store_error"
		return report, err
	}
	report.Scanned = len(unsent)

	due, skipped := reminders.SelectDue(unsent, now, w.lookahead)
	report.Due = len(due)
	report.Skipped = len(skipped)
	metrics.RemindersDue.Set(float64(len(due)))

	for _, s := range skipped {
		metrics.RecordDispatch("skipped_invalid")
		w.logger.Warn("Skipping reminder with invalid time",
			zap.Uint("reminder_id", s.Reminder.ID),
			zap.String("time", s.Reminder.Time),
			zap.Error(s.Err),
		)
	}

	for i, d := range due {
		if ctx.Err() != nil {
			w.logger.Info("Shutdown requested, leaving remaining reminders for later",
				zap.Int("remaining", len(due)-i))
			break
		}
		switch w.notifier.Notify(ctx, d, now) {
		case OutcomeSent:
			report.Sent++
		case OutcomeFailed:
			report.Failed++
		case OutcomeHeld:
			report.Held++
		}
	}

	if report.Due > 0 || report.Skipped > 0 {
		w.logger.Info("Reminder tick finished",
			zap.Stringer("window", report.Window),
			zap.Int("due", report.Due),
			zap.Int("sent", report.Sent),
			zap.Int("failed", report.Failed),
			zap.Int("held", report.Held),
			zap.Int("skipped", report.Skipped),
		)
	}
	return report, nil
}
