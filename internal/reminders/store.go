package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carecircle/internal/models"

	"gorm.io/gorm"
)

// DueScanQuery is the SQL fragment of the per-minute unsent scan on postgres.
// The gorm logger filters it out so the SQL log is not flooded once a minute.
const DueScanQuery = `FROM "medications" WHERE reminder_sent = false`

// ClaimResult is the outcome of a Claim
type ClaimResult int

const (
	ClaimAcquired    ClaimResult = iota // caller holds the lease and may dispatch
	ClaimHeld                           // another dispatcher holds a live lease
	ClaimAlreadySent                    // nothing left to do
	ClaimNotFound
)

func (r ClaimResult) String() string {
	switch r {
	case ClaimAcquired:
		return "acquired"
	case ClaimHeld:
		return "held"
	case ClaimAlreadySent:
		return "already_sent"
	case ClaimNotFound:
		return "not_found"
	}
	return "unknown"
}

// MarkResult is the outcome of a MarkSent
type MarkResult int

const (
	MarkSucceeded MarkResult = iota
	MarkAlreadySent
	MarkNotFound
)

func (r MarkResult) String() string {
	switch r {
	case MarkSucceeded:
		return "succeeded"
	case MarkAlreadySent:
		return "already_sent"
	case MarkNotFound:
		return "not_found"
	}
	return "unknown"
}

// Filter narrows List. A nil Sent lists everything.
type Filter struct {
	Sent *bool
}

// Unsent is the filter used by the scheduler
func Unsent() Filter {
	f := false
	return Filter{Sent: &f}
}

// Store is the persistence the reminder pipeline needs
type Store interface {
	Create(ctx context.Context, r *models.MedicationReminder) error
	// List returns reminders ordered by time then id
	List(ctx context.Context, f Filter) ([]models.MedicationReminder, error)
	// Claim takes a dispatch lease on an unsent reminder. Only one caller can
	// hold a live lease, so concurrent ticks never both send the same reminder.
	Claim(ctx context.Context, id uint, token string, now time.Time, ttl time.Duration) (ClaimResult, error)
	// Release gives up a lease without marking the reminder sent
	Release(ctx context.Context, id uint, token string) error
	// MarkSent sets the sent flag if it is not set yet and clears any lease
	MarkSent(ctx context.Context, id uint, at time.Time) (MarkResult, error)
}

// GormStore implements Store on the medications table
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, r *models.MedicationReminder) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create medication reminder: %w", err)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, f Filter) ([]models.MedicationReminder, error) {
	query := s.db.WithContext(ctx).Model(&models.MedicationReminder{})
	if f.Sent != nil {
		query = query.Where("reminder_sent = ?", *f.Sent)
	}

	var reminders []models.MedicationReminder
	if err := query.Order("time ASC").Order("id ASC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to list medication reminders: %w", err)
	}
	return reminders, nil
}

func (s *GormStore) Claim(ctx context.Context, id uint, token string, now time.Time, ttl time.Duration) (ClaimResult, error) {
	if token == "" {
		return ClaimHeld, errors.New("claim token must not be empty")
	}

	res := s.db.WithContext(ctx).Model(&models.MedicationReminder{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		Where("(claim_token = '' OR claimed_until IS NULL OR claimed_until < ?)", now).
		Updates(map[string]interface{}{
			"claim_token":   token,
			"claimed_until": now.Add(ttl),
		})
	if res.Error != nil {
		return ClaimHeld, fmt.Errorf("failed to claim reminder %d: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return ClaimAcquired, nil
	}

	current, err := s.find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ClaimNotFound, nil
	}
	if err != nil {
		return ClaimHeld, err
	}
	if current.ReminderSent {
		return ClaimAlreadySent, nil
	}
	return ClaimHeld, nil
}

func (s *GormStore) Release(ctx context.Context, id uint, token string) error {
	err := s.db.WithContext(ctx).Model(&models.MedicationReminder{}).
		Where("id = ? AND claim_token = ? AND reminder_sent = ?", id, token, false).
		Updates(map[string]interface{}{
			"claim_token":   "",
			"claimed_until": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to release reminder %d: %w", id, err)
	}
	return nil
}

func (s *GormStore) MarkSent(ctx context.Context, id uint, at time.Time) (MarkResult, error) {
	res := s.db.WithContext(ctx).Model(&models.MedicationReminder{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		Updates(map[string]interface{}{
			"reminder_sent": true,
			"sent_at":       at,
			"claim_token":   "",
			"claimed_until": nil,
		})
	if res.Error != nil {
		return MarkNotFound, fmt.Errorf("failed to mark reminder %d sent: %w", id, res.Error)
	}
	if res.RowsAffected == 1 {
		return MarkSucceeded, nil
	}

	_, err := s.find(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return MarkNotFound, nil
	}
	if err != nil {
		return MarkNotFound, err
	}
	return MarkAlreadySent, nil
}

func (s *GormStore) find(ctx context.Context, id uint) (models.MedicationReminder, error) {
	var r models.MedicationReminder
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	return r, err
}
