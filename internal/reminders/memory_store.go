package reminders

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"carecircle/internal/models"
)

// MemoryStore is a Store kept in process memory. Every operation holds one
// mutex, which gives Claim and MarkSent the same conditional-write semantics
// as the SQL implementation.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*models.MedicationReminder
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[uint]*models.MedicationReminder),
		now:  time.Now,
	}
}

func (s *MemoryStore) Create(ctx context.Context, r *models.MedicationReminder) error {
	if r == nil {
		return errors.New("nil reminder")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = s.nextID
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.ReminderSent = false
	r.SentAt = nil
	r.ClaimToken = ""
	r.ClaimedUntil = nil

	row := *r
	s.rows[row.ID] = &row
	return nil
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]models.MedicationReminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.MedicationReminder, 0, len(s.rows))
	for _, r := range s.rows {
		if f.Sent != nil && r.ReminderSent != *f.Sent {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Claim(ctx context.Context, id uint, token string, now time.Time, ttl time.Duration) (ClaimResult, error) {
	if token == "" {
		return ClaimHeld, errors.New("claim token must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	switch {
	case !ok:
		return ClaimNotFound, nil
	case r.ReminderSent:
		return ClaimAlreadySent, nil
	case r.ClaimToken != "" && r.ClaimedUntil != nil && !r.ClaimedUntil.Before(now):
		return ClaimHeld, nil
	}

	until := now.Add(ttl)
	r.ClaimToken = token
	r.ClaimedUntil = &until
	return ClaimAcquired, nil
}

func (s *MemoryStore) Release(ctx context.Context, id uint, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.rows[id]; ok && !r.ReminderSent && r.ClaimToken == token {
		r.ClaimToken = ""
		r.ClaimedUntil = nil
	}
	return nil
}

func (s *MemoryStore) MarkSent(ctx context.Context, id uint, at time.Time) (MarkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return MarkNotFound, nil
	}
	if r.ReminderSent {
		return MarkAlreadySent, nil
	}
	r.ReminderSent = true
	r.SentAt = &at
	r.ClaimToken = ""
	r.ClaimedUntil = nil
	return MarkSucceeded, nil
}

// Get returns a copy of one reminder
func (s *MemoryStore) Get(id uint) (models.MedicationReminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return models.MedicationReminder{}, false
	}
	return *r, true
}
