package reminders

import (
	"context"
	"testing"
	"time"

	"carecircle/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // every connection to :memory: is a new database
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.MedicationReminder{}))
	return NewGormStore(db)
}

func newMemoryStore(t *testing.T) Store {
	return NewMemoryStore()
}

var stores = map[string]func(t *testing.T) Store{
	"gorm":   newSQLiteStore,
	"memory": newMemoryStore,
}

func seed(t *testing.T, s Store, tods ...string) []uint {
	t.Helper()
	out := make([]uint, 0, len(tods))
	for _, tod := range tods {
		r := reminder(0, tod, false)
		require.NoError(t, s.Create(context.Background(), &r))
		require.NotZero(t, r.ID)
		out = append(out, r.ID)
	}
	return out
}

func TestStoreListOrderAndFilter(t *testing.T) {
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			created := seed(t, s, "09:00:00", "07:30:00", "09:00:00")

			all, err := s.List(ctx, Filter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []uint{created[1], created[0], created[2]}, []uint{all[0].ID, all[1].ID, all[2].ID})
			assert.False(t, all[0].CreatedAt.IsZero())

			res, err := s.MarkSent(ctx, created[1], time.Now().UTC())
			require.NoError(t, err)
			require.Equal(t, MarkSucceeded, res)

			unsent, err := s.List(ctx, Unsent())
			require.NoError(t, err)
			assert.Len(t, unsent, 2)

			sentFlag := true
			sent, err := s.List(ctx, Filter{Sent: &sentFlag})
			require.NoError(t, err)
			require.Len(t, sent, 1)
			assert.Equal(t, created[1], sent[0].ID)
			assert.True(t, sent[0].ReminderSent)
			assert.NotNil(t, sent[0].SentAt)
		})
	}
}

func TestStoreMarkSentIsConditional(t *testing.T) {
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			id := seed(t, s, "18:50:00")[0]
			now := time.Date(2025, 8, 2, 18, 49, 12, 0, time.UTC)

			res, err := s.MarkSent(ctx, id, now)
			require.NoError(t, err)
			assert.Equal(t, MarkSucceeded, res)

			res, err = s.MarkSent(ctx, id, now.Add(time.Minute))
			require.NoError(t, err)
			assert.Equal(t, MarkAlreadySent, res)

			res, err = s.MarkSent(ctx, id+100, now)
			require.NoError(t, err)
			assert.Equal(t, MarkNotFound, res)
		})
	}
}

func TestStoreClaimLease(t *testing.T) {
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			id := seed(t, s, "18:50:00")[0]
			now := time.Date(2025, 8, 2, 18, 49, 12, 0, time.UTC)
			ttl := 2 * time.Minute

			res, err := s.Claim(ctx, id, "tick-a", now, ttl)
			require.NoError(t, err)
			assert.Equal(t, ClaimAcquired, res)

			res, err = s.Claim(ctx, id, "tick-b", now.Add(time.Minute), ttl)
			require.NoError(t, err)
			assert.Equal(t, ClaimHeld, res, "live lease blocks a second claimer")

			res, err = s.Claim(ctx, id, "tick-b", now.Add(3*time.Minute), ttl)
			require.NoError(t, err)
			assert.Equal(t, ClaimAcquired, res, "expired lease can be taken over")

			// a stale holder cannot release somebody else's lease
			require.NoError(t, s.Release(ctx, id, "tick-a"))
			res, err = s.Claim(ctx, id, "tick-c", now.Add(4*time.Minute), ttl)
			require.NoError(t, err)
			assert.Equal(t, ClaimHeld, res)

			require.NoError(t, s.Release(ctx, id, "tick-b"))
			res, err = s.Claim(ctx, id, "tick-c", now.Add(4*time.Minute), ttl)
			require.NoError(t, err)
			assert.Equal(t, ClaimAcquired, res)

			mark, err := s.MarkSent(ctx, id, now.Add(5*time.Minute))
			require.NoError(t, err)
			assert.Equal(t, MarkSucceeded, mark)

			res, err = s.Claim(ctx, id, "tick-d", now.Add(10*time.Minute), ttl)
			require.NoError(t, err)
			assert.Equal(t, ClaimAlreadySent, res)

			res, err = s.Claim(ctx, id+100, "tick-d", now, ttl)
			require.NoError(t, err)
			assert.Equal(t, ClaimNotFound, res)
		})
	}
}

func TestStoreCreateResetsDispatchState(t *testing.T) {
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			r := reminder(0, "08:00:00", true)
			r.ClaimToken = "forged"
			require.NoError(t, s.Create(ctx, &r))

			all, err := s.List(ctx, Unsent())
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.False(t, all[0].ReminderSent)
			assert.Empty(t, all[0].ClaimToken)
		})
	}
}
