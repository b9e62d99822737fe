package reminders

import (
	"fmt"
	"sort"
	"time"

	"carecircle/internal/models"

	"gorm.io/datatypes"
)

// Window is the half-open time-of-day range [Start, End) a tick looks at.
// When End is before Start the range crosses midnight.
type Window struct {
	Start datatypes.Time
	End   datatypes.Time
}

// NewWindow builds the due window [now, now+lookahead) on the wall clock.
// lookahead must be positive and shorter than a day.
func NewWindow(now time.Time, lookahead time.Duration) Window {
	return Window{
		Start: TimeOfDayOf(now),
		End:   TimeOfDayOf(now.Add(lookahead)),
	}
}

// Wraps reports whether the window crosses midnight
func (w Window) Wraps() bool {
	return w.End < w.Start
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t datatypes.Time) bool {
	if w.Wraps() {
		return t >= w.Start || t < w.End
	}
	return t >= w.Start && t < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", FormatTimeOfDay(w.Start), FormatTimeOfDay(w.End))
}

// Due is a reminder selected by a tick together with its parsed time of day
type Due struct {
	Reminder  models.MedicationReminder
	TimeOfDay datatypes.Time
}

// Skipped is a reminder that could not be evaluated
type Skipped struct {
	Reminder models.MedicationReminder
	Err      error
}

// SelectDue returns the unsent reminders whose time of day is inside the
// window starting at now, ordered by time of day then id. Reminders with an
// unparsable time are returned in skipped and do not stop the selection.
func SelectDue(all []models.MedicationReminder, now time.Time, lookahead time.Duration) (due []Due, skipped []Skipped) {
	w := NewWindow(now, lookahead)

	for _, r := range all {
		if r.ReminderSent {
			continue
		}
		tod, err := ParseTimeOfDay(r.Time)
		if err != nil {
			skipped = append(skipped, Skipped{Reminder: r, Err: err})
			continue
		}
		if w.Contains(tod) {
			due = append(due, Due{Reminder: r, TimeOfDay: tod})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].TimeOfDay != due[j].TimeOfDay {
			return due[i].TimeOfDay < due[j].TimeOfDay
		}
		return due[i].Reminder.ID < due[j].Reminder.ID
	})
	return due, skipped
}
