package reminders

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// ErrInvalidTime is returned for values that are not HH:mm or HH:mm:ss
var ErrInvalidTime = errors.New("invalid time of day")

// ParseTimeOfDay parses "HH:mm" or "HH:mm:ss". "07:30" and "07:30:00" are the same value.
func ParseTimeOfDay(s string) (datatypes.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTime)
	}

	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		parts = append(parts, "00")
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	var hms [3]int
	limits := [3]int{23, 59, 59}
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		hms[i] = n
	}
	return datatypes.NewTime(hms[0], hms[1], hms[2], 0), nil
}

// NormalizeTime rewrites a valid time of day as zero padded HH:mm:ss
func NormalizeTime(s string) (string, error) {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		return "", err
	}
	return FormatTimeOfDay(t), nil
}

// FormatTimeOfDay renders t as HH:mm:ss, dropping sub-second precision
func FormatTimeOfDay(t datatypes.Time) string {
	d := time.Duration(t)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
}

// TimeOfDayOf returns the wall clock part of t in t's own location
func TimeOfDayOf(t time.Time) datatypes.Time {
	return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), t.Nanosecond())
}

// On places a time of day on the calendar date of day, in day's location
func On(day time.Time, tod datatypes.Time) time.Time {
	y, mo, d := day.Date()
	midnight := time.Date(y, mo, d, 0, 0, 0, 0, day.Location())
	return midnight.Add(time.Duration(tod))
}
