package countdown

import (
	"fmt"
	"time"

	"carecircle/internal/reminders"

	"gorm.io/datatypes"
)

// Target is today's occurrence of tod in now's location
func Target(now time.Time, tod datatypes.Time) time.Time {
	return reminders.On(now, tod)
}

// Remaining is the time left until target, never negative. A target earlier
// today stays at zero; the countdown does not roll over to tomorrow.
func Remaining(now, target time.Time) time.Duration {
	if d := target.Sub(now); d > 0 {
		return d
	}
	return 0
}

// FormatRemaining renders d as zero padded HH:MM:SS, truncated to whole seconds
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
