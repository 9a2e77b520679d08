package models

import (
	"fmt"
	"time"
)

// MaxSnapshotFoods caps the recent-foods snapshot stored per schedule.
const MaxSnapshotFoods = 5

// Food is one entry of a schedule's recent-foods snapshot.
type Food struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Schedule holds one user's reminder times and the foods to suggest when a
// reminder fires. Replaced wholesale on every update; never merged.
type Schedule struct {
	Times []string `json:"notificationTimes"`
	Foods []Food   `json:"foods"`
}

// ParseClockTime parses a zero-padded 24-hour "HH:MM" wall-clock string and
// returns its minute of day (hour*60 + minute). Anything else, including
// unpadded hours and out-of-range values, is an error.
func ParseClockTime(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinuteOfDay returns t's wall-clock position on the same 0..1439 scale
// that ParseClockTime uses for scheduled times.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
