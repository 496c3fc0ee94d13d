package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the day-granularity layout used as the grouping key.
const DayLayout = "2006-01-02"

// DayKey returns the YYYY-MM-DD prefix of an ISO date, discarding any time
// component. "2025-11-19" and "2025-11-19T10:00:00" share the same key.
func DayKey(date string) string {
	date = strings.TrimSpace(date)
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

// DateString formats t as a day key in t's own location.
func DateString(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses the day key of date in loc.
func ParseDay(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DayLayout, DayKey(date), loc)
}

// ParseClock converts an "HH:MM" wall-clock string to minutes after midnight.
func ParseClock(value string) (int, error) {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, fmt.Errorf("schedule: invalid time %q", value)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("schedule: invalid time %q", value)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("schedule: invalid time %q", value)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes after midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
