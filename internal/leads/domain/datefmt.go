package domain

import (
	"strings"
	"time"
)

const (
	displayDateLayout = "Jan 2, 2006"
	displayTimeLayout = "3:04 PM"
)

// FormatDisplayDate renders an instant as a short display date, e.g.
// "Dec 20, 2024".
func FormatDisplayDate(t time.Time) string {
	return t.Format(displayDateLayout)
}

// FormatDisplayTime renders an instant as a 12-hour clock with zero-padded
// minutes, e.g. "2:05 PM".
func FormatDisplayTime(t time.Time) string {
	return t.Format(displayTimeLayout)
}

// ParseDisplayInstant converts a display date with an optional display time
// back into an instant. Follow-up label suffixes like " (Today)" are ignored.
// Returns nil when the date does not parse.
func ParseDisplayInstant(date, clock string) *time.Time {
	if idx := strings.Index(date, " ("); idx >= 0 {
		date = date[:idx]
	}

	day, err := time.Parse(displayDateLayout, date)
	if err != nil {
		return nil
	}

	if clock != "" {
		if t, err := time.Parse(displayTimeLayout, clock); err == nil {
			day = day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
	}
	return &day
}
