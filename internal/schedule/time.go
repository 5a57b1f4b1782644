package schedule

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseMinutes converts an "HH:MM" label into minutes since midnight.
// Malformed labels yield 0, matching the lenient treatment of stored data.
func ParseMinutes(label string) int {
	var h, m int
	if _, err := fmt.Sscanf(label, "%d:%d", &h, &m); err != nil {
		return 0
	}
	return h*60 + m
}

// FormatMinutes converts minutes since midnight into a zero-padded "HH:MM"
// label. Zero padding keeps lexicographic order equal to chronological order.
func FormatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Weekday resolves a "YYYY-MM-DD" date to its weekday index (0 = Sunday).
// The calculation is UTC-based so the weekly schedule is independent of the
// host timezone. Returns false for malformed dates.
func Weekday(date string) (int, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, false
	}
	return int(t.Weekday()), true
}
