package domain

import (
	"fmt"
	"strings"
	"time"
)

// DisplayLayout renders timestamps and deadlines for people.
const DisplayLayout = "02.01.2006, 15:04:05"

// DeadlineInputLayout is the primary machine format for DeadlineRaw.
const DeadlineInputLayout = "2006-01-02T15:04"

// deadlineLayouts are tried in order; zone-less layouts are read in the
// board's location.
var deadlineLayouts = []string{
	DeadlineInputLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDeadline parses a raw deadline value in loc.
func ParseDeadline(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("deadline is empty")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline %q: use YYYY-MM-DDTHH:mm", raw)
}

// FormatDisplay renders t in loc using DisplayLayout.
func FormatDisplay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// MetDeadline reports whether now is not after the deadline in raw.
// An unparsable deadline counts as missed.
func MetDeadline(raw string, now time.Time, loc *time.Location) bool {
	deadline, err := ParseDeadline(raw, loc)
	if err != nil {
		return false
	}
	return !now.After(deadline)
}
