package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/field-report-api/internal/constants"
)

// ParseDate validates a YYYY-MM-DD calendar day and returns it normalized.
func ParseDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(constants.DateLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t.Format(constants.DateLayout), nil
}

// FormatDate renders the calendar day of t in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(constants.DateLayout)
}

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// Today returns the calendar day of the clock's current time in loc.
func (c Clock) Today(loc *time.Location) string {
	now := time.Now
	if c != nil {
		now = c
	}
	return FormatDate(now(), loc)
}
