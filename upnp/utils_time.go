package upnp

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Devices are sloppy with timezone offsets and may send a single-digit hour
// such as "+1:00". Go's reference layouts require two digits.
var shortOffsetRe = regexp.MustCompile(`([+-])(\d)(:\d{2})$`)

// normalizeTZOffset pads one-digit offset hours ("+1:00" -> "+01:00") so the
// value can be parsed with the standard "Z07:00" layout.
func normalizeTZOffset(s string) string {
	return shortOffsetRe.ReplaceAllString(s, "${1}0${2}${3}")
}

// parseDateOnly parses a plain calendar date (YYYY-MM-DD).
func parseDateOnly(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

// dateTime layouts without timezone information. A bare date is accepted as
// a dateTime with a zero clock, which mirrors how permissive date parsers
// treat it.
var naiveDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// dateTime layouts carrying an explicit timezone (or Zulu marker).
var zonedDateTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z",
}

// parseDateTime parses a UPnP dateTime value. hasTZ reports whether the
// string carried timezone information, which "dateTime" forbids and
// "dateTime.tz" allows.
func parseDateTime(s string) (t time.Time, hasTZ bool, err error) {
	s = normalizeTZOffset(strings.TrimSpace(s))

	for _, layout := range naiveDateTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, false, nil
		}
	}
	for _, layout := range zonedDateTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid dateTime value: %q", s)
}

// parseClock parses a UPnP time-of-day value (HH:MM:SS with an optional
// timezone offset). hasTZ reports whether an offset was present.
func parseClock(s string) (t time.Time, hasTZ bool, err error) {
	s = normalizeTZOffset(strings.TrimSpace(s))

	if ts, err := time.Parse("15:04:05", s); err == nil {
		return ts, false, nil
	}
	for _, layout := range []string{"15:04:05Z07:00", "15:04:05-0700"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid time value: %q", s)
}

// sameCalendarDay reports whether both instants fall on the same calendar
// date.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
