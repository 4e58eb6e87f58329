package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Times of day are carried as minutes from midnight (e.g., 480 for 8:00 AM),
// matching how slot windows are stored everywhere else in the engine.

// ParseClock parses a 12-hour clock string such as "8:00 AM", "2 PM" or
// "12:30pm" into minutes from midnight. Narrow and non-breaking spaces, which
// the booking grid uses between minutes and meridiem, are tolerated.
func ParseClock(s string) (int, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(s))
	cleaned = strings.ReplaceAll(cleaned, " ", " ")
	cleaned = strings.ReplaceAll(cleaned, " ", " ")

	var meridiem string
	switch {
	case strings.HasSuffix(cleaned, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(cleaned, "PM"):
		meridiem = "PM"
	default:
		return 0, fmt.Errorf("missing AM/PM marker in %q", s)
	}
	cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, meridiem))

	hourPart := cleaned
	minutePart := "0"
	if idx := strings.Index(cleaned, ":"); idx >= 0 {
		hourPart = cleaned[:idx]
		minutePart = cleaned[idx+1:]
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value out of range in %q", s)
	}

	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}
	return hour*60 + minute, nil
}

// ParseClock24 parses a 24-hour "HH:MM" string (venue config format) into
// minutes from midnight.
func ParseClock24(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value out of range in %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes from midnight as a 12-hour clock string,
// e.g. 480 -> "8:00 AM", 1260 -> "9:00 PM".
func FormatClock(minutes int) string {
	minutes %= 24 * 60
	hour := minutes / 60
	minute := minutes % 60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}
