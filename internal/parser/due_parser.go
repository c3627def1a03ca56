package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayMonthYearRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex     = regexp.MustCompile(`^(?:in\s+)?(\d+)\s+(day|days|week|weeks)$`)
)

// ParseDate parses a calendar date entered in a form. The result is local
// midnight of the chosen day, relative to now where that applies.
// Supported formats:
// - yyyy-mm-dd (e.g., "2025-12-15")
// - dd/mm/yyyy (e.g., "15/12/2025")
// - today, tomorrow
// - X days, X weeks (e.g., "3 days", "in 2 weeks")
// - RFC 3339 timestamps, kept as given
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}

	today := midnight(now)
	switch strings.ToLower(input) {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, input); err == nil {
		return t, nil
	}

	if t, err := parseDayMonthYear(input, now.Location()); err == nil {
		return t, nil
	}

	if t, err := parseRelative(input, today); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q. Use: yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, X days or X weeks", input)
}

// parseDayMonthYear parses dd/mm/yyyy format
func parseDayMonthYear(input string, loc *time.Location) (time.Time, error) {
	matches := dayMonthYearRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Rejects dates that rolled over, e.g. 31/02.
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}

	return date, nil
}

// parseRelative parses "3 days", "2 weeks" and similar.
func parseRelative(input string, today time.Time) (time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(strings.ToLower(input))
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "day", "days":
		if amount > 365 {
			return time.Time{}, fmt.Errorf("days must be at most 365")
		}
		return today.AddDate(0, 0, amount), nil
	case "week", "weeks":
		if amount > 52 {
			return time.Time{}, fmt.Errorf("weeks must be at most 52")
		}
		return today.AddDate(0, 0, amount*7), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time unit")
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the number of calendar days from now to t in now's
// location. Negative values are in the past.
func DaysUntil(t, now time.Time) int {
	t = t.In(now.Location())
	return int(math.Round(midnight(t).Sub(midnight(now)).Hours() / 24))
}

// FormatDueDate formats a due date for display
func FormatDueDate(dueDate *time.Time, now time.Time) string {
	if dueDate == nil || dueDate.IsZero() {
		return ""
	}

	daysDiff := DaysUntil(*dueDate, now)
	dateStr := dueDate.In(now.Location()).Format("02/01/2006")

	switch {
	case daysDiff < 0:
		return fmt.Sprintf("⚠️ OVERDUE (%s)", dateStr)
	case daysDiff == 0:
		return fmt.Sprintf("🔥 Due today (%s)", dateStr)
	case daysDiff == 1:
		return fmt.Sprintf("📅 Due tomorrow (%s)", dateStr)
	case daysDiff <= 7:
		return fmt.Sprintf("📅 Due %s (in %d days)", dateStr, daysDiff)
	default:
		return fmt.Sprintf("📅 Due %s", dateStr)
	}
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
