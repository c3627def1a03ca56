package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layouts used on the wire.
const (
	DayLayout       = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DayLayout,
}

// Date accepts both full timestamps and plain calendar days.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// ParseDate parses a timestamp or a calendar day. Calendar days are placed at
// local midnight. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if layout == DayLayout {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// DateOf wraps t, returning nil for the zero time.
func DateOf(t time.Time) *Date {
	if t.IsZero() {
		return nil
	}
	return &Date{Time: t}
}

// DayString formats a date as YYYY-MM-DD, or "" when unset.
func (d *Date) DayString() string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Time.In(time.Local).Format(DayLayout)
}

// FormatDay renders t as a calendar day for the store.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// FormatTimestamp renders t as a UTC millisecond timestamp for the store.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
