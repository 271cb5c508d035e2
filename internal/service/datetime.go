package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// WireLayout is the zone-less date-time layout the backend speaks.
const WireLayout = "2006-01-02T15:04:05"

var parseLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	WireLayout,
	"2006-01-02T15:04",
}

// DateTime is a wall-clock timestamp exchanged without a zone. Incoming
// values are interpreted in the local time zone; RFC 3339 values keep their
// offset.
type DateTime struct {
	time.Time
}

// NewDateTime wraps t.
func NewDateTime(t time.Time) *DateTime {
	return &DateTime{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Local().Format(WireLayout))
}

// UnmarshalJSON implements json.Unmarshaler. Null leaves the value untouched.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}
	t, err := parseWire(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func parseWire(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time: %q", s)
}

// ParseDeadline parses a deadline typed by a user. Accepted forms are the
// wire formats, "2006-01-02 15:04" and a bare date, which means 23:59 local
// time on that day.
func ParseDeadline(s string) (*DateTime, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		y, m, d := t.Date()
		return NewDateTime(time.Date(y, m, d, 23, 59, 0, 0, time.Local)), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return NewDateTime(t), nil
	}
	t, err := parseWire(s)
	if err != nil {
		return nil, fmt.Errorf("invalid deadline: %s (want YYYY-MM-DD or YYYY-MM-DD HH:MM)", s)
	}
	return NewDateTime(t), nil
}
