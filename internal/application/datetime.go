package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateTimeLayout is the wire format for timestamps: ISO-8601 local date-time, second precision.
const DateTimeLayout = "2006-01-02T15:04:05"

// DateTime is a timestamp serialized without zone, interpreted in the server's local zone.
type DateTime struct {
	time.Time
}

// NewDateTime truncates t to whole seconds.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.Truncate(time.Second)}
}

// ParseDateTime parses s in DateTimeLayout, in the local zone.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err != nil {
		return DateTime{}, fmt.Errorf("invalid date-time %q, expected %s", s, DateTimeLayout)
	}
	return DateTime{Time: t}, nil
}

// MarshalJSON implements json.Marshaler.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.In(time.Local).Format(DateTimeLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = DateTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
