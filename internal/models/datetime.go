package models

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format for booking timestamps: a local
// date-time literal without a zone offset.
const DateTimeLayout = "2006-01-02T15:04:05"

// DateTime wraps time.Time so that JSON and storage both use DateTimeLayout.
type DateTime struct {
	time.Time
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{t.Truncate(time.Second)}
}

// ParseDateTime parses a DateTimeLayout literal.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return DateTime{}, fmt.Errorf("parse datetime %q: %w", s, err)
	}
	return DateTime{t}, nil
}

func (d DateTime) String() string {
	return d.Format(DateTimeLayout)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	d.Time = parsed.Time
	return nil
}
