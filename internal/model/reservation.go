package model

import (
	"errors"
	"strings"
	"time"
)

// Reservation is a named booking at a specific instant.
//
// Fields:
//
//	ID       – identifier assigned by the store, never reused.
//	Name     – the reserving party, trimmed and non-empty.
//	Datetime – when the booking takes place, always UTC.
type Reservation struct {
	ID       uint64    `json:"id"`       // assigned on create
	Name     string    `json:"name"`     // reserving party
	Datetime Timestamp `json:"datetime"` // canonical ISO-8601 on the wire
}

// TimestampLayout is the canonical wire format: UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidTimestamp is returned when a datetime string cannot be parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// accepted input layouts, tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a time.Time that marshals to TimestampLayout.
type Timestamp struct {
	time.Time
}

// NewTimestamp normalizes t to UTC with millisecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

// ParseTimestamp parses s as an ISO-8601 date or date-time.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, ErrInvalidTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, ErrInvalidTimestamp
}

// String renders the timestamp in TimestampLayout.
func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*t = Timestamp{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidTimestamp
	}
	parsed, err := ParseTimestamp(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
