package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// JSON keys used by the upstream API and the cache document.
const (
	keyDate = "fecha"
	keyName = "nombre"
)

// ErrInvalidDate is returned when a holiday date is not a valid ISO calendar date.
var ErrInvalidDate = errors.New("invalid holiday date")

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD date. Out-of-range days such as
// 2025-02-30 are rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: %v", ErrInvalidDate, s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Midnight returns the start of the date in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DayMonth formats the date as dd/mm.
func (d Date) DayMonth() string {
	return fmt.Sprintf("%02d/%02d", d.Day, int(d.Month))
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Record is one public holiday. Only Date and Name are interpreted; every other
// field of the source object is carried in Extra and written back unchanged.
type Record struct {
	Date  Date
	Name  string
	Extra map[string]json.RawMessage
}

// UnmarshalJSON decodes an upstream holiday object. fecha must be a valid date.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("holiday record is null")
	}

	rawDate, ok := fields[keyDate]
	if !ok {
		return fmt.Errorf("holiday record missing %q", keyDate)
	}
	var dateStr string
	if err := json.Unmarshal(rawDate, &dateStr); err != nil {
		return fmt.Errorf("decode %q: %w", keyDate, err)
	}
	date, err := ParseDate(dateStr)
	if err != nil {
		return err
	}

	var name string
	if rawName, ok := fields[keyName]; ok {
		if err := json.Unmarshal(rawName, &name); err != nil {
			return fmt.Errorf("decode %q: %w", keyName, err)
		}
	}

	delete(fields, keyDate)
	delete(fields, keyName)
	var extra map[string]json.RawMessage
	for k, v := range fields {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return fmt.Errorf("compact %q: %w", k, err)
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage, len(fields))
		}
		extra[k] = json.RawMessage(buf.Bytes())
	}

	*r = Record{Date: date, Name: name, Extra: extra}
	return nil
}

// MarshalJSON encodes the record with keys in sorted order. Its own output does
// not HTML-escape, but json.Marshal re-escapes it; punctuation in names stays
// literal only through an encoder with SetEscapeHTML(false).
func (r Record) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(r.Extra)+2)
	values := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		keys = append(keys, k)
		values[k] = v
	}
	keys = append(keys, keyDate, keyName)
	values[keyDate] = r.Date.String()
	values[keyName] = r.Name
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeLiteral(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeLiteral(&buf, values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeLiteral(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Countdown is the time remaining until a holiday, decomposed into whole units.
type Countdown struct {
	Days    int
	Hours   int
	Minutes int
}

// Origin tells where the records of a Lookup came from.
type Origin string

const (
	OriginCache       Origin = "cache"
	OriginRemote      Origin = "remote"
	OriginUnavailable Origin = "unavailable"
)

// Lookup is the result of asking the repository for a year's holidays.
// OriginUnavailable means no data could be obtained, which is different from a
// year whose holidays have all passed.
type Lookup struct {
	Year    int
	Records []Record
	Origin  Origin
}

// Available reports whether the lookup carries holiday data.
func (l Lookup) Available() bool {
	return l.Origin != OriginUnavailable && len(l.Records) > 0
}
