package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"feriadobot/internal/holiday/models"
)

// legacyListKey is the field the older cache shape stored the list under.
const legacyListKey = "listaFeriados"

// ErrInvalidCache is returned when the cache is absent, unreadable, malformed or empty.
var ErrInvalidCache = errors.New("holiday cache invalid")

// shape identifies which persisted layout a cache document uses.
type shape int

const (
	shapeList    shape = iota + 1 // [ {...}, ... ]
	shapeWrapped                  // { "listaFeriados": [ {...}, ... ] }
)

func (s shape) String() string {
	switch s {
	case shapeList:
		return "list"
	case shapeWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

// decodeDocument decodes both cache shapes. The bare list is tried first, then
// the wrapper object; anything else, and any empty list, is ErrInvalidCache.
func decodeDocument(data []byte) ([]models.Record, shape, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty document", ErrInvalidCache)
	}

	var (
		records []models.Record
		kind    shape
	)
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, 0, fmt.Errorf("%w: decode list: %v", ErrInvalidCache, err)
		}
		kind = shapeList
	case '{':
		// Struct decoding folds key case; the wrapper key must match exactly.
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, 0, fmt.Errorf("%w: decode wrapper: %v", ErrInvalidCache, err)
		}
		raw, ok := fields[legacyListKey]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, 0, fmt.Errorf("%w: missing %q", ErrInvalidCache, legacyListKey)
		}
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, 0, fmt.Errorf("%w: decode %s: %v", ErrInvalidCache, legacyListKey, err)
		}
		kind = shapeWrapped
	default:
		return nil, 0, fmt.Errorf("%w: unexpected document", ErrInvalidCache)
	}

	if len(records) == 0 {
		return nil, kind, fmt.Errorf("%w: no records", ErrInvalidCache)
	}
	return records, kind, nil
}

// encodeDocument writes records as an indented bare list. Keys are sorted per
// record and non-ASCII text is written literally, except U+2028 and U+2029
// which encoding/json always escapes.
func encodeDocument(records []models.Record) ([]byte, error) {
	if records == nil {
		records = []models.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode holiday cache: %w", err)
	}
	return buf.Bytes(), nil
}

// validFor reports whether a decoded document belongs to year. Only the first
// record is inspected.
func validFor(records []models.Record, year int) bool {
	return len(records) > 0 && records[0].Date.Year == year
}

// reader is the raw access a backend provides; the shared validity logic lives
// in checkValid so every backend treats the document the same way.
type reader func(ctx context.Context) ([]byte, error)

func checkValid(ctx context.Context, read reader, year int) (bool, error) {
	data, err := read(ctx)
	if err != nil {
		return false, err
	}
	records, _, err := decodeDocument(data)
	if err != nil {
		return false, err
	}
	return validFor(records, year), nil
}

func load(ctx context.Context, read reader) ([]models.Record, error) {
	data, err := read(ctx)
	if err != nil {
		return nil, err
	}
	records, _, err := decodeDocument(data)
	return records, err
}
