// Package normalize converts the heterogeneous record shapes returned by
// the HRIS backends into canonical flat records.
//
// The REST backend serves documents straight out of its document store, so
// identifier and date fields arrive in three shapes: a plain string, a
// Mongo extended JSON {"$oid": "..."} wrapper, or a {"$date": "..."}
// wrapper. Every normalizer in this package is pure, never panics on
// malformed input, and is idempotent: records flow through the same
// function on every refetch, so normalize(normalize(x)) must equal
// normalize(x).
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ISOFormat is the canonical date layout produced by Date: RFC 3339 with
// millisecond precision, matching what the UI layer renders.
const ISOFormat = "2006-01-02T15:04:05.000Z07:00"

// Loose is a JSON field that accepts a raw string, a {"$oid": ...}
// wrapper, or a {"$date": ...} wrapper and decodes to the unwrapped
// string value. It marshals back as a plain string, which keeps
// decode/encode round trips idempotent.
type Loose struct {
	value string
}

// String returns the unwrapped value.
func (l Loose) String() string { return l.value }

// MarshalJSON encodes the unwrapped value as a plain JSON string.
func (l Loose) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.value)
}

// UnmarshalJSON accepts string, {"$oid": string}, {"$date": string} and
// {"$date": {"$numberLong": string}} shapes. Anything else decodes to the
// empty value rather than an error.
func (l *Loose) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.value = s
		return nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		l.value = ""
		return nil
	}
	for _, key := range []string{"$oid", "$date"} {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &s); err == nil {
			l.value = s
			return nil
		}
		// {"$date": {"$numberLong": "1704067200000"}}
		var inner map[string]string
		if err := json.Unmarshal(raw, &inner); err == nil {
			l.value = inner["$numberLong"]
			return nil
		}
	}
	l.value = ""
	return nil
}

// unwrap extracts the string payload from a raw decoded JSON value,
// looking through $oid/$date wrappers one level deep.
func unwrap(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case Loose:
		return t.value, t.value != ""
	case *Loose:
		if t == nil {
			return "", false
		}
		return t.value, t.value != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case map[string]any:
		for _, key := range []string{"$oid", "$date"} {
			if inner, ok := t[key]; ok {
				return unwrap(inner)
			}
		}
		return "", false
	default:
		return "", false
	}
}

// ID resolves an identifier field to a plain string. {"$oid": hex}
// wrappers are unwrapped and, when the payload is a well-formed ObjectID,
// canonicalized through the bson primitive type (lowercased hex). Values
// that do not look like ObjectIDs pass through untouched. Unresolvable
// input yields the empty string, never an error.
func ID(v any) string {
	s, ok := unwrap(v)
	if !ok {
		return ""
	}
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return oid.Hex()
	}
	return s
}

// Date resolves a date field to the canonical ISOFormat string. Accepted
// inputs: RFC 3339 strings with or without fractional seconds, plain
// "2006-01-02" dates, epoch milliseconds (number or $numberLong string),
// time.Time values, and {"$date": ...} wrappers around any of those.
// Unparseable input yields the empty string, never an error.
func Date(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(ISOFormat)
	}

	s, ok := unwrap(v)
	if !ok || s == "" {
		return ""
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(ISOFormat)
		}
	}

	// Epoch milliseconds from {"$date": {"$numberLong": "..."}}.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC().Format(ISOFormat)
	}

	return ""
}

// Status lowercases a status value so "PENDING", "Pending" and "pending"
// compare equal downstream.
func Status(v any) string {
	s, _ := unwrap(v)
	return strings.ToLower(strings.TrimSpace(s))
}

// field returns the first present key of m, raw.
func field(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// str returns the first present key of m unwrapped to a string.
func str(m map[string]any, keys ...string) string {
	s, _ := unwrap(field(m, keys...))
	return s
}

// displayName composes "First Last" from a nested object under any of
// nestedKeys, falling back to the flat field under flatKeys, then "".
func displayName(m map[string]any, nestedKeys []string, flatKeys ...string) string {
	for _, nk := range nestedKeys {
		nested, ok := field(m, nk).(map[string]any)
		if !ok {
			continue
		}
		first := str(nested, "firstName", "first_name")
		last := str(nested, "lastName", "last_name")
		name := strings.TrimSpace(first + " " + last)
		if name != "" {
			return name
		}
		if n := str(nested, "name"); n != "" {
			return n
		}
	}
	return strings.TrimSpace(str(m, flatKeys...))
}

func nestedID(m map[string]any, nestedKeys []string, flatKeys ...string) string {
	for _, nk := range nestedKeys {
		if nested, ok := field(m, nk).(map[string]any); ok {
			if id := ID(field(nested, "_id", "id")); id != "" {
				return id
			}
		}
	}
	return ID(field(m, flatKeys...))
}

// AsMap round-trips any JSON-encodable record into the generic map shape
// the normalizers consume. Decoding failures yield an empty map.
func AsMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// interface guard for fmt users of Loose
var _ fmt.Stringer = Loose{}
