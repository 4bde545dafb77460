// Package source holds decoded input records. Every access goes through
// Lookup, which reports presence separately from the value, so an absent key
// and a present but empty value stay distinguishable.
package source

import (
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	"github.com/miku/isokit/tree"
)

// Record is a decoded JSON object. Numbers are kept as json.Number.
type Record map[string]any

// Decode reads a single JSON object from r.
func Decode(r io.Reader) (Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Errorf("decode record: expected object, got %T", v)
	}
	return Record(m), nil
}

// DecodeBytes decodes a JSON object.
func DecodeBytes(b []byte) (Record, error) {
	return Decode(bytes.NewReader(b))
}

// Lookup returns the value stored under key. A JSON null counts as absent.
func (r Record) Lookup(key string) (Value, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return Value{}, false
	}
	return Value{v: v}, true
}

// LookupPath follows nested objects, e.g. LookupPath("publisher", "name").
func (r Record) LookupPath(keys ...string) (Value, bool) {
	if len(keys) == 0 {
		return Value{}, false
	}
	v, ok := r.Lookup(keys[0])
	for _, k := range keys[1:] {
		if !ok {
			return Value{}, false
		}
		sub, isRecord := v.Record()
		if !isRecord {
			return Value{}, false
		}
		v, ok = sub.Lookup(k)
	}
	return v, ok
}

// Text returns the string form of key, or "" when absent or not a scalar.
func (r Record) Text(key string) string {
	v, _ := r.Lookup(key)
	return v.String()
}

// Value wraps a decoded JSON value.
type Value struct {
	v any
}

// ValueOf wraps v.
func ValueOf(v any) Value {
	return Value{v: v}
}

// Raw returns the wrapped value.
func (v Value) Raw() any { return v.v }

// IsNil reports whether the value is a JSON null or was never set.
func (v Value) IsNil() bool { return v.v == nil }

// Text returns the scalar as text. Lists and objects yield false.
func (v Value) Text() (string, bool) {
	switch v.v.(type) {
	case nil:
		return "", false
	case []any, []string, []Record, []map[string]any, map[string]any, Record:
		return "", false
	default:
		return tree.FormatValue(v.v), true
	}
}

// String returns the trimmed scalar text, or "".
func (v Value) String() string {
	s, _ := v.Text()
	return strings.TrimSpace(s)
}

// List returns the elements of a list; a scalar or object is a list of one,
// null is an empty list.
func (v Value) List() []Value {
	switch x := v.v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]Value, 0, len(x))
		for _, e := range x {
			if e != nil {
				out = append(out, Value{v: e})
			}
		}
		return out
	case []string:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = Value{v: e}
		}
		return out
	case []Record:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = Value{v: e}
		}
		return out
	case []map[string]any:
		out := make([]Value, len(x))
		for i, e := range x {
			out[i] = Value{v: Record(e)}
		}
		return out
	default:
		return []Value{v}
	}
}

// Record returns the value as an object.
func (v Value) Record() (Record, bool) {
	switch x := v.v.(type) {
	case Record:
		return x, true
	case map[string]any:
		return Record(x), true
	default:
		return nil, false
	}
}

// IsEmpty reports whether the value carries nothing: null, blank text, an
// empty list or an empty object.
func (v Value) IsEmpty() bool {
	switch x := v.v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case []Record:
		return len(x) == 0
	case []map[string]any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	case Record:
		return len(x) == 0
	default:
		return false
	}
}
