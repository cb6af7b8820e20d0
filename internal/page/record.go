package page

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrNotObject is returned when decoding JSON that is not an object of strings.
var ErrNotObject = errors.New("page record must be a JSON object of strings")

// Record is an ordered mapping from field name to string value. Setting an
// existing key replaces the value and keeps the original position.
// The zero value is ready to use.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// RecordOf builds a record from alternating key, value arguments.
func RecordOf(kv ...string) *Record {
	r := NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

// Set stores value under key.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

// All iterates fields in insertion order.
func (r *Record) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if r == nil {
			return
		}
		for _, k := range r.keys {
			if !yield(k, r.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	out := NewRecord()
	for k, v := range r.All() {
		out.Set(k, v)
	}
	return out
}

// Equal reports whether both records hold the same fields in the same order.
func (r *Record) Equal(other *Record) bool {
	if r.Len() != other.Len() {
		return false
	}
	if !slices.Equal(r.Keys(), other.Keys()) {
		return false
	}
	for k, v := range r.All() {
		if ov, _ := other.Get(k); ov != v {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object in field order. HTML
// characters are not escaped since styles and scripts carry markup.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, r.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of strings, keeping document order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotObject, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}
	out := NewRecord()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotObject, err)
		}
		key, ok := tok.(string)
		if !ok {
			return ErrNotObject
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrNotObject, key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotObject, err)
	}
	*r = *out
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode always terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
