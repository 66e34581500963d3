package gridpager

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Record is one dumped entity: field paths mapped to normalized values.
// Keys keep the order of the field list they were dumped with, and the JSON
// encoding preserves it.
type Record struct {
	keys   []string
	values map[string]any
}

func newRecord(capacity int) Record {
	return Record{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// Set stores value under path. Re-setting a path keeps its position.
func (r *Record) Set(path string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}

	if _, ok := r.values[path]; !ok {
		r.keys = append(r.keys, path)
	}
	r.values[path] = value
}

// Get returns the value stored under path.
func (r Record) Get(path string) (any, bool) {
	v, ok := r.values[path]
	return v, ok
}

// Keys returns the field paths in dump order.
func (r Record) Keys() []string {
	return slices.Clone(r.keys)
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.keys)
}

// ToMap returns a shallow copy of the record as a plain map.
func (r Record) ToMap() map[string]any {
	ret := make(map[string]any, len(r.values))
	for k, v := range r.values {
		ret[k] = v
	}

	return ret
}

// MarshalJSON - implements json.Marshaler. Keys are written in dump order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		jKey, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("cannot marshal record key '%s': %w", key, err)
		}

		jValue, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("cannot marshal record value '%s': %w", key, err)
		}

		buf.Write(jKey)
		buf.WriteByte(':')
		buf.Write(jValue)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

var _ json.Marshaler = Record{}
