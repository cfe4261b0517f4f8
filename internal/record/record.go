// Package record defines the unit of the area log: one computation result.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/arealog/internal/value"
)

// TimeLayout is the on-disk timestamp format (DD/MM/YYYY HH:MM:SS).
const TimeLayout = "02/01/2006 15:04:05"

// On-disk keys of the known record fields.
const (
	KeyTimestamp  = "fecha"
	KeyCategory   = "figura"
	KeyValue      = "area"
	KeyParameters = "parametros"
)

// Record is one logged computation result.
//
// Records are immutable once appended. Value is typically a value.Float but
// may hold anything a hand-edited log contains; statistics only use values
// for which value.Number succeeds. Extra keeps unknown top-level keys so a
// record survives a load/append cycle unchanged.
//
// Empty Timestamp/Category and nil Value/Parameters mean "key absent".
type Record struct {
	Timestamp  string
	Category   string
	Value      value.Value
	Parameters value.Object
	Extra      value.Object
}

// New builds a record stamped with now.
func New(now time.Time, category string, area float64, params value.Object) Record {
	if params == nil {
		params = value.Object{}
	}
	return Record{
		Timestamp:  now.Format(TimeLayout),
		Category:   category,
		Value:      value.Float(area),
		Parameters: params.Clone(),
	}
}

// Number returns the record's value as a float64 when it is numeric.
func (r Record) Number() (float64, bool) {
	return value.Number(r.Value)
}

// Time parses the timestamp in the given location.
func (r Record) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(TimeLayout, r.Timestamp, loc)
}

// Clone returns a deep copy; the copy shares no maps with r.
func (r Record) Clone() Record {
	return Record{
		Timestamp:  r.Timestamp,
		Category:   r.Category,
		Value:      value.Clone(r.Value),
		Parameters: r.Parameters.Clone(),
		Extra:      r.Extra.Clone(),
	}
}

// Equal reports whether two records hold the same content.
func (r Record) Equal(o Record) bool {
	return r.Timestamp == o.Timestamp &&
		r.Category == o.Category &&
		value.Equal(r.Value, o.Value) &&
		objectEqual(r.Parameters, o.Parameters) &&
		objectEqual(r.Extra, o.Extra)
}

// objectEqual treats nil and empty the same way only when both are nil.
func objectEqual(a, b value.Object) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return value.Equal(a, b)
}

// CloneAll deep-copies a slice of records. The result is never nil.
func CloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// Object returns the record as a single JSON object, known keys included.
// Used for canonical fingerprints.
func (r Record) Object() value.Object {
	obj := make(value.Object, len(r.Extra)+4)
	for k, v := range r.Extra {
		obj[k] = v
	}
	if r.Timestamp != "" {
		obj[KeyTimestamp] = value.String(r.Timestamp)
	}
	if r.Category != "" {
		obj[KeyCategory] = value.String(r.Category)
	}
	if r.Value != nil {
		obj[KeyValue] = r.Value
	}
	if r.Parameters != nil {
		obj[KeyParameters] = r.Parameters
	}
	return obj
}

// MarshalJSON writes the known keys in their fixed order (fecha, figura,
// area, parametros) followed by extra keys in sorted order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	write := func(key string, v value.Value) error {
		keyBytes, err := value.Marshal(value.String(key))
		if err != nil {
			return err
		}
		valBytes, err := value.Marshal(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(valBytes)
		return nil
	}

	known := []struct {
		key string
		val value.Value
	}{
		{KeyTimestamp, nil},
		{KeyCategory, nil},
		{KeyValue, r.Value},
		{KeyParameters, nil},
	}
	if r.Timestamp != "" {
		known[0].val = value.String(r.Timestamp)
	}
	if r.Category != "" {
		known[1].val = value.String(r.Category)
	}
	if r.Parameters != nil {
		known[3].val = r.Parameters
	}

	for _, f := range known {
		v := f.val
		if v == nil {
			// A known key with an unexpected type lives in Extra.
			v = r.Extra[f.key]
		}
		if v == nil {
			continue
		}
		if err := write(f.key, v); err != nil {
			return nil, err
		}
	}
	for _, k := range r.Extra.SortedKeys() {
		if isKnownKey(k) {
			continue
		}
		if err := write(k, r.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a record object. Known keys with an unexpected JSON
// type are kept in Extra rather than rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	var obj value.Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("record: %w", err)
	}

	var out Record
	for k, v := range obj {
		switch k {
		case KeyTimestamp:
			if s, ok := v.(value.String); ok && s != "" {
				out.Timestamp = string(s)
				continue
			}
		case KeyCategory:
			if s, ok := v.(value.String); ok && s != "" {
				out.Category = string(s)
				continue
			}
		case KeyValue:
			out.Value = v
			continue
		case KeyParameters:
			if p, ok := v.(value.Object); ok {
				out.Parameters = p
				continue
			}
		}
		if out.Extra == nil {
			out.Extra = value.Object{}
		}
		out.Extra[k] = v
	}

	*r = out
	return nil
}

// MarshalIndent renders the record as pretty JSON with the given indent and
// no HTML escaping. The result has no trailing newline.
func (r Record) MarshalIndent(indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

func isKnownKey(k string) bool {
	switch k {
	case KeyTimestamp, KeyCategory, KeyValue, KeyParameters:
		return true
	}
	return false
}
