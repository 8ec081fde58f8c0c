package record

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

const (
	// TagsField holds the rule tags of the sample that matched a line.
	TagsField = "@tags"
	// UnparsedField holds the original line when no sample matched it.
	UnparsedField = "@unparsed"
)

// Record is the structured result of normalizing a single log line, with potentially many fields.
// Values are scalars, nested maps, or ordered slices, depending on the field type that produced them.
type Record map[string]any

func (r Record) HasField(name string) bool {
	_, ok := r[name]
	return ok
}

// Tags returns the rule tags attached to this Record, if any.
func (r Record) Tags() []string {
	switch tags := r[TagsField].(type) {
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func (r Record) AsFloat(name string) (float64, bool) {
	if !r.HasField(name) {
		return 0, false
	}
	if f, ok := r[name].(float64); ok {
		return f, true
	}
	if s, ok := r[name].(string); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	v := reflect.ValueOf(r[name])
	if v.CanFloat() {
		switch v.Kind() {
		case reflect.Float64:
			return r[name].(float64), true
		case reflect.Float32:
			return float64(r[name].(float32)), true
		}
	}
	return 0, false
}

func (r Record) AsInt(name string) (int64, bool) {
	if !r.HasField(name) {
		return 0, false
	}
	if i, ok := r[name].(int64); ok {
		return i, true
	}
	if s, ok := r[name].(string); ok {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	v := reflect.ValueOf(r[name])
	if v.CanInt() {
		switch v.Kind() {
		case reflect.Int64:
			return r[name].(int64), true
		case reflect.Int32:
			return int64(r[name].(int32)), true
		case reflect.Int:
			return int64(r[name].(int)), true
		}
	}
	if f, ok := r[name].(float64); ok && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}

func (r Record) AsString(name string) (string, bool) {
	if !r.HasField(name) {
		return "", false
	}
	if s, ok := r[name].(string); ok {
		return s, true
	}
	if s, ok := r[name].(interface{ String() string }); ok {
		return s.String(), true
	}
	if err, ok := r[name].(error); ok {
		return err.Error(), true
	}
	return fmt.Sprintf("%v", r[name]), true
}

// AsMap returns a nested map value, as produced by structured field types like json or name-value-list.
func (r Record) AsMap(name string) (map[string]any, bool) {
	m, ok := r[name].(map[string]any)
	return m, ok
}

func (r Record) AsTime(name string, format ...string) (time.Time, bool) {
	var none time.Time
	if !r.HasField(name) {
		return none, false
	}
	if t, ok := r[name].(time.Time); ok {
		return t.UTC(), true
	}
	if s, ok := r.AsString(name); ok {
		if len(format) > 0 {
			for _, f := range format {
				t, err := time.Parse(f, s)
				if err == nil {
					return t.UTC(), true
				}
			}
		} else {
			t, err := time.Parse(time.RFC3339, s)
			if err == nil {
				return t.UTC(), true
			}
		}
	}
	return none, false
}

// Unparsed wraps a line that matched no sample.
func Unparsed(line string) Record {
	return Record{UnparsedField: line}
}

// String renders the Record as a single-line JSON document.
func (r Record) String() string {
	data, err := json.Marshal(map[string]any(r))
	if err != nil {
		// Shouldn't ever happen, given the data type.
		return fmt.Sprintf("%v", map[string]any(r))
	}
	return string(data)
}
