package cache

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the shape of a cached function result.
type Kind string

const (
	KindRecord  Kind = "record"
	KindRecords Kind = "records"
	KindValue   Kind = "value"
)

// internalMarker prefixes serialized field names that never reach the cache.
const internalMarker = "_"

// Payload is the serialized form of a cached result.
type Payload struct {
	Kind    Kind             `json:"kind" msgpack:"kind"`
	Record  map[string]any   `json:"record,omitempty" msgpack:"record,omitempty"`
	Records []map[string]any `json:"records,omitempty" msgpack:"records,omitempty"`
	Value   any              `json:"value" msgpack:"value"`
}

// Shape converts function results of type R to and from Payload.
// Flatten returns a nil Payload for results that must not be cached.
type Shape[R any] interface {
	Flatten(v R) (*Payload, error)
	Restore(p Payload) (R, error)
}

// StripInternal removes internal fields from a field map in place.
func StripInternal(fields map[string]any) map[string]any {
	for k := range fields {
		if strings.HasPrefix(k, internalMarker) {
			delete(fields, k)
		}
	}
	return fields
}

// RecordShape caches a single *T as its public field map. nil is not cached.
type RecordShape[T any] struct{}

func (RecordShape[T]) Flatten(v *T) (*Payload, error) {
	if v == nil {
		return nil, nil
	}
	fields, err := fieldMap(v)
	if err != nil {
		return nil, err
	}
	return &Payload{Kind: KindRecord, Record: fields}, nil
}

func (RecordShape[T]) Restore(p Payload) (*T, error) {
	if p.Kind != KindRecord {
		return nil, fmt.Errorf("cache: payload kind %q, want %q", p.Kind, KindRecord)
	}
	out := new(T)
	if err := remarshal(p.Record, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordsShape caches a []*T as a list of public field maps. An empty
// list is a legitimate, cacheable result.
type RecordsShape[T any] struct{}

func (RecordsShape[T]) Flatten(v []*T) (*Payload, error) {
	records := make([]map[string]any, 0, len(v))
	for _, item := range v {
		if item == nil {
			continue
		}
		fields, err := fieldMap(item)
		if err != nil {
			return nil, err
		}
		records = append(records, fields)
	}
	return &Payload{Kind: KindRecords, Records: records}, nil
}

func (RecordsShape[T]) Restore(p Payload) ([]*T, error) {
	if p.Kind != KindRecords {
		return nil, fmt.Errorf("cache: payload kind %q, want %q", p.Kind, KindRecords)
	}
	out := make([]*T, 0, len(p.Records))
	for _, fields := range p.Records {
		item := new(T)
		if err := remarshal(fields, item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// ValueShape caches any JSON representable result as-is. Results that
// serialize to null are not cached.
type ValueShape[R any] struct{}

func (ValueShape[R]) Flatten(v R) (*Payload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(b, &plain); err != nil {
		return nil, err
	}
	if plain == nil {
		return nil, nil
	}
	return &Payload{Kind: KindValue, Value: plain}, nil
}

func (ValueShape[R]) Restore(p Payload) (R, error) {
	var out R
	if p.Kind != KindValue {
		return out, fmt.Errorf("cache: payload kind %q, want %q", p.Kind, KindValue)
	}
	if err := remarshal(p.Value, &out); err != nil {
		return out, err
	}
	return out, nil
}

func fieldMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("cache: record is not an object: %w", err)
	}
	return StripInternal(fields), nil
}

func remarshal(src, dst any) error {
	b, err := json.Marshal(normalize(src))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// normalize converts map[any]any, which some decoders produce for nested
// maps, into JSON encodable map[string]any. It never modifies v, so
// concurrent restores may share one payload.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
