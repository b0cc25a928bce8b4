package reditio

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/MatthewScholefield/Reditio/internal/fields"
)

// Schema is the encode/decode contract for record type T. It is built once
// per type, validated at construction, and is read-only afterwards, so one
// Schema can be shared by every binding of T.
//
// The wire form is a map from field name to value, written by the codec with
// sorted keys. Equal records therefore always encode to identical bytes,
// which Redis sets and sorted sets rely on to deduplicate members.
type Schema[T any] struct {
	name   string
	fields []fields.FieldDef
	codec  Codec
}

// NewSchema derives the Schema of T for codec c (JSON when nil). T must be a
// struct whose exported fields are strings, bools, integers, floats, []byte
// or time.Time. Field names default to snake_case and can be changed with a
// `reditio:"name"` tag; `reditio:"-"` skips a field and
// `reditio:",optional"` lets it be absent from stored data.
func NewSchema[T any](c Codec) (*Schema[T], error) {
	if c == nil {
		c = JSON
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	defs, err := fields.Reflect(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	return &Schema[T]{name: name, fields: defs, codec: c}, nil
}

// Name returns the Go name of the record type.
func (s *Schema[T]) Name() string { return s.name }

// Fields returns the wire names of the record fields in encoding order.
func (s *Schema[T]) Fields() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Codec returns the codec the schema encodes with.
func (s *Schema[T]) Codec() Codec { return s.codec }

// Encode serializes r into its canonical byte form.
func (s *Schema[T]) Encode(r T) ([]byte, error) {
	v := reflect.ValueOf(r)
	doc := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		val, err := fields.Canonical(v, f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrEncodeFailed, s.name, err)
		}
		doc[f.Name] = val
	}
	b, err := s.codec.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncodeFailed, s.name, err)
	}
	return b, nil
}

// Decode is the inverse of Encode. It fails with a *SchemaMismatchError when
// the bytes cannot be parsed, a required field is missing, a field that T
// does not declare is present, or a value cannot be coerced to its field.
func (s *Schema[T]) Decode(b []byte) (T, error) {
	var zero T
	var doc map[string]any
	if err := s.codec.Unmarshal(b, &doc); err != nil {
		return zero, s.mismatch("", "undecodable "+s.codec.Name()+" payload", err)
	}
	if doc == nil {
		return zero, s.mismatch("", "payload is not an object", nil)
	}

	var r T
	v := reflect.ValueOf(&r).Elem()
	seen := 0
	for _, f := range s.fields {
		raw, ok := doc[f.Name]
		if !ok {
			if f.Optional {
				continue
			}
			return zero, s.mismatch(f.Name, "missing field", nil)
		}
		seen++
		if err := fields.Assign(v, f, raw); err != nil {
			return zero, s.mismatch(f.Name, "invalid value", err)
		}
	}
	if seen != len(doc) {
		return zero, s.mismatch(s.unknownField(doc), "unknown field", nil)
	}
	return r, nil
}

func (s *Schema[T]) unknownField(doc map[string]any) string {
	known := make(map[string]struct{}, len(s.fields))
	for _, f := range s.fields {
		known[f.Name] = struct{}{}
	}
	var unknown []string
	for k := range doc {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	if len(unknown) == 0 {
		return ""
	}
	return unknown[0]
}

func (s *Schema[T]) mismatch(field, reason string, err error) error {
	return &SchemaMismatchError{Type: s.name, Field: field, Reason: reason, Err: err}
}

// decodeAll decodes every element or fails the whole call.
func (s *Schema[T]) decodeAll(raw []string) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		rec, err := s.Decode([]byte(r))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// schemaRegistry caches one Schema per record type for a Store.
type schemaRegistry struct {
	mu      sync.RWMutex
	schemas map[reflect.Type]any
}

func newSchemaRegistry() *schemaRegistry {
	return &schemaRegistry{schemas: make(map[reflect.Type]any)}
}

func (r *schemaRegistry) get(t reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[t]
	return s, ok
}

// put stores s unless another goroutine registered t first, and returns the
// schema that ends up registered.
func (r *schemaRegistry) put(t reflect.Type, s any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.schemas[t]; ok {
		return existing
	}
	r.schemas[t] = s
	return s
}

func (r *schemaRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

// schemaFor returns the cached Schema of T for st, building it on first use.
func schemaFor[T any](st *Store) (*Schema[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if cached, ok := st.registry.get(t); ok {
		return cached.(*Schema[T]), nil
	}
	s, err := NewSchema[T](st.codec)
	if err != nil {
		return nil, err
	}
	return st.registry.put(t, s).(*Schema[T]), nil
}
