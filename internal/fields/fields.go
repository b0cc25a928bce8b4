// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// fields.go — struct introspection for record types: Go type → wire kind
// mapping, FieldDef derivation from `reditio` struct tags, embedded struct
// flattening, and snake_case wire-name conversion.

// Package fields derives the field layout of record structs.
package fields

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode"
)

// ErrUnsupported is returned by Reflect when a field type has no wire kind.
var ErrUnsupported = errors.New("fields: unsupported field type")

// Kind is the wire-level kind of a record field.
type Kind int

const (
	String Kind = iota + 1
	Bool
	Int
	Uint
	Float
	Bytes
	Time
)

var kindNames = [...]string{
	String: "string",
	Bool:   "bool",
	Int:    "int",
	Uint:   "uint",
	Float:  "float",
	Bytes:  "bytes",
	Time:   "time",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var timeType = reflect.TypeOf(time.Time{})

// FieldDef describes one record field derived from struct reflection.
type FieldDef struct {
	Name      string // wire name
	FieldName string // Go name
	Index     []int  // path for reflect.Value.FieldByIndex
	Kind      Kind
	Type      reflect.Type
	Optional  bool
}

// Reflect derives the field layout of struct type t. Fields are returned in
// wire-name order so that callers iterating them produce stable output.
func Reflect(t reflect.Type) ([]FieldDef, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: record must be a struct, got %v", ErrUnsupported, t)
	}
	var defs []FieldDef
	if err := flattenStruct(t, nil, &defs); err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(defs))
	for _, d := range defs {
		if prev, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("%w: fields %s and %s share wire name %q", ErrUnsupported, prev, d.FieldName, d.Name)
		}
		seen[d.Name] = d.FieldName
	}
	slices.SortFunc(defs, func(a, b FieldDef) int { return strings.Compare(a.Name, b.Name) })
	return defs, nil
}

func flattenStruct(t reflect.Type, parent []int, defs *[]FieldDef) error {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		index := append(append([]int(nil), parent...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Type != timeType {
			if err := flattenStruct(f.Type, index, defs); err != nil {
				return err
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("reditio")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		name = strings.TrimSpace(name)
		if name == "" {
			name = ToSnakeCase(f.Name)
		}
		kind, ok := kindOf(f.Type)
		if !ok {
			return fmt.Errorf("%w: %s.%s has type %v", ErrUnsupported, t.Name(), f.Name, f.Type)
		}
		def := FieldDef{
			Name:      name,
			FieldName: f.Name,
			Index:     index,
			Kind:      kind,
			Type:      f.Type,
		}
		for _, part := range strings.Split(opts, ",") {
			switch strings.TrimSpace(part) {
			case "optional":
				def.Optional = true
			}
		}
		*defs = append(*defs, def)
	}
	return nil
}

// kindOf maps a Go reflect.Type to its wire kind.
func kindOf(t reflect.Type) (Kind, bool) {
	switch t.Kind() {
	case reflect.String:
		return String, true
	case reflect.Bool:
		return Bool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint, true
	case reflect.Float32, reflect.Float64:
		return Float, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return Bytes, true
		}
	case reflect.Struct:
		if t == timeType {
			return Time, true
		}
	}
	return 0, false
}

// ToSnakeCase converts CamelCase to snake_case. A run of capitals is one
// word, so UserID becomes user_id and HTTPServer becomes http_server.
func ToSnakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rs[i-1]
				nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
