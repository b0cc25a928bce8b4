package fields

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"
)

// TimeLayout is the wire layout of Time fields.
const TimeLayout = time.RFC3339Nano

// Canonical returns the wire value of field def within the struct value v.
// Integers widen to int64/uint64, floats to float64, times become UTC
// RFC 3339 strings and negative zero becomes zero, so equal records always
// yield equal wire values. Strings must be valid UTF-8.
func Canonical(v reflect.Value, def FieldDef) (any, error) {
	fv := v.FieldByIndex(def.Index)
	switch def.Kind {
	case String:
		str := fv.String()
		if !utf8.ValidString(str) {
			return nil, fmt.Errorf("field %s: string is not valid UTF-8", def.Name)
		}
		return str, nil
	case Bool:
		return fv.Bool(), nil
	case Int:
		return fv.Int(), nil
	case Uint:
		return fv.Uint(), nil
	case Float:
		f := fv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("field %s: non-finite float %v", def.Name, f)
		}
		if f == 0 {
			f = 0 // -0 == 0
		}
		return f, nil
	case Bytes:
		b := fv.Bytes()
		if b == nil {
			b = []byte{}
		}
		return b, nil
	case Time:
		return fv.Interface().(time.Time).UTC().Format(TimeLayout), nil
	}
	return nil, fmt.Errorf("field %s: unknown kind %v", def.Name, def.Kind)
}

// Assign coerces the decoded document value raw into field def of the
// addressable struct value v. Coercion is total over the documented table;
// any other combination is an error and nothing is guessed.
func Assign(v reflect.Value, def FieldDef, raw any) error {
	fv := v.FieldByIndex(def.Index)
	switch def.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return mismatch(def, raw)
		}
		fv.SetString(s)
	case Bool:
		b, ok := raw.(bool)
		if !ok {
			return mismatch(def, raw)
		}
		fv.SetBool(b)
	case Int:
		n, err := toInt64(raw)
		if err != nil {
			return fmt.Errorf("%v: %w", mismatch(def, raw), err)
		}
		if fv.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %v", n, def.Type)
		}
		fv.SetInt(n)
	case Uint:
		n, err := toUint64(raw)
		if err != nil {
			return fmt.Errorf("%v: %w", mismatch(def, raw), err)
		}
		if fv.OverflowUint(n) {
			return fmt.Errorf("value %d overflows %v", n, def.Type)
		}
		fv.SetUint(n)
	case Float:
		f, err := toFloat64(raw)
		if err != nil {
			return fmt.Errorf("%v: %w", mismatch(def, raw), err)
		}
		if fv.OverflowFloat(f) {
			return fmt.Errorf("value %v overflows %v", f, def.Type)
		}
		fv.SetFloat(f)
	case Bytes:
		var b []byte
		switch x := raw.(type) {
		case []byte:
			b = append([]byte(nil), x...)
		case string:
			dec, err := base64.StdEncoding.DecodeString(x)
			if err != nil {
				return fmt.Errorf("invalid base64: %w", err)
			}
			b = dec
		default:
			return mismatch(def, raw)
		}
		// empty and nil both decode to the zero value
		if len(b) == 0 {
			b = nil
		}
		fv.SetBytes(b)
	case Time:
		s, ok := raw.(string)
		if !ok {
			return mismatch(def, raw)
		}
		t, err := time.Parse(TimeLayout, s)
		if err != nil {
			return fmt.Errorf("invalid time: %w", err)
		}
		fv.Set(reflect.ValueOf(t.UTC()))
	default:
		return fmt.Errorf("unknown kind %v", def.Kind)
	}
	return nil
}

func mismatch(def FieldDef, raw any) error {
	return fmt.Errorf("expected %v, got %T", def.Kind, raw)
}

func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case json.Number:
		return strconv.ParseInt(string(n), 10, 64)
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, strconv.ErrRange
		}
		return int64(n), nil
	}
	return 0, strconv.ErrSyntax
}

func toUint64(raw any) (uint64, error) {
	switch n := raw.(type) {
	case json.Number:
		return strconv.ParseUint(string(n), 10, 64)
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	}
	i, err := toInt64(raw)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, strconv.ErrRange
	}
	return uint64(i), nil
}

func toFloat64(raw any) (float64, error) {
	switch n := raw.(type) {
	case json.Number:
		return strconv.ParseFloat(string(n), 64)
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	}
	if i, err := toInt64(raw); err == nil {
		return float64(i), nil
	}
	if u, err := toUint64(raw); err == nil {
		return float64(u), nil
	}
	return 0, strconv.ErrSyntax
}
