package fields_test

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/MatthewScholefield/Reditio/internal/fields"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Base struct {
	ID string
}

type person struct {
	Base
	Name      string
	Age       int
	Nickname  string `reditio:"nick,optional"`
	Secret    string `reditio:"-"`
	CreatedAt time.Time
	hidden    int
}

func TestReflect_Layout(t *testing.T) {
	defs, err := fields.Reflect(reflect.TypeOf(person{}))
	require.NoError(t, err)

	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	assert.Equal(t, []string{"age", "created_at", "id", "name", "nick"}, names)

	byName := map[string]fields.FieldDef{}
	for _, d := range defs {
		byName[d.Name] = d
	}
	assert.Equal(t, []int{0, 0}, byName["id"].Index)
	assert.Equal(t, fields.Int, byName["age"].Kind)
	assert.Equal(t, fields.Time, byName["created_at"].Kind)
	assert.True(t, byName["nick"].Optional)
	assert.False(t, byName["name"].Optional)
}

func TestReflect_NotStruct(t *testing.T) {
	_, err := fields.Reflect(reflect.TypeOf(42))
	require.ErrorIs(t, err, fields.ErrUnsupported)

	_, err = fields.Reflect(nil)
	require.ErrorIs(t, err, fields.ErrUnsupported)
}

func TestReflect_UnsupportedField(t *testing.T) {
	type bad struct {
		Tags []string
	}
	_, err := fields.Reflect(reflect.TypeOf(bad{}))
	require.ErrorIs(t, err, fields.ErrUnsupported)
	assert.Contains(t, err.Error(), "Tags")
}

func TestReflect_DuplicateWireName(t *testing.T) {
	type dup struct {
		A string `reditio:"x"`
		B string `reditio:"x"`
	}
	_, err := fields.Reflect(reflect.TypeOf(dup{}))
	require.ErrorIs(t, err, fields.ErrUnsupported)
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"UserName", "user_name"},
		{"CreatedAt", "created_at"},
		{"simplevalue", "simplevalue"},
		{"", ""},
		{"A", "a"},
		{"ID", "id"},
		{"UserID", "user_id"},
		{"HTTPServer", "http_server"},
		{"APIKeyV2", "api_key_v2"},
		{"U16", "u16"},
		{"Utf8Name", "utf8_name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fields.ToSnakeCase(tt.in), "ToSnakeCase(%q)", tt.in)
	}
}

type numbers struct {
	I8  int8
	U16 uint16
	F32 float32
	Raw []byte
}

func defsOf(t *testing.T, v any) map[string]fields.FieldDef {
	t.Helper()
	defs, err := fields.Reflect(reflect.TypeOf(v))
	require.NoError(t, err)
	out := map[string]fields.FieldDef{}
	for _, d := range defs {
		out[d.Name] = d
	}
	return out
}

func TestAssign_Integers(t *testing.T) {
	defs := defsOf(t, numbers{})
	var n numbers
	v := reflect.ValueOf(&n).Elem()

	require.NoError(t, fields.Assign(v, defs["i8"], json.Number("-12")))
	require.NoError(t, fields.Assign(v, defs["u16"], uint8(7)))
	assert.Equal(t, int8(-12), n.I8)
	assert.Equal(t, uint16(7), n.U16)

	assert.Error(t, fields.Assign(v, defs["i8"], json.Number("300")), "overflow")
	assert.Error(t, fields.Assign(v, defs["i8"], json.Number("1.5")), "fractional")
	assert.Error(t, fields.Assign(v, defs["i8"], "12"), "string is not a number")
	assert.Error(t, fields.Assign(v, defs["u16"], int64(-1)), "negative")
}

func TestAssign_Floats(t *testing.T) {
	defs := defsOf(t, numbers{})
	var n numbers
	v := reflect.ValueOf(&n).Elem()

	require.NoError(t, fields.Assign(v, defs["f32"], json.Number("2.5")))
	assert.Equal(t, float32(2.5), n.F32)
	require.NoError(t, fields.Assign(v, defs["f32"], int8(3)))
	assert.Equal(t, float32(3), n.F32)
	assert.Error(t, fields.Assign(v, defs["f32"], true))
}

func TestAssign_Bytes(t *testing.T) {
	defs := defsOf(t, numbers{})
	var n numbers
	v := reflect.ValueOf(&n).Elem()

	require.NoError(t, fields.Assign(v, defs["raw"], "aGk="))
	assert.Equal(t, []byte("hi"), n.Raw)
	require.NoError(t, fields.Assign(v, defs["raw"], []byte("yo")))
	assert.Equal(t, []byte("yo"), n.Raw)
	require.NoError(t, fields.Assign(v, defs["raw"], ""))
	assert.Nil(t, n.Raw)
	assert.Error(t, fields.Assign(v, defs["raw"], "!!"))
}

func TestCanonical_TimeIsUTC(t *testing.T) {
	type stamped struct{ At time.Time }
	defs := defsOf(t, stamped{})
	loc := time.FixedZone("X", 3600)
	s := stamped{At: time.Date(2024, 1, 1, 13, 0, 0, 5, loc)}

	got, err := fields.Canonical(reflect.ValueOf(s), defs["at"])
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T12:00:00.000000005Z", got)

	var back stamped
	require.NoError(t, fields.Assign(reflect.ValueOf(&back).Elem(), defs["at"], got))
	assert.True(t, s.At.Equal(back.At))
}

func TestCanonical_RejectsNonFinite(t *testing.T) {
	defs := defsOf(t, numbers{})
	n := numbers{F32: float32(math.Inf(1))}
	_, err := fields.Canonical(reflect.ValueOf(n), defs["f32"])
	assert.Error(t, err)
}

func TestCanonical_NegativeZero(t *testing.T) {
	defs := defsOf(t, numbers{})
	got, err := fields.Canonical(reflect.ValueOf(numbers{F32: float32(math.Copysign(0, -1))}), defs["f32"])
	require.NoError(t, err)
	f, ok := got.(float64)
	require.True(t, ok)
	assert.False(t, math.Signbit(f))
}

func TestCanonical_RejectsInvalidUTF8(t *testing.T) {
	type named struct{ Name string }
	defs := defsOf(t, named{})
	_, err := fields.Canonical(reflect.ValueOf(named{Name: "\xff"}), defs["name"])
	assert.ErrorContains(t, err, "UTF-8")

	got, err := fields.Canonical(reflect.ValueOf(named{Name: "ünïcödé"}), defs["name"])
	require.NoError(t, err)
	assert.Equal(t, "ünïcödé", got)
}
