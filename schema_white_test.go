package reditio

import (
	"reflect"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Left  string
	Right int
}

func TestSchemaRegistry_PutKeepsFirst(t *testing.T) {
	r := newSchemaRegistry()
	typ := reflect.TypeOf((*pair)(nil)).Elem()

	first, err := NewSchema[pair](JSON)
	require.NoError(t, err)
	second, err := NewSchema[pair](JSON)
	require.NoError(t, err)

	assert.Same(t, first, r.put(typ, first))
	assert.Same(t, first, r.put(typ, second))

	got, ok := r.get(typ)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, r.len())
}

func TestSchemaFor_ConcurrentCallersShare(t *testing.T) {
	st := &Store{codec: JSON, registry: newSchemaRegistry()}

	const n = 16
	got := make([]*Schema[pair], n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := schemaFor[pair](st)
			if err == nil {
				got[i] = s
			}
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Same(t, got[0], got[i])
	}
}

func TestSchema_UnknownField(t *testing.T) {
	s, err := NewSchema[pair](JSON)
	require.NoError(t, err)

	doc := map[string]any{"left": "a", "right": 1, "zz": 0, "extra": 0}
	assert.Equal(t, "extra", s.unknownField(doc))
	assert.Equal(t, "", s.unknownField(map[string]any{"left": "a"}))
}

func TestSchema_DecodeAll(t *testing.T) {
	s, err := NewSchema[pair](JSON)
	require.NoError(t, err)

	out, err := s.decodeAll([]string{`{"left":"a","right":1}`, `{"left":"b","right":2}`})
	require.NoError(t, err)
	assert.Equal(t, []pair{{"a", 1}, {"b", 2}}, out)

	out, err = s.decodeAll([]string{`{"left":"a","right":1}`, `{"left":"b"}`})
	assert.ErrorIs(t, err, ErrSchemaMismatch)
	assert.Nil(t, out)
}

func TestConfig_Defaults(t *testing.T) {
	c := Config{Compress: true, Codec: MsgPack}
	c.defaults()
	assert.Equal(t, "zstd+msgpack", c.Codec.Name())
	assert.NotNil(t, c.Metrics)
	assert.NotNil(t, c.Logger)

	d := Config{}
	d.defaults()
	assert.Equal(t, "json", d.Codec.Name())
}

func TestDecodeScored(t *testing.T) {
	s, err := NewSchema[pair](JSON)
	require.NoError(t, err)
	good := redis.Z{Score: 1, Member: `{"left":"a","right":1}`}

	out, err := decodeScored(s, []redis.Z{good})
	require.NoError(t, err)
	assert.Equal(t, []Scored[pair]{{Record: pair{"a", 1}, Score: 1}}, out)

	tests := []struct {
		name string
		bad  redis.Z
	}{
		{"non-string member", redis.Z{Score: 2, Member: 42}},
		{"undecodable member", redis.Z{Score: 2, Member: `{"left":"b"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := decodeScored(s, []redis.Z{good, tt.bad})
			assert.ErrorIs(t, err, ErrSchemaMismatch)
			assert.Nil(t, out)
		})
	}
}
