package codec_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MatthewScholefield/Reditio/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc() map[string]any {
	return map[string]any{"name": "John", "age": int64(30), "zeta": true, "alpha": 1.5}
}

func TestJSONCodec(t *testing.T) {
	c := codec.JSON{}
	b, err := c.Marshal(doc())
	require.NoError(t, err)
	assert.Equal(t, `{"age":30,"alpha":1.5,"name":"John","zeta":true}`, string(b))

	var got map[string]any
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, json.Number("30"), got["age"])
	assert.Equal(t, "John", got["name"])
	assert.Equal(t, "json", c.Name())
}

func TestJSONCodec_TrailingData(t *testing.T) {
	var got map[string]any
	err := codec.JSON{}.Unmarshal([]byte(`{"a":1} {"b":2}`), &got)
	assert.Error(t, err)
}

func TestMsgPackCodec(t *testing.T) {
	c := codec.MsgPack{}
	b, err := c.Marshal(doc())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, "John", got["name"])
	assert.EqualValues(t, 30, got["age"])
	assert.Equal(t, "msgpack", c.Name())
}

func TestMsgPackCodec_TrailingData(t *testing.T) {
	c := codec.MsgPack{}
	b, err := c.Marshal(doc())
	require.NoError(t, err)

	var got map[string]any
	assert.Error(t, c.Unmarshal(append(b, 0x01), &got))
}

// Equal maps must encode identically regardless of insertion order.
func TestCodecs_Deterministic(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.MsgPack{}, codec.NewZstd(codec.MsgPack{})} {
		first, err := c.Marshal(doc())
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := c.Marshal(doc())
			require.NoError(t, err)
			assert.Equal(t, first, again, c.Name())
		}
	}
}

func TestZstdCodec(t *testing.T) {
	c := codec.NewZstd(codec.JSON{})
	assert.Equal(t, "zstd+json", c.Name())

	big := map[string]any{"body": strings.Repeat("abc", 1000)}
	b, err := c.Marshal(big)
	require.NoError(t, err)
	assert.Less(t, len(b), 3000)

	var got map[string]any
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, big["body"], got["body"])

	assert.Error(t, c.Unmarshal([]byte(`{"body":"x"}`), &got), "uncompressed input")
}

func TestZstdCodec_ZeroValue(t *testing.T) {
	var c codec.Zstd
	assert.Equal(t, "zstd+json", c.Name())
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "msgpack", "zstd+json", "zstd+msgpack"} {
		c, ok := codec.ByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.Name())
	}
	_, ok := codec.ByName("gob")
	assert.False(t, ok)
}
