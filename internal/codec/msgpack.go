package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack is a compact binary codec using MessagePack encoding.
type MsgPack struct{}

// Marshal serializes v to MessagePack bytes with map keys sorted.
func (MsgPack) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes exactly one MessagePack value from data into v.
func (MsgPack) Unmarshal(data []byte, v any) error {
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	defer msgpack.PutDecoder(dec)
	dec.Reset(&r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("msgpack: %d trailing bytes after value", r.Len())
	}
	return nil
}

// Name returns "msgpack".
func (MsgPack) Name() string { return "msgpack" }
