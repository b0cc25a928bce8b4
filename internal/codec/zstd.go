package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

// zstdCoders lazily builds the shared encoder/decoder pair. EncodeAll and
// DecodeAll are safe for concurrent use. The encoder runs single-threaded at
// a fixed level so that output stays byte-identical for equal input.
func zstdCoders() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
			zstd.WithZeroFrames(true),
		)
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	return zstdEnc, zstdDec, zstdErr
}

// Zstd compresses the output of an inner codec with Zstandard. The zero
// value wraps Default.
type Zstd struct {
	inner Codec
}

// NewZstd wraps inner with zstd compression. A nil inner uses Default.
func NewZstd(inner Codec) Zstd {
	if inner == nil {
		inner = Default
	}
	return Zstd{inner: inner}
}

func (z Zstd) base() Codec {
	if z.inner == nil {
		return Default
	}
	return z.inner
}

// Marshal encodes v with the inner codec and compresses the result.
func (z Zstd) Marshal(v any) ([]byte, error) {
	b, err := z.base().Marshal(v)
	if err != nil {
		return nil, err
	}
	enc, _, err := zstdCoders()
	if err != nil {
		return nil, fmt.Errorf("zstd init: %w", err)
	}
	return enc.EncodeAll(b, make([]byte, 0, len(b))), nil
}

// Unmarshal decompresses data and decodes it with the inner codec.
func (z Zstd) Unmarshal(data []byte, v any) error {
	_, dec, err := zstdCoders()
	if err != nil {
		return fmt.Errorf("zstd init: %w", err)
	}
	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	return z.base().Unmarshal(raw, v)
}

// Name returns "zstd+" followed by the inner codec name.
func (z Zstd) Name() string { return "zstd+" + z.base().Name() }
