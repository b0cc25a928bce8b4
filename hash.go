package reditio

import (
	"context"
	"errors"

	"github.com/MatthewScholefield/Reditio/internal/redisconn"
)

// Hash binds a Redis hash to a mapping from field name to record of type T.
type Hash[T any] struct {
	binding[T]
}

// HashOf returns the hash binding of record type T at name.
func HashOf[T any](s *Store, name string) (*Hash[T], error) {
	b, err := newBinding[T](s, name)
	if err != nil {
		return nil, err
	}
	return &Hash[T]{b}, nil
}

// Set stores r under field, replacing any prior value (HSET).
func (h *Hash[T]) Set(ctx context.Context, field string, r T) error {
	return h.store.do("hash", "set", h.key, true, func() error {
		b, err := h.schema.Encode(r)
		if err != nil {
			return err
		}
		return storeErr("hset", h.key, h.store.conn.HSet(ctx, h.key, field, b))
	})
}

// Get returns the record under field (HGET), or ErrKeyNotFound when the field
// or the hash is absent.
func (h *Hash[T]) Get(ctx context.Context, field string) (T, error) {
	var out T
	err := h.store.do("hash", "get", h.key, false, func() error {
		b, err := h.store.conn.HGet(ctx, h.key, field)
		if errors.Is(err, redisconn.ErrMiss) {
			return notFound(h.key, field)
		}
		if err != nil {
			return storeErr("hget", h.key, err)
		}
		out, err = h.schema.Decode(b)
		return err
	})
	return out, err
}

// GetAll returns every field and its record (HGETALL). An absent hash yields
// an empty map. If any value fails to decode the call fails with
// ErrSchemaMismatch and returns nothing.
func (h *Hash[T]) GetAll(ctx context.Context) (map[string]T, error) {
	var out map[string]T
	err := h.store.do("hash", "getall", h.key, false, func() error {
		raw, err := h.store.conn.HGetAll(ctx, h.key)
		if err != nil {
			return storeErr("hgetall", h.key, err)
		}
		m := make(map[string]T, len(raw))
		for field, v := range raw {
			rec, err := h.schema.Decode([]byte(v))
			if err != nil {
				return err
			}
			m[field] = rec
		}
		out = m
		return nil
	})
	return out, err
}

// Del removes fields from the hash (HDEL). Absent fields are ignored.
func (h *Hash[T]) Del(ctx context.Context, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return h.store.do("hash", "del", h.key, true, func() error {
		return storeErr("hdel", h.key, h.store.conn.HDel(ctx, h.key, fields...))
	})
}

// Len returns the number of fields (HLEN).
func (h *Hash[T]) Len(ctx context.Context) (int64, error) {
	return h.count(ctx, "hash", "hlen", h.store.conn.HLen)
}

// Delete removes the hash.
func (h *Hash[T]) Delete(ctx context.Context) error {
	return h.delete(ctx, "hash")
}
