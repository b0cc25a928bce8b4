package reditio

import (
	"context"
	"errors"

	"github.com/MatthewScholefield/Reditio/internal/redisconn"
)

// Key binds a Redis string key to a single record of type T.
type Key[T any] struct {
	binding[T]
}

// KeyOf returns the scalar binding of record type T at name.
func KeyOf[T any](s *Store, name string) (*Key[T], error) {
	b, err := newBinding[T](s, name)
	if err != nil {
		return nil, err
	}
	return &Key[T]{b}, nil
}

// Set writes r to the key, replacing any prior value (SET). Setting the same
// record twice leaves Redis unchanged.
func (k *Key[T]) Set(ctx context.Context, r T) error {
	return k.store.do("key", "set", k.key, true, func() error {
		b, err := k.schema.Encode(r)
		if err != nil {
			return err
		}
		return storeErr("set", k.key, k.store.conn.Set(ctx, k.key, b))
	})
}

// Get reads and decodes the record (GET). It fails with ErrKeyNotFound when
// the key does not exist and ErrSchemaMismatch when the stored bytes do not
// decode as T.
func (k *Key[T]) Get(ctx context.Context) (T, error) {
	var out T
	err := k.store.do("key", "get", k.key, false, func() error {
		b, err := k.store.conn.Get(ctx, k.key)
		if errors.Is(err, redisconn.ErrMiss) {
			return notFound(k.key, "")
		}
		if err != nil {
			return storeErr("get", k.key, err)
		}
		out, err = k.schema.Decode(b)
		return err
	})
	return out, err
}

// Exists reports whether the key exists.
func (k *Key[T]) Exists(ctx context.Context) (bool, error) {
	var ok bool
	err := k.store.do("key", "exists", k.key, false, func() error {
		var err error
		ok, err = k.store.conn.Exists(ctx, k.key)
		return storeErr("exists", k.key, err)
	})
	return ok, err
}

// Delete removes the key.
func (k *Key[T]) Delete(ctx context.Context) error {
	return k.delete(ctx, "key")
}
