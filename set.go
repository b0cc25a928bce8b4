package reditio

import "context"

// Set binds a Redis set to an unordered, duplicate-free collection of records
// of type T. Membership is decided by Redis on the encoded bytes, which the
// Schema guarantees are identical for equal records.
type Set[T any] struct {
	binding[T]
}

// SetOf returns the set binding of record type T at name.
func SetOf[T any](s *Store, name string) (*Set[T], error) {
	b, err := newBinding[T](s, name)
	if err != nil {
		return nil, err
	}
	return &Set[T]{b}, nil
}

// Add inserts r into the set (SADD). Adding an existing record is a no-op.
func (s *Set[T]) Add(ctx context.Context, r T) error {
	return s.store.do("set", "add", s.key, true, func() error {
		b, err := s.schema.Encode(r)
		if err != nil {
			return err
		}
		return storeErr("sadd", s.key, s.store.conn.SAdd(ctx, s.key, b))
	})
}

// Members returns every record in the set (SMEMBERS), in no particular order.
// If any member fails to decode the call fails with ErrSchemaMismatch.
func (s *Set[T]) Members(ctx context.Context) ([]T, error) {
	var out []T
	err := s.store.do("set", "members", s.key, false, func() error {
		raw, err := s.store.conn.SMembers(ctx, s.key)
		if err != nil {
			return storeErr("smembers", s.key, err)
		}
		out, err = s.schema.decodeAll(raw)
		return err
	})
	return out, err
}

// Contains reports whether r is a member (SISMEMBER).
func (s *Set[T]) Contains(ctx context.Context, r T) (bool, error) {
	var ok bool
	err := s.store.do("set", "contains", s.key, false, func() error {
		b, err := s.schema.Encode(r)
		if err != nil {
			return err
		}
		ok, err = s.store.conn.SIsMember(ctx, s.key, b)
		return storeErr("sismember", s.key, err)
	})
	return ok, err
}

// Remove deletes r from the set (SREM). Removing a non-member is a no-op.
func (s *Set[T]) Remove(ctx context.Context, r T) error {
	return s.store.do("set", "remove", s.key, true, func() error {
		b, err := s.schema.Encode(r)
		if err != nil {
			return err
		}
		return storeErr("srem", s.key, s.store.conn.SRem(ctx, s.key, b))
	})
}

// Len returns the number of members (SCARD).
func (s *Set[T]) Len(ctx context.Context) (int64, error) {
	return s.count(ctx, "set", "scard", s.store.conn.SCard)
}

// Delete removes the set.
func (s *Set[T]) Delete(ctx context.Context) error {
	return s.delete(ctx, "set")
}
