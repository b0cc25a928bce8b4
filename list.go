package reditio

import "context"

// List binds a Redis list to an ordered sequence of records of type T.
type List[T any] struct {
	binding[T]
}

// ListOf returns the list binding of record type T at name.
func ListOf[T any](s *Store, name string) (*List[T], error) {
	b, err := newBinding[T](s, name)
	if err != nil {
		return nil, err
	}
	return &List[T]{b}, nil
}

// Append pushes r onto the tail of the list (RPUSH).
func (l *List[T]) Append(ctx context.Context, r T) error {
	return l.store.do("list", "append", l.key, true, func() error {
		b, err := l.schema.Encode(r)
		if err != nil {
			return err
		}
		return storeErr("rpush", l.key, l.store.conn.RPush(ctx, l.key, b))
	})
}

// GetRange returns the records at positions start..stop inclusive (LRANGE).
// Negative indices count from the end, so GetRange(ctx, 0, -1) is the whole
// list. An absent key or an empty range yields an empty slice. If any element
// fails to decode the call fails with ErrSchemaMismatch and returns nothing.
func (l *List[T]) GetRange(ctx context.Context, start, stop int64) ([]T, error) {
	var out []T
	err := l.store.do("list", "getrange", l.key, false, func() error {
		raw, err := l.store.conn.LRange(ctx, l.key, start, stop)
		if err != nil {
			return storeErr("lrange", l.key, err)
		}
		out, err = l.schema.decodeAll(raw)
		return err
	})
	return out, err
}

// Len returns the list length (LLEN).
func (l *List[T]) Len(ctx context.Context) (int64, error) {
	return l.count(ctx, "list", "llen", l.store.conn.LLen)
}

// Delete removes the list.
func (l *List[T]) Delete(ctx context.Context) error {
	return l.delete(ctx, "list")
}
