package reditio

import (
	"context"
	"errors"
	"fmt"

	"github.com/MatthewScholefield/Reditio/internal/redisconn"
	"github.com/redis/go-redis/v9"
)

// SortedSet binds a Redis sorted set to records of type T, each with a score.
type SortedSet[T any] struct {
	binding[T]
}

// Scored is a record together with its sorted-set score.
type Scored[T any] struct {
	Record T
	Score  float64
}

// SortedSetOf returns the sorted-set binding of record type T at name.
func SortedSetOf[T any](s *Store, name string) (*SortedSet[T], error) {
	b, err := newBinding[T](s, name)
	if err != nil {
		return nil, err
	}
	return &SortedSet[T]{b}, nil
}

// Add inserts r with score (ZADD). If an equal record is already present only
// its score is replaced.
func (z *SortedSet[T]) Add(ctx context.Context, r T, score float64) error {
	return z.store.do("zset", "add", z.key, true, func() error {
		b, err := z.schema.Encode(r)
		if err != nil {
			return err
		}
		return storeErr("zadd", z.key, z.store.conn.ZAdd(ctx, z.key, score, b))
	})
}

// GetRange returns the records ranked start..stop inclusive in ascending
// score order (ZRANGE). Negative indices count from the highest rank. Records
// with equal scores come back in the order Redis keeps them: lexicographic by
// encoded bytes.
func (z *SortedSet[T]) GetRange(ctx context.Context, start, stop int64) ([]T, error) {
	var out []T
	err := z.store.do("zset", "getrange", z.key, false, func() error {
		raw, err := z.store.conn.ZRange(ctx, z.key, start, stop)
		if err != nil {
			return storeErr("zrange", z.key, err)
		}
		out, err = z.schema.decodeAll(raw)
		return err
	})
	return out, err
}

// GetRangeWithScores is GetRange returning each record's score as well.
func (z *SortedSet[T]) GetRangeWithScores(ctx context.Context, start, stop int64) ([]Scored[T], error) {
	var out []Scored[T]
	err := z.store.do("zset", "getrange", z.key, false, func() error {
		zs, err := z.store.conn.ZRangeWithScores(ctx, z.key, start, stop)
		if err != nil {
			return storeErr("zrange", z.key, err)
		}
		out, err = decodeScored(z.schema, zs)
		return err
	})
	return out, err
}

// decodeScored decodes every member or fails the whole call.
func decodeScored[T any](s *Schema[T], zs []redis.Z) ([]Scored[T], error) {
	out := make([]Scored[T], 0, len(zs))
	for _, m := range zs {
		member, ok := m.Member.(string)
		if !ok {
			return nil, s.mismatch("", fmt.Sprintf("unexpected member type %T", m.Member), nil)
		}
		rec, err := s.Decode([]byte(member))
		if err != nil {
			return nil, err
		}
		out = append(out, Scored[T]{Record: rec, Score: m.Score})
	}
	return out, nil
}

// Score returns the score of r (ZSCORE), or ErrKeyNotFound if r is not a
// member.
func (z *SortedSet[T]) Score(ctx context.Context, r T) (float64, error) {
	var score float64
	err := z.store.do("zset", "score", z.key, false, func() error {
		b, err := z.schema.Encode(r)
		if err != nil {
			return err
		}
		score, err = z.store.conn.ZScore(ctx, z.key, b)
		if errors.Is(err, redisconn.ErrMiss) {
			return notFound(z.key, "")
		}
		return storeErr("zscore", z.key, err)
	})
	return score, err
}

// Len returns the number of members (ZCARD).
func (z *SortedSet[T]) Len(ctx context.Context) (int64, error) {
	return z.count(ctx, "zset", "zcard", z.store.conn.ZCard)
}

// Delete removes the sorted set.
func (z *SortedSet[T]) Delete(ctx context.Context) error {
	return z.delete(ctx, "zset")
}
