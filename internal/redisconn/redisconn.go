// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// redisconn.go — thin adapter over a go-redis UniversalClient: one method per
// Redis command used by the bindings (strings, lists, sets, sorted sets,
// hashes), global key-prefix namespacing, hit/miss counters, and the ErrMiss
// sentinel that separates an absent key or field from a genuine Redis error.

// Package redisconn provides the Redis connection adapter used by bindings.
package redisconn

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when the requested key, hash field or sorted-set member
// does not exist. Callers use errors.Is(err, redisconn.ErrMiss) to tell a miss
// from a genuine Redis error. Every other error is the client's, unwrapped.
var ErrMiss = errors.New("redisconn: miss")

// Conn wraps a Redis client. It holds no per-key state and is safe for
// concurrent use.
type Conn struct {
	client    redis.UniversalClient
	keyPrefix string
	hits      atomic.Int64
	misses    atomic.Int64
}

// Options configures a new Conn.
type Options struct {
	Client    redis.UniversalClient
	KeyPrefix string
}

// New creates a new Conn.
func New(opts Options) *Conn {
	return &Conn{client: opts.Client, keyPrefix: opts.KeyPrefix}
}

// Key returns the Redis key for a binding name, applying the global prefix.
func (c *Conn) Key(name string) string {
	if c.keyPrefix != "" {
		return c.keyPrefix + ":" + name
	}
	return name
}

// Client returns the underlying client.
func (c *Conn) Client() redis.UniversalClient { return c.client }

func (c *Conn) miss(err error) error {
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return ErrMiss
	}
	return err
}

// IsWrongType reports whether err is a WRONGTYPE reply, returned when a key
// holds a different Redis type than the command expects.
func IsWrongType(err error) bool {
	var re redis.Error
	return errors.As(err, &re) && strings.HasPrefix(re.Error(), "WRONGTYPE")
}

// ── Strings ──────────────────────────────────────────────────────────────────

// Get returns the value of key, or ErrMiss.
func (c *Conn) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, c.miss(err)
	}
	c.hits.Add(1)
	return b, nil
}

// Set stores value under key with no expiry, replacing any prior value.
func (c *Conn) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, 0).Err()
}

// Exists reports whether key exists.
func (c *Conn) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Del removes key. Deleting an absent key is not an error.
func (c *Conn) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// ── Lists ────────────────────────────────────────────────────────────────────

// RPush appends value to the tail of the list at key.
func (c *Conn) RPush(ctx context.Context, key string, value []byte) error {
	return c.client.RPush(ctx, key, value).Err()
}

// LRange returns elements start..stop inclusive; negative indices count from
// the tail. An absent key yields an empty slice.
func (c *Conn) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return c.client.LRange(ctx, key, start, stop).Result()
}

// LLen returns the list length (0 for an absent key).
func (c *Conn) LLen(ctx context.Context, key string) (int64, error) {
	return c.client.LLen(ctx, key).Result()
}

// ── Sets ─────────────────────────────────────────────────────────────────────

// SAdd adds member to the set at key.
func (c *Conn) SAdd(ctx context.Context, key string, member []byte) error {
	return c.client.SAdd(ctx, key, member).Err()
}

// SRem removes member from the set at key.
func (c *Conn) SRem(ctx context.Context, key string, member []byte) error {
	return c.client.SRem(ctx, key, member).Err()
}

// SIsMember reports whether member is in the set at key.
func (c *Conn) SIsMember(ctx context.Context, key string, member []byte) (bool, error) {
	return c.client.SIsMember(ctx, key, member).Result()
}

// SMembers returns every member of the set at key, in no particular order.
func (c *Conn) SMembers(ctx context.Context, key string) ([]string, error) {
	return c.client.SMembers(ctx, key).Result()
}

// SCard returns the set cardinality.
func (c *Conn) SCard(ctx context.Context, key string) (int64, error) {
	return c.client.SCard(ctx, key).Result()
}

// ── Sorted sets ──────────────────────────────────────────────────────────────

// ZAdd inserts member with score, replacing the score of an existing member.
func (c *Conn) ZAdd(ctx context.Context, key string, score float64, member []byte) error {
	return c.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZRange returns members by rank start..stop in ascending score order. Equal
// scores are ordered by Redis, lexicographically by member bytes.
func (c *Conn) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return c.client.ZRange(ctx, key, start, stop).Result()
}

// ZRangeWithScores is ZRange returning scores alongside members.
func (c *Conn) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]redis.Z, error) {
	return c.client.ZRangeWithScores(ctx, key, start, stop).Result()
}

// ZScore returns the score of member, or ErrMiss.
func (c *Conn) ZScore(ctx context.Context, key string, member []byte) (float64, error) {
	f, err := c.client.ZScore(ctx, key, string(member)).Result()
	if err != nil {
		return 0, c.miss(err)
	}
	c.hits.Add(1)
	return f, nil
}

// ZCard returns the sorted-set cardinality.
func (c *Conn) ZCard(ctx context.Context, key string) (int64, error) {
	return c.client.ZCard(ctx, key).Result()
}

// ── Hashes ───────────────────────────────────────────────────────────────────

// HSet stores value under field of the hash at key.
func (c *Conn) HSet(ctx context.Context, key, field string, value []byte) error {
	return c.client.HSet(ctx, key, field, value).Err()
}

// HGet returns the value of field, or ErrMiss.
func (c *Conn) HGet(ctx context.Context, key, field string) ([]byte, error) {
	b, err := c.client.HGet(ctx, key, field).Bytes()
	if err != nil {
		return nil, c.miss(err)
	}
	c.hits.Add(1)
	return b, nil
}

// HGetAll returns every field/value pair of the hash at key.
func (c *Conn) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.client.HGetAll(ctx, key).Result()
}

// HDel removes fields from the hash at key.
func (c *Conn) HDel(ctx context.Context, key string, fields ...string) error {
	return c.client.HDel(ctx, key, fields...).Err()
}

// HLen returns the number of fields in the hash at key.
func (c *Conn) HLen(ctx context.Context, key string) (int64, error) {
	return c.client.HLen(ctx, key).Result()
}

// ── Health / stats ───────────────────────────────────────────────────────────

// Ping checks that Redis is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Stats holds hit and miss counts for point lookups (GET, HGET, ZSCORE).
type Stats struct {
	Hits   int64
	Misses int64
}

// Stats returns current statistics.
func (c *Conn) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
