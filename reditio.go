package reditio

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MatthewScholefield/Reditio/internal/codec"
	"github.com/MatthewScholefield/Reditio/internal/metrics"
	"github.com/MatthewScholefield/Reditio/internal/redisconn"
	"github.com/redis/go-redis/v9"
)

// Re-export types so callers only import this package.
type MetricsRecorder = metrics.Recorder
type Codec = codec.Codec

// Built-in codecs.
var (
	JSON    Codec = codec.JSON{}
	MsgPack Codec = codec.MsgPack{}
)

// Zstd wraps inner so that encoded records are stored zstd-compressed.
func Zstd(inner Codec) Codec { return codec.NewZstd(inner) }

// ────────────────────────────────────────────────────────────────────────────
// Config
// ────────────────────────────────────────────────────────────────────────────

// PoolConfig configures the Redis client built from Config.RedisAddr.
type PoolConfig struct {
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Config contains all Store configuration.
type Config struct {
	// Client is a pre-established connection. The Store never closes it.
	Client redis.UniversalClient

	// Used to dial a Store-owned client when Client is nil.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Pool          PoolConfig

	// KeyPrefix namespaces every binding key as KeyPrefix + ":" + name.
	KeyPrefix string

	// Codec is the record wire format (default JSON). CodecName selects a
	// built-in codec by name instead ("json", "msgpack", "zstd+json",
	// "zstd+msgpack"). Compress wraps the codec with zstd; stored values are
	// then unreadable by the uncompressed codec.
	Codec     Codec
	CodecName string
	Compress  bool

	Metrics MetricsRecorder
	Logger  Logger
}

func (c *Config) defaults() {
	if c.Codec == nil && c.CodecName != "" {
		c.Codec, _ = codec.ByName(c.CodecName)
	}
	if c.Codec == nil {
		c.Codec = JSON
	}
	if c.Compress {
		c.Codec = Zstd(c.Codec)
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop{}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
}

func (c *Config) validate() error {
	switch {
	case c.Client == nil && c.RedisAddr == "":
		return fmt.Errorf("%w: one of Client or RedisAddr is required", ErrInvalidConfig)
	case c.Client != nil && c.RedisAddr != "":
		return fmt.Errorf("%w: Client and RedisAddr are mutually exclusive", ErrInvalidConfig)
	}
	if c.CodecName != "" {
		if c.Codec != nil {
			return fmt.Errorf("%w: Codec and CodecName are mutually exclusive", ErrInvalidConfig)
		}
		if _, ok := codec.ByName(c.CodecName); !ok {
			return fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, c.CodecName)
		}
	}
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Stats
// ────────────────────────────────────────────────────────────────────────────

type storeStats struct {
	Reads  atomic.Int64
	Writes atomic.Int64
	Errors atomic.Int64
}

// Stats is the snapshot returned by Store.Stats(). Hits and Misses count
// point lookups (Key.Get, Hash.Get, SortedSet.Score) that found or did not
// find a value; a hit whose bytes then fail to decode is still a hit.
type Stats struct {
	Reads   int64
	Writes  int64
	Hits    int64
	Misses  int64
	Errors  int64
	Schemas int
}

// ────────────────────────────────────────────────────────────────────────────
// Store
// ────────────────────────────────────────────────────────────────────────────

// Store is the entry point: it owns the schema cache and hands out bindings
// wired to one shared Redis connection. Bindings are created with KeyOf,
// ListOf, SetOf, SortedSetOf and HashOf.
//
// Every binding operation issues exactly one Redis command. The Store adds
// no locking, retries or timeouts; use the context to bound a call.
type Store struct {
	cfg        Config
	conn       *redisconn.Conn
	codec      Codec
	registry   *schemaRegistry
	stats      storeStats
	metrics    MetricsRecorder
	logger     Logger
	ownsClient bool
	closed     atomic.Bool
}

// New creates a Store from cfg. No command is sent to Redis.
func New(cfg Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.defaults()

	s := &Store{
		cfg:      cfg,
		codec:    cfg.Codec,
		registry: newSchemaRegistry(),
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}

	client := cfg.Client
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.Pool.PoolSize,
			DialTimeout:  cfg.Pool.DialTimeout,
			ReadTimeout:  cfg.Pool.ReadTimeout,
			WriteTimeout: cfg.Pool.WriteTimeout,
		})
		s.ownsClient = true
	}
	s.conn = redisconn.New(redisconn.Options{Client: client, KeyPrefix: cfg.KeyPrefix})

	s.logger.Info("reditio: store opened", "codec", s.codec.Name(), "key_prefix", cfg.KeyPrefix, "owns_client", s.ownsClient)
	return s, nil
}

// Codec returns the codec records are stored with.
func (s *Store) Codec() Codec { return s.codec }

// Ping checks that Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return storeErr("ping", "", s.conn.Ping(ctx))
}

// Stats returns a snapshot of operational counters.
func (s *Store) Stats() Stats {
	cs := s.conn.Stats()
	return Stats{
		Reads:   s.stats.Reads.Load(),
		Writes:  s.stats.Writes.Load(),
		Hits:    cs.Hits,
		Misses:  cs.Misses,
		Errors:  s.stats.Errors.Load(),
		Schemas: s.registry.len(),
	}
}

// Close releases the Store. A client the Store dialled itself is closed; a
// client passed in Config.Client is left open for its owner.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Info("reditio: store closed")
	if s.ownsClient {
		return s.conn.Client().Close()
	}
	return nil
}

// do runs one binding command and accounts for it. Misses and failures are
// returned unchanged to the caller.
func (s *Store) do(kind, op, key string, write bool, fn func() error) error {
	if s.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	err := fn()
	s.metrics.RecordOp(kind, op)
	s.metrics.RecordLatency(kind, op, time.Since(start))
	if write {
		s.stats.Writes.Add(1)
	} else {
		s.stats.Reads.Add(1)
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrKeyNotFound):
		s.metrics.RecordMiss(kind, op)
	default:
		s.stats.Errors.Add(1)
		s.metrics.RecordError(kind, op)
		s.logger.Debug("reditio: command failed", "kind", kind, "op", op, "key", key, "err", err)
	}
	return err
}

// binding is the state shared by every binding kind.
type binding[T any] struct {
	store  *Store
	key    string
	schema *Schema[T]
}

func newBinding[T any](s *Store, name string) (binding[T], error) {
	if s.closed.Load() {
		return binding[T]{}, ErrClosed
	}
	if name == "" {
		return binding[T]{}, fmt.Errorf("%w: empty key name", ErrInvalidConfig)
	}
	sc, err := schemaFor[T](s)
	if err != nil {
		return binding[T]{}, err
	}
	return binding[T]{store: s, key: s.conn.Key(name), schema: sc}, nil
}

// Key returns the full Redis key, including any KeyPrefix.
func (b binding[T]) Key() string { return b.key }

// Schema returns the record schema the binding encodes with.
func (b binding[T]) Schema() *Schema[T] { return b.schema }

// delete removes the whole Redis key. Deleting an absent key is not an error.
func (b binding[T]) delete(ctx context.Context, kind string) error {
	return b.store.do(kind, "delete", b.key, true, func() error {
		return storeErr("del", b.key, b.store.conn.Del(ctx, b.key))
	})
}

func (b binding[T]) count(ctx context.Context, kind, cmd string, fn func(context.Context, string) (int64, error)) (int64, error) {
	var n int64
	err := b.store.do(kind, "len", b.key, false, func() error {
		var err error
		n, err = fn(ctx, b.key)
		return storeErr(cmd, b.key, err)
	})
	return n, err
}
