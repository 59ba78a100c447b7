package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/tuannm99/novarecord/internal/logging"
	"github.com/tuannm99/novarecord/internal/record"
	"github.com/tuannm99/novarecord/internal/schema"
)

var ErrNotFound = errors.New("store: record not found")

// RedisStore keeps encoded records under "<prefix><key>". Records returned
// by Get are decoded fresh on every call and are owned by the caller.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	metrics *Metrics
	log     *slog.Logger
}

// NewRedisStore wraps client. m and log may be nil.
func NewRedisStore(client redis.UniversalClient, prefix string, m *Metrics, log *slog.Logger) *RedisStore {
	if log == nil {
		log = logging.NewNop()
	}
	return &RedisStore{
		client:  client,
		prefix:  prefix,
		metrics: m,
		log:     log.With("component", "store"),
	}
}

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Put(ctx context.Context, key string, r *record.Record) error {
	buf, err := EncodeRecord(r)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), buf, 0).Err(); err != nil {
		return fmt.Errorf("store: put %q: %w", key, err)
	}
	s.metrics.observe("encode", len(buf))
	s.log.Debug("put record", "key", key, "bytes", len(buf))
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string, st *schema.StructType) (*record.Record, error) {
	buf, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %q: %w", key, err)
	}
	r, err := DecodeRecord(st, buf)
	if err != nil {
		return nil, fmt.Errorf("store: decode %q: %w", key, err)
	}
	s.metrics.observe("decode", len(buf))
	s.log.Debug("get record", "key", key, "bytes", len(buf))
	return r, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, s.key(key)).Result()
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return nil
}

// Keys lists stored keys without the prefix, sorted.
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("store: scan: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
