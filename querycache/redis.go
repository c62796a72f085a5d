package querycache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldData      = "data"
	fieldStale     = "stale"
	fieldUpdatedAt = "updated_at"
)

// RedisStore keeps each entry in a hash so several service instances share
// one cache. Keys expire ttl after their last write; zero keeps them forever.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key(key)).Result()
	if err != nil {
		return Entry{}, false, err
	}
	data, ok := fields[fieldData]
	if !ok {
		return Entry{}, false, nil
	}

	entry := Entry{Data: []byte(data), Stale: fields[fieldStale] == "1"}
	if nanos, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64); err == nil {
		entry.UpdatedAt = time.Unix(0, nanos).UTC()
	}
	return entry, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry Entry) error {
	stale := "0"
	if entry.Stale {
		stale = "1"
	}
	updatedAt := ""
	if !entry.UpdatedAt.IsZero() {
		updatedAt = strconv.FormatInt(entry.UpdatedAt.UnixNano(), 10)
	}
	k := s.key(key)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			fieldData, entry.Data,
			fieldStale, stale,
			fieldUpdatedAt, updatedAt,
		)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}
