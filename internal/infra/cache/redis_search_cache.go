package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"pos/internal/domain/model"
	"pos/internal/usecase"

	"github.com/redis/go-redis/v9"
)

// 検索結果のキャッシュ（kind+queryごと）
type RedisSearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSearchCache(rdb *redis.Client, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{rdb: rdb, ttl: ttl}
}

func searchKey(kind model.SearchKind, query string) string {
	return "pos:search:" + string(kind) + ":" + strings.ToLower(strings.TrimSpace(query))
}

func (r *RedisSearchCache) Get(ctx context.Context, kind model.SearchKind, query string) ([]model.SearchItem, bool, error) {
	raw, err := r.rdb.Get(ctx, searchKey(kind, query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []model.SearchItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (r *RedisSearchCache) Set(ctx context.Context, kind model.SearchKind, query string, items []model.SearchItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, searchKey(kind, query), raw, r.ttl).Err()
}

var _ usecase.SearchCache = (*RedisSearchCache)(nil)
