package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sizeCacheTTL = time.Hour

// SizeCache fronts ObjectStore.Stat with redis so gallery listings don't
// hammer the object store with one HEAD per photo. A nil redis client
// degrades to a direct stat
type SizeCache struct {
	RDB   *redis.Client
	Store ObjectStore
}

func NewSizeCache(rdb *redis.Client, store ObjectStore) *SizeCache {
	return &SizeCache{
		RDB:   rdb,
		Store: store,
	}
}

func (s *SizeCache) Get(ctx context.Context, key string) (int64, error) {
	if s.RDB != nil {
		cached, err := s.RDB.Get(ctx, "objsize:"+key).Result()
		if err == nil {
			if size, err := strconv.ParseInt(cached, 10, 64); err == nil {
				return size, nil
			}
		} else if err != redis.Nil {
			zap.L().Warn("Size cache read failed", zap.Error(err))
		}
	}

	size, err := s.Store.Stat(ctx, key)
	if err != nil {
		return 0, err
	}

	s.remember(ctx, key, size)

	return size, nil
}

// Forget drops the cached size, called when an object is deleted
func (s *SizeCache) Forget(ctx context.Context, key string) {
	if s.RDB == nil {
		return
	}

	if err := s.RDB.Del(ctx, "objsize:"+key).Err(); err != nil {
		zap.L().Warn("Size cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *SizeCache) remember(ctx context.Context, key string, size int64) {
	if s.RDB == nil {
		return
	}

	if err := s.RDB.Set(ctx, "objsize:"+key, strconv.FormatInt(size, 10), sizeCacheTTL).Err(); err != nil {
		zap.L().Warn("Size cache write failed", zap.String("key", key), zap.Error(err))
	}
}
