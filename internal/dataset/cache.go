package dataset

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"wilayah/internal/logger"
	"wilayah/internal/metrics"
	"wilayah/internal/region"
)

// DocumentCache：原始文档缓存；Get 未命中时返回 (nil, nil)
type DocumentCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, doc []byte, ttl time.Duration) error
}

// RedisCache 以字符串键保存 JSON 文档
type RedisCache struct {
	rc *redis.Client
}

func NewRedisCache(rc *redis.Client) *RedisCache { return &RedisCache{rc: rc} }

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rc.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

func (c *RedisCache) Set(ctx context.Context, key string, doc []byte, ttl time.Duration) error {
	return c.rc.Set(ctx, key, doc, ttl).Err()
}

// CacheKey 由来源串构成缓存键
func CacheKey(source string) string { return "wilayah:dataset:" + redact(source) }

// 文档注释：带缓存的数据集来源
// 背景：多实例部署时远端来源（HTTP/S3/数据库）只需被拉取一次，其余实例直接读 Redis 中的文档。
// 约束：缓存读写失败只记日志，不影响加载结果；缓存中的文档损坏时回源加载并覆盖。
type CachedProvider struct {
	Inner Provider
	Cache DocumentCache
	Key   string
	TTL   time.Duration
}

func (p *CachedProvider) Kind() string { return p.Inner.Kind() }

func (p *CachedProvider) Load(ctx context.Context) (*region.Dataset, error) {
	l := logger.L()
	if b, err := p.Cache.Get(ctx, p.Key); err != nil {
		l.Error("dataset_cache_get_error", "key", p.Key, "err", err)
	} else if b != nil {
		if ds, err := Decode(bytes.NewReader(b)); err == nil {
			metrics.DatasetCacheHitsTotal.Inc()
			l.Debug("dataset_cache_hit", "key", p.Key)
			return ds, nil
		}
		l.Error("dataset_cache_corrupt", "key", p.Key)
	}
	metrics.DatasetCacheMissesTotal.Inc()
	ds, err := p.Inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err == nil {
		if err := p.Cache.Set(ctx, p.Key, buf.Bytes(), p.TTL); err != nil {
			l.Error("dataset_cache_set_error", "key", p.Key, "err", err)
		}
	}
	return ds, nil
}
