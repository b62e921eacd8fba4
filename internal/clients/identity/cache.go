package identity

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	types "github.com/yungbote/promptlib-backend/internal/domain"
	"github.com/yungbote/promptlib-backend/internal/observability"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

const cacheKeyPrefix = "identity:user:"

type cachedClient struct {
	log   *logger.Logger
	inner Client
	rdb   goredis.UniversalClient
	ttl   time.Duration
	group singleflight.Group
}

// NewCached fronts inner with a Redis read-through cache. Misses are fetched from inner in one
// batched call; identical concurrent batches share that call. Redis failures fall through to
// inner.
func NewCached(log *logger.Logger, inner Client, rdb goredis.UniversalClient, ttl time.Duration) Client {
	if rdb == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &cachedClient{
		log:   log.With("client", "CachedIdentityClient"),
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
	}
}

func (c *cachedClient) Resolve(ctx context.Context, ids []int64) (map[int64]types.Author, error) {
	ids = distinctIDs(ids)
	if len(ids) == 0 {
		return map[int64]types.Author{}, nil
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	// The shared call outlives any single caller; each caller still honours its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strings.Join(parts, ","), func() (any, error) {
		return c.resolve(shared, ids)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	found := res.Val.(map[int64]types.Author)
	out := make(map[int64]types.Author, len(found))
	for k, a := range found {
		out[k] = a
	}
	return out, nil
}

func (c *cachedClient) resolve(ctx context.Context, ids []int64) (map[int64]types.Author, error) {
	start := time.Now()
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, cacheKey(id))
	}

	out := make(map[int64]types.Author, len(ids))
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn("identity cache read failed, falling through", "error", err)
		observability.Current().ObserveIdentityLookup("cache", "error", time.Since(start))
		return c.inner.Resolve(ctx, ids)
	}

	var misses []int64
	for i, raw := range vals {
		s, ok := raw.(string)
		if !ok {
			misses = append(misses, ids[i])
			continue
		}
		var a types.Author
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			misses = append(misses, ids[i])
			continue
		}
		out[ids[i]] = a
	}
	status := "hit"
	if len(misses) > 0 {
		status = "miss"
	}
	observability.Current().ObserveIdentityLookup("cache", status, time.Since(start))
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.inner.Resolve(ctx, misses)
	if err != nil {
		return nil, err
	}
	pipe := c.rdb.Pipeline()
	for id, a := range fetched {
		out[id] = a
		raw, err := json.Marshal(a)
		if err != nil {
			continue
		}
		pipe.Set(ctx, cacheKey(id), raw, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("identity cache write failed", "error", err)
	}
	return out, nil
}

func cacheKey(id int64) string {
	return cacheKeyPrefix + strconv.FormatInt(id, 10)
}
