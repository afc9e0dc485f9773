package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tenancykit/dps-probe/pkg/log"
)

// TokenCache 按凭据身份缓存 OAuth2 令牌的抽象。
// 当前策略是"不缓存"：默认装配 NoopTokenCache，每次调用都会真实走一遍
// 授权接口。缓存结构保留是为了以后可以换成真实实现而不动授权器本身，
// 在明确配置之前不要把真实实现接进默认装配。
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, token string)
	Clear(ctx context.Context, key string)
}

// NoopTokenCache 永不命中、永不保存的缓存，即默认的"不缓存"策略
type NoopTokenCache struct{}

func (NoopTokenCache) Get(context.Context, string) (string, bool) { return "", false }

func (NoopTokenCache) Set(context.Context, string, string) {}

func (NoopTokenCache) Clear(context.Context, string) {}

// RedisTokenCache 可替换的真实缓存实现，只有显式开启
// --redis.enable-token-cache 时才会被装配。
type RedisTokenCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisTokenCache(client redis.UniversalClient, ttl time.Duration) *RedisTokenCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisTokenCache{client: client, ttl: ttl}
}

func (c *RedisTokenCache) cacheKey(key string) string {
	return "dps-probe:oauth2-token:" + key
}

func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool) {
	token, err := c.client.Get(ctx, c.cacheKey(key)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warnf("读取令牌缓存失败: %v", err)
		}
		return "", false
	}
	return token, token != ""
}

func (c *RedisTokenCache) Set(ctx context.Context, key, token string) {
	if err := c.client.Set(ctx, c.cacheKey(key), token, c.ttl).Err(); err != nil {
		log.Warnf("写入令牌缓存失败: %v", err)
	}
}

func (c *RedisTokenCache) Clear(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.cacheKey(key)).Err(); err != nil {
		log.Warnf("清除令牌缓存失败: %v", err)
	}
}

// credentialCacheKey 凭据身份，多个执行并发时以此区分缓存条目
func credentialCacheKey(cred *Credential) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", cred.AuthType, cred.RegionScheme, cred.MemberID, cred.BranchID, cred.ClientID)
}
