package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Sachinchaurasiya360/InternHack-sub000/config"
)

// Client Redis 客户端封装
// 用于限流、投递操作锁与职位详情缓存；nil 接收者上的所有方法均降级为无操作
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger

	rateLimit *goredis.Script
	unlock    *goredis.Script
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{
		rdb:       rdb,
		logger:    logger,
		rateLimit: goredis.NewScript(rateLimitScript),
		unlock:    goredis.NewScript(unlockScript),
	}, nil
}

// ── 限流 ──

// 固定窗口计数：首次计数时设置过期时间
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// CheckRateLimit 窗口内请求数未超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if c == nil || limit <= 0 || window <= 0 {
		return true, nil
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	allowed, err := c.rateLimit.Run(ctx, c.rdb, []string{key}, ttl, limit).Int64()
	if err != nil {
		return true, err
	}
	return allowed == 1, nil
}

// ── 操作锁 ──

const lockPrefix = "lock:"

// 仅持有者可释放
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// ErrLockHeld 操作锁已被其他请求持有
var ErrLockHeld = errors.New("操作处理中，请勿重复提交")

// AcquireLock 获取短时互斥锁，返回释放函数
// Redis 不可用时直接放行（返回空操作的释放函数）
func (c *Client) AcquireLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	noop := func() {}
	if c == nil {
		return noop, nil
	}
	token := uuid.NewString()
	ok, err := c.rdb.SetNX(ctx, lockPrefix+key, token, ttl).Result()
	if err != nil {
		c.logger.Warn("获取操作锁失败，降级放行", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := c.unlock.Run(releaseCtx, c.rdb, []string{lockPrefix + key}, token).Err(); err != nil {
			c.logger.Warn("释放操作锁失败", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// ── 缓存 ──

const cachePrefix = "cache:"

// GetJSON 读取缓存并反序列化，未命中返回 false
func (c *Client) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.rdb.Get(ctx, cachePrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 序列化后写入缓存
func (c *Client) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cachePrefix+key, raw, ttl).Err()
}

// Delete 删除缓存
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = cachePrefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("redis 未启用")
	}
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
