// Package limiter gates inbound connections with a token bucket kept in
// Redis, one bucket per peer IP. The bucket state is updated atomically by
// a Lua script so multiple server instances can share the same limits. The
// limiter fails open: if Redis is down or misbehaving, connections are
// admitted and the error is logged.
package limiter

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/concert-ticket-booking/internal/config"
)

var bucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)

    return allowed
`)

// Limiter rations connection attempts per peer IP.
type Limiter struct {
	cfg config.RateLimitConfig
	rdb *redis.Client
}

// New returns a Limiter, or nil when limiting is disabled or Redis is
// unavailable; a nil Limiter's Allow admits everything.
func New(cfg config.RateLimitConfig, rdb *redis.Client) *Limiter {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	return &Limiter{cfg: cfg, rdb: rdb}
}

// Allow consumes one token from the peer's bucket and reports whether the
// connection may proceed.
func (l *Limiter) Allow(ctx context.Context, ip string) bool {
	if l == nil {
		return true
	}
	key := l.key(ip)
	args := []interface{}{
		time.Now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval.Milliseconds(),
		int64(l.cfg.TTL / time.Second),
	}
	allowed, err := bucketScript.Run(ctx, l.rdb, []string{key}, args...).Int()
	if err != nil {
		log.Printf("limiter: redis error for key=%s: %v", key, err)
		return true
	}
	if allowed != 1 {
		if l.cfg.Debug {
			log.Printf("limiter: blocked key=%s", key)
		}
		return false
	}
	return true
}

// key builds the bucket key for a peer.
func (l *Limiter) key(ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{l.cfg.Prefix, "conn", "ip", ip}, ":")
}
