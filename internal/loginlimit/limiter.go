package loginlimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts failed logins per email+IP in redis within a fixed window
// and blocks further attempts above the threshold. A nil client disables it,
// and redis outages fail open: login availability beats brute-force hygiene
// for this service.
type Limiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func New(rdb *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:    rdb,
		max:    max,
		window: window,
	}
}

func (l *Limiter) enabled() bool {
	return l != nil && l.rdb != nil && l.max > 0
}

// Allow reports whether another login attempt may proceed.
func (l *Limiter) Allow(ctx context.Context, email, ip string) bool {
	if !l.enabled() {
		return true
	}

	n, err := l.rdb.Get(ctx, l.key(email, ip)).Int()
	if err != nil {
		if err != redis.Nil {
			slog.Default().WarnContext(ctx, "login limiter unavailable, failing open", "err", err)
		}
		return true
	}

	return n < l.max
}

// RecordFailure bumps the failure counter and refreshes its window.
func (l *Limiter) RecordFailure(ctx context.Context, email, ip string) {
	if !l.enabled() {
		return
	}

	key := l.key(email, ip)

	pipe := l.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		slog.Default().WarnContext(ctx, "login limiter record failed", "err", err)
	}
}

// Reset clears the counter after a successful login.
func (l *Limiter) Reset(ctx context.Context, email, ip string) {
	if !l.enabled() {
		return
	}

	if err := l.rdb.Del(ctx, l.key(email, ip)).Err(); err != nil {
		slog.Default().WarnContext(ctx, "login limiter reset failed", "err", err)
	}
}

// keys hash the email so credentials never appear in redis
func (l *Limiter) key(email, ip string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))

	return "login:fail:v1:" + hex.EncodeToString(sum[:8]) + ":" + ip
}
