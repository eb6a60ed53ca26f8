package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/novinsoft/signup-system/internal/core/domain"
)

// LoginLimiter throttles admin login attempts per client IP using a
// fixed-window INCR/EXPIRE counter.
// Key format: login_attempts:<ip>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
	logger      zerolog.Logger
}

// NewLoginLimiter creates a LoginLimiter allowing maxAttempts per window.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration, logger zerolog.Logger) *LoginLimiter {
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window, logger: logger}
}

// Allow returns domain.ErrRateLimited when the client has exceeded its
// attempt budget. A Redis failure fails open: the attempt is allowed and
// the failure logged, so an unavailable limiter never locks admins out.
func (l *LoginLimiter) Allow(ctx context.Context, clientIP string) error {
	key := fmt.Sprintf("login_attempts:%s", clientIP)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn().Err(err).Msg("login limiter unavailable, failing open")
		return nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn().Err(err).Msg("login limiter expire failed")
		}
	}

	if count > int64(l.maxAttempts) {
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, clientIP)
	}
	return nil
}
