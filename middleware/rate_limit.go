package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/loggers"
)

// RateLimit allows limit requests per client IP in each fixed window, counted in Redis.
// A nil client disables limiting. Redis failures let the request through.
func RateLimit(client *redis.Client, prefix string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil || limit <= 0 {
			return c.Next()
		}
		ctx := c.UserContext()
		key := "ratelimit:" + prefix + ":" + c.IP()

		var incr *redis.IntCmd
		var ttl *redis.DurationCmd
		_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			incr = pipe.Incr(ctx, key)
			ttl = pipe.TTL(ctx, key)
			return nil
		})
		if err != nil {
			loggers.Log.WithError(err).Warn("⚠️ Rate limiter unavailable")
			return c.Next()
		}

		// A counter without expiry would lock the client out for good.
		remaining := ttl.Val()
		if remaining < 0 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				loggers.Log.WithError(err).Warn("⚠️ Could not set rate limit window, resetting counter")
				client.Del(ctx, key)
				return c.Next()
			}
			remaining = window
		}

		if incr.Val() > int64(limit) {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(remaining.Seconds())+1))
			return apperror.New(apperror.KindRateLimited, "too many requests, please try again later")
		}
		return c.Next()
	}
}
