package middleware

import (
	"fmt"
	"time"

	"artist-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles mutating endpoints with a fixed-window counter kept
// in redis, so the limit holds across every running instance of the service.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// windowKey buckets requests by actor (JWT uuid when present, client IP
// otherwise) and by window number.
func (rl *RateLimiter) windowKey(name, actor string, at time.Time) string {
	bucket := at.Unix() / int64(rl.window.Seconds())
	return fmt.Sprintf("ratelimit:%s:%s:%d", name, actor, bucket)
}

func actorIdentity(c *fiber.Ctx) string {
	if claims, ok := c.Locals("user").(map[string]interface{}); ok {
		if uuid, ok := claims["uuid"].(string); ok && uuid != "" {
			return uuid
		}
	}
	return c.IP()
}

// Limit returns a handler enforcing the configured limit for the named
// operation. Redis failures let the request through rather than blocking
// legitimate traffic on an outage.
func (rl *RateLimiter) Limit(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := rl.windowKey(name, actorIdentity(c), rl.now())

		count, err := rl.client.Incr(c.Context(), key).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			rl.client.Expire(c.Context(), key, rl.window)
		}

		if count > rl.limit {
			return c.Status(fiber.StatusTooManyRequests).JSON(types.ApiResponse{
				Status:  fiber.StatusTooManyRequests,
				Message: "Too many requests, slow down",
				Data:    nil,
			})
		}
		return c.Next()
	}
}
