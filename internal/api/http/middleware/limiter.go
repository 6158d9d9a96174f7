package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/vlog_backend/config"
)

// NewLimiter is a sliding window limiter keyed by client IP. Counters live
// in Redis when rdb is set so every instance shares them; otherwise each
// process keeps its own.
func NewLimiter(rdb *redis.Client, rl config.RateLimit) fiber.Handler {
	max := rl.Max
	if max <= 0 {
		max = 20
	}
	window := time.Duration(rl.WindowSeconds) * time.Second
	if window <= 0 {
		window = 30 * time.Second
	}

	cfg := limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
		},
	}
	if rdb != nil {
		cfg.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(cfg)
}
