package middleware

import (
	"log/slog"

	"relaybot/internal/logger"
	"relaybot/internal/ratelimit"

	tele "gopkg.in/telebot.v4"
)

// RateLimitOptions configures the per-user request limiter.
type RateLimitOptions struct {
	Limiter *ratelimit.Limiter
	// OnLimited is invoked once per rejected update.
	OnLimited tele.HandlerFunc
}

// RateLimitMiddleware enforces the sliding-window budget for private
// traffic. Group chats are exempt so admin replies are never throttled.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Limiter == nil {
				return next(c)
			}
			if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
				return next(c)
			}

			if opts.Limiter.Allow(user.ID) {
				return next(c)
			}

			logger.TG.Warn("rate limit",
				slog.String("event", "tg.rate_limit"),
				slog.Int64("user_id", user.ID),
				slog.Int64("retry_after_ms", opts.Limiter.RetryAfter(user.ID).Milliseconds()),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
