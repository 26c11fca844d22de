package middleware

import (
	"context"
	"time"

	"log/slog"

	"relaybot/internal/logger"

	tele "gopkg.in/telebot.v4"
)

// Blocklist answers whether a user is banned.
type Blocklist interface {
	IsBlocked(ctx context.Context, userID int64) (bool, error)
}

// GateOptions configures the blocked-user gate.
type GateOptions struct {
	Blocklist Blocklist
	// OnBlocked is invoked instead of the handler for banned users.
	OnBlocked tele.HandlerFunc
}

// BlockedGateMiddleware drops updates from banned users before any state
// is touched. It runs ahead of rate limiting so banned users cannot burn
// other users' budgets or their own recovery. Lookup failures fail open.
func BlockedGateMiddleware(opts GateOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Blocklist == nil {
				return next(c)
			}
			// Gate only private traffic; admin group chats are never banned.
			if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			blocked, err := opts.Blocklist.IsBlocked(ctx, user.ID)
			cancel()
			if err != nil {
				logger.TG.Warn("blocklist lookup failed",
					slog.String("event", "tg.gate"),
					slog.Int64("user_id", user.ID),
					slog.String("err", err.Error()),
				)
				return next(c)
			}
			if !blocked {
				return next(c)
			}

			logger.TG.Info("blocked user rejected",
				slog.String("event", "tg.gate"),
				slog.Int64("user_id", user.ID),
			)
			if opts.OnBlocked != nil {
				return opts.OnBlocked(c)
			}
			return nil
		}
	}
}
