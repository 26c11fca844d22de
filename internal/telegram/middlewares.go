package telegram

import (
	"time"

	"relaybot/internal/config"
	"relaybot/internal/ratelimit"
	"relaybot/internal/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// ChainOptions configures the shared middleware chain.
type ChainOptions struct {
	Blocklist middleware.Blocklist
	OnBlocked tele.HandlerFunc
	OnLimited tele.HandlerFunc
}

// DefaultMiddlewares builds the global chain: recover, blocked-user gate,
// rate limit, logging, metrics. The gate runs before the limiter so a
// banned user never consumes budget or mutates any state.
func DefaultMiddlewares(cfg *config.Config, opts ChainOptions) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if opts.Blocklist != nil {
		mws = append(mws, Middleware{
			Name: "blocked_gate",
			Use: middleware.BlockedGateMiddleware(middleware.GateOptions{
				Blocklist: opts.Blocklist,
				OnBlocked: opts.OnBlocked,
			}),
		})
	}

	if cfg != nil && cfg.RateLimit.MaxRequests > 0 {
		limiter := ratelimit.New(
			cfg.RateLimit.MaxRequests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		)
		mws = append(mws, Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Limiter:   limiter,
				OnLimited: opts.OnLimited,
			}),
		})
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)

	return mws
}
