package router

import (
	"time"

	tg "relaybot/internal/telegram"
	"relaybot/internal/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Flow claims text updates that belong to an in-progress dialogue, such
// as a half-filled application form or an admin reply in a group chat.
// Flows are consulted in registration order before command lookup.
type Flow interface {
	Name() string
	Claims(c tele.Context) bool
	Handle(c tele.Context) error
}

// TextOptions controls fallback behaviour for unrouted text.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the tele.OnText route: flows first, then command
// lookup by text, then the registry fallback.
func TextRoutes(flows []Flow, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		for _, flow := range flows {
			if flow == nil || !flow.Claims(c) {
				continue
			}
			name := "flow." + normalizeHandlerName(flow.Name())
			return handleWithSummary(c, name, start, func() error {
				return flow.Handle(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
