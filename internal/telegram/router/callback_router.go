package router

import (
	"strings"
	"time"

	"log/slog"

	tg "relaybot/internal/telegram"
	"relaybot/internal/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CallbackRoute returns a handler that routes callbacks by kind through
// the registry. Each handler answers its own callback query exactly once;
// a second answer to the same query id is discarded by Telegram, so the
// router must not acknowledge up front.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		cb := c.Callback()
		if cb == nil {
			return nil
		}

		kind, _ := splitCallback(cb)
		name := "callback." + normalizeHandlerName(kind)
		extras := []slog.Attr{slog.String("cb_kind", kind)}

		cbHandler, ok := reg.GetCallback(kind)
		if !ok || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, name, start, func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// splitCallback extracts the kind and payload from a callback. Telebot
// strips the \f prefix and fills Unique for data buttons; raw data is
// parsed as a fallback for older clients.
func splitCallback(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	parts := strings.SplitN(raw, "|", 2)
	kind := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return kind, payload
}
