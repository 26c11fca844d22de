package middleware

import tele "gopkg.in/telebot.v4"

// OwnerOptions defines how owner-only checks behave.
type OwnerOptions struct {
	OwnerID  int64
	OnReject tele.HandlerFunc
}

// OwnerOnlyMiddleware ensures that only the configured owner can invoke
// downstream handlers. With no owner configured the check is disabled.
// Updates without a sender (channel posts) are rejected, not crashed on.
func OwnerOnlyMiddleware(opts OwnerOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.OwnerID == 0 {
				return next(c)
			}
			user := c.Sender()
			if user == nil || user.ID != opts.OwnerID {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
