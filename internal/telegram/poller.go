package telegram

import (
	"net"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"

	defaultLongPollTimeout = 10 * time.Second
)

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller selects the update source: a webhook listener when
// configured, long polling otherwise.
func BuildPoller(opts PollerOptions) tele.Poller {
	switch strings.ToLower(strings.TrimSpace(opts.RunMode)) {
	case RunModeWebhook:
		addr := net.JoinHostPort(opts.Webhook.Listen, strconv.Itoa(opts.Webhook.Port))
		return &tele.Webhook{
			Listen:   addr,
			Endpoint: &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	default:
		timeout := defaultLongPollTimeout
		if opts.LongPollTimeoutSeconds > 0 {
			timeout = time.Duration(opts.LongPollTimeoutSeconds) * time.Second
		}
		return &tele.LongPoller{Timeout: timeout}
	}
}
