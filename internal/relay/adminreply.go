package relay

import (
	"errors"
	"fmt"
	"strconv"

	"log/slog"

	"relaybot/internal/callback"
	"relaybot/internal/logger"
	"relaybot/internal/reconcile"
	tghelpers "relaybot/internal/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// adminReplyFlow claims replies inside configured admin chats and relays
// them to the client the replied-to announcement belongs to.
type adminReplyFlow struct {
	app *App
}

func (f *adminReplyFlow) Name() string { return "admin_reply" }

func (f *adminReplyFlow) Claims(c tele.Context) bool {
	chat := c.Chat()
	msg := c.Message()
	if chat == nil || msg == nil || msg.ReplyTo == nil {
		return false
	}
	return f.app.cfg.IsAdminChat(chat.ID)
}

func (f *adminReplyFlow) Handle(c tele.Context) error {
	return f.app.relayAdminReply(c)
}

// relayAdminReply resolves the client behind the replied-to message and
// forwards the admin's text with feedback buttons attached. A resolution
// miss is logged and dropped: there is nobody to report it to.
func (a *App) relayAdminReply(c tele.Context) error {
	chat := c.Chat()
	msg := c.Message()
	ctx := tghelpers.BuildContext(c)

	res, err := a.resolver.Resolve(ctx, chat.ID, msg.ReplyTo.ID, msg.ReplyTo.Text)
	if err != nil {
		if errors.Is(err, reconcile.ErrNoClient) {
			logger.Reconcile.Info("reply dropped",
				slog.String("event", "resolve.miss"),
				slog.Int64("chat_id", chat.ID),
				slog.Int("reply_to", msg.ReplyTo.ID),
			)
			return nil
		}
		logger.Reconcile.Error("resolution failed",
			slog.String("event", "resolve.failed"),
			slog.Int64("chat_id", chat.ID),
			slog.Int("reply_to", msg.ReplyTo.ID),
			slog.String("err", err.Error()),
		)
		return c.Reply(textStoreFailure)
	}

	logger.Reconcile.Info("reply resolved",
		slog.String("event", "resolve.ok"),
		slog.String("source", string(res.Source)),
		slog.Int64("user_id", res.ClientID),
		slog.Int64("app_id", res.ApplicationID),
		slog.String("direction", res.Direction),
	)

	hint := res.Company
	if hint == "" {
		hint = strconv.FormatInt(res.ClientID, 10)
	}
	markup, err := a.feedbackKeyboard(chat.ID, msg.ID, "", res.Direction, hint)
	if err != nil {
		logger.Relay.Warn("feedback keyboard failed",
			slog.String("event", "relay.reply"),
			slog.String("err", err.Error()),
		)
		markup = nil
	}

	if _, err := a.send(res.ClientID, textAdminReplyPrefix+msg.Text, markup); err != nil {
		logger.Relay.Error("relay to client failed",
			slog.String("event", "relay.reply"),
			slog.Int64("user_id", res.ClientID),
			slog.String("err", err.Error()),
		)
		return c.Reply(fmt.Sprintf(textRelayFailed, res.ClientID, err.Error()))
	}

	return c.Reply(textRelayDelivered)
}

// feedbackKeyboard builds the accept/reject pair whose payloads carry the
// admin-chat reference a future press is reconciled by.
func (a *App) feedbackKeyboard(adminChatID int64, messageID int, offerRef, direction, hint string) (*tele.ReplyMarkup, error) {
	if direction == "" {
		direction = "unknown"
	}
	yes, err := callback.EncodeFeedback(callback.Feedback{
		Accepted:    true,
		AdminChatID: adminChatID,
		MessageID:   messageID,
		OfferRef:    offerRef,
		Direction:   direction,
		ClientHint:  hint,
	})
	if err != nil {
		return nil, err
	}
	no, err := callback.EncodeFeedback(callback.Feedback{
		Accepted:    false,
		AdminChatID: adminChatID,
		MessageID:   messageID,
		OfferRef:    offerRef,
		Direction:   direction,
		ClientHint:  hint,
	})
	if err != nil {
		return nil, err
	}

	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{{
		*markup.Data(btnFeedbackYes, callback.KindFeedback, yes).Inline(),
		*markup.Data(btnFeedbackNo, callback.KindFeedback, no).Inline(),
	}}
	return markup, nil
}
