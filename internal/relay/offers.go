package relay

import (
	"fmt"
	"strconv"
	"strings"

	"log/slog"

	"relaybot/internal/callback"
	"relaybot/internal/logger"
	"relaybot/internal/storage"
	tghelpers "relaybot/internal/telegram/helpers"
	"relaybot/internal/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// offerPageNav decides which pagination controls a page gets. "next" is
// structural: a full page implies there may be more; no count query runs.
func offerPageNav(page, count int) (hasPrev, hasNext bool) {
	return page > 0, count == pageSize
}

// offerKeyboard renders send-to-client buttons for one page of offers
// plus the pagination row. Nil when there is nothing to show.
func (a *App) offerKeyboard(offers []storage.ReadyOffer, page int, direction string, clientID int64) *tele.ReplyMarkup {
	if len(offers) == 0 && page == 0 {
		return nil
	}

	var rows [][]keyboard.InlineBtn
	for _, o := range offers {
		payload, err := callback.EncodeSendOffer(o.ID, clientID)
		if err != nil {
			logger.Relay.Warn("offer button skipped",
				slog.String("event", "offer.keyboard"),
				slog.Int64("offer_id", o.ID),
				slog.String("err", err.Error()),
			)
			continue
		}
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   "📨 КП #" + strconv.FormatInt(o.ID, 10) + " " + o.CompanyName,
			Unique: callback.KindSendOffer,
			Data:   payload,
		}})
	}

	hasPrev, hasNext := offerPageNav(page, len(offers))
	var nav []keyboard.InlineBtn
	if hasPrev {
		if payload, err := callback.EncodePage(page-1, direction, clientID); err == nil {
			nav = append(nav, keyboard.InlineBtn{Text: btnPagePrev, Unique: callback.KindPage, Data: payload})
		}
	}
	if hasNext {
		if payload, err := callback.EncodePage(page+1, direction, clientID); err == nil {
			nav = append(nav, keyboard.InlineBtn{Text: btnPageNext, Unique: callback.KindPage, Data: payload})
		}
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	if len(rows) == 0 {
		return nil
	}
	return keyboard.InlineRows(rows...)
}

// handleSendOffer delivers a stored offer to the client named in the
// button payload, with feedback buttons referencing the admin message
// the button lives on.
func (a *App) handleSendOffer(c tele.Context) error {
	if c.Callback() == nil || c.Message() == nil {
		return nil
	}
	req, err := callback.ParseSendOffer(c.Callback().Data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: textInvalidRequest})
	}

	ctx := tghelpers.BuildContext(c)
	offer, err := a.store.GetOffer(ctx, req.OfferID)
	if err != nil {
		logger.Relay.Warn("offer lookup failed",
			slog.String("event", "offer.send"),
			slog.Int64("offer_id", req.OfferID),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: textStoreFailure})
	}

	chat := c.Chat()
	markup, err := a.feedbackKeyboard(chat.ID, c.Message().ID,
		strconv.FormatInt(offer.ID, 10), offer.Direction, offer.CompanyName)
	if err != nil {
		markup = nil
	}

	if _, err := a.send(req.UserID, formatOffer(*offer), markup); err != nil {
		logger.Relay.Error("offer delivery failed",
			slog.String("event", "offer.send"),
			slog.Int64("offer_id", offer.ID),
			slog.Int64("user_id", req.UserID),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: "Не удалось отправить КП"})
	}

	logger.Relay.Info("offer delivered",
		slog.String("event", "offer.send"),
		slog.Int64("offer_id", offer.ID),
		slog.Int64("user_id", req.UserID),
		slog.String("direction", offer.Direction),
	)
	return c.Respond(&tele.CallbackResponse{Text: "КП отправлено клиенту"})
}

// handleOfferPage swaps the offer keyboard on the announcement message
// for another page.
func (a *App) handleOfferPage(c tele.Context) error {
	if c.Callback() == nil {
		return nil
	}
	req, err := callback.ParsePage(c.Callback().Data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: textInvalidRequest})
	}

	ctx := tghelpers.BuildContext(c)
	offers, err := a.store.ListOffers(ctx, req.Direction, req.Page, pageSize)
	if err != nil {
		logger.Relay.Warn("offer page failed",
			slog.String("event", "offer.page"),
			slog.String("direction", req.Direction),
			slog.Int("page", req.Page),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: textStoreFailure})
	}

	markup := a.offerKeyboard(offers, req.Page, req.Direction, req.UserID)
	if markup == nil {
		return c.Respond(&tele.CallbackResponse{Text: "Больше КП нет"})
	}
	return ack(c, c.Edit(markup))
}

// handleFeedback processes a client's verdict on an offer message: the
// message is edited in place, the verdict is persisted, and both the
// originating admin chat and the owner are notified.
func (a *App) handleFeedback(c tele.Context) error {
	user := c.Sender()
	if user == nil || c.Callback() == nil {
		return nil
	}
	fb, err := callback.ParseFeedback(c.Callback().Data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: textInvalidRequest})
	}

	direction := fb.Direction
	if direction == "" || direction == "unknown" {
		if key, ok := a.cfg.DirectionByChat(fb.AdminChatID); ok {
			direction = key
		}
	}

	kind := storage.FeedbackReject
	thanks := textFeedbackThanksNo
	if fb.Accepted {
		kind = storage.FeedbackAccept
		thanks = textFeedbackThanksYes
	}

	ctx := tghelpers.BuildContext(c)
	offerRef := fmt.Sprintf("%d_%d_%s", fb.AdminChatID, fb.MessageID, fb.OfferRef)
	if err := a.store.InsertFeedback(ctx, storage.Feedback{
		UserID:    user.ID,
		OfferRef:  offerRef,
		Kind:      kind,
		Direction: direction,
	}); err != nil {
		logger.Relay.Error("feedback insert failed",
			slog.String("event", "feedback"),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: textStoreFailure})
	}

	// Fix the verdict into the message and drop the buttons. A second
	// press edits to identical content; Telegram rejects that, which is
	// fine.
	if msg := c.Message(); msg != nil {
		if err := c.Edit(msg.Text + thanks); err != nil && !isNotModified(err) {
			logger.Relay.Warn("feedback edit failed",
				slog.String("event", "feedback"),
				slog.String("err", err.Error()),
			)
		}
	}

	a.notifyFeedback(c, fb, kind, direction)

	return c.Respond(&tele.CallbackResponse{Text: "Спасибо за ответ!"})
}

// notifyFeedback tells the admin chat and the owner about the verdict.
// Both sends are best effort.
func (a *App) notifyFeedback(c tele.Context, fb callback.Feedback, kind storage.FeedbackKind, direction string) {
	user := c.Sender()
	ctx := tghelpers.BuildContext(c)

	verdict := "❌ отклонил"
	if kind == storage.FeedbackAccept {
		verdict = "✅ принял"
	}
	offerNote := ""
	if fb.OfferRef != callback.OfferRefNone {
		offerNote = fmt.Sprintf(" (КП #%s)", fb.OfferRef)
	}
	note := fmt.Sprintf("Клиент %s (🆔 ID: %d) %s предложение%s",
		clientDisplayName(user), user.ID, verdict, offerNote)

	if fb.AdminChatID != 0 {
		if _, err := a.send(fb.AdminChatID, note); err != nil {
			logger.Relay.Warn("admin feedback notify failed",
				slog.String("event", "feedback.notify"),
				slog.Int64("chat_id", fb.AdminChatID),
				slog.String("err", err.Error()),
			)
		}
	}

	owner := a.cfg.Telegram.OwnerChatID
	if owner != 0 && owner != fb.AdminChatID {
		if _, err := a.send(owner, note+fmt.Sprintf("\n📌 Направление: %s", a.cfg.DirectionName(direction))); err != nil {
			logger.Relay.Warn("owner feedback notify failed",
				slog.String("event", "feedback.notify"),
				slog.Int64("chat_id", owner),
				slog.String("err", err.Error()),
			)
		}
	}

	if err := a.store.InsertOwnerNotification(ctx, storage.OwnerNotification{
		Kind:         "feedback",
		UserID:       user.ID,
		OfferID:      fb.OfferRef,
		Direction:    direction,
		AdminChatID:  fb.AdminChatID,
		FeedbackType: kind,
		Message:      note,
	}); err != nil {
		logger.Relay.Warn("owner notification insert failed",
			slog.String("event", "feedback.notify"),
			slog.String("err", err.Error()),
		)
	}
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
