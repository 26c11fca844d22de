package relay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"relaybot/internal/callback"
	"relaybot/internal/logger"
	"relaybot/internal/session"
	"relaybot/internal/storage"
	tghelpers "relaybot/internal/telegram/helpers"
	"relaybot/internal/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

func operationKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnOperationSend, Unique: callback.KindOperation, Data: "send"},
		{Text: btnOperationReceive, Unique: callback.KindOperation, Data: "receive"},
	})
}

func (a *App) directionKeyboard() *tele.ReplyMarkup {
	var buttons []keyboard.InlineBtn
	for _, d := range a.cfg.Directions {
		if d.AdminChatID == 0 {
			continue
		}
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   d.Name,
			Unique: callback.KindDirection,
			Data:   d.Key,
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{
		Text:   btnRestart,
		Unique: callback.KindRestart,
		Data:   "go",
	})
	return keyboard.InlinePerRow(buttons, 2)
}

// handleStart registers the user and opens the operation step.
func (a *App) handleStart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
		return nil
	}

	ctx := tghelpers.BuildContext(c)
	err := a.store.UpsertUser(ctx, storage.User{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		logger.Relay.Warn("user upsert failed",
			slog.String("event", "start"),
			slog.Int64("user_id", user.ID),
			slog.String("err", err.Error()),
		)
	}

	a.clients.Begin(user.ID)
	return tghelpers.SendMarkup(c, textWelcome, operationKeyboard())
}

// handleRestart clears the dialogue and re-renders the operation step by
// editing the message whose button was pressed.
func (a *App) handleRestart(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	a.clients.Begin(user.ID)
	a.wizards.Cancel(user.ID)
	return ack(c, tghelpers.EditOrSend(c, textChooseOperation, operationKeyboard()))
}

// handleOperation records the chosen transfer operation and advances the
// dialogue to the direction step.
func (a *App) handleOperation(c tele.Context) error {
	user := c.Sender()
	if user == nil || c.Callback() == nil {
		return nil
	}
	op, err := callback.ParseOperation(c.Callback().Data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: textInvalidRequest})
	}
	if !a.clients.SetOperation(user.ID, op.Kind) {
		return ack(c, tghelpers.EditOrSend(c, textUnexpectedState))
	}
	return ack(c, tghelpers.EditOrSend(c, textChooseDirection, a.directionKeyboard()))
}

// handleDirection serves two dialogues: the admin offer wizard's first
// step and the client flow's direction step.
func (a *App) handleDirection(c tele.Context) error {
	user := c.Sender()
	if user == nil || c.Callback() == nil {
		return nil
	}
	key, err := callback.ParseDirection(c.Callback().Data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: textInvalidRequest})
	}
	if _, ok := a.cfg.AdminChatFor(key); !ok {
		return c.Respond(&tele.CallbackResponse{Text: textInvalidRequest})
	}

	if w := a.wizards.Get(user.ID); w.Active() && w.Step == session.StepDirection {
		if !a.wizards.SetDirection(user.ID, key) {
			return ack(c, tghelpers.EditOrSend(c, textUnexpectedState))
		}
		return ack(c, tghelpers.EditOrSend(c, wizardPrompt(session.StepCompany, session.ModeCreate)))
	}

	if !a.clients.SetDirection(user.ID, key) {
		return ack(c, tghelpers.EditOrSend(c, textUnexpectedState))
	}

	state := a.clients.Get(user.ID)
	form := a.cfg.Forms.Send
	if state.Operation == "receive" {
		form = a.cfg.Forms.Receive
	}
	if strings.TrimSpace(form) == "" {
		form = "Отправьте данные заявки одним сообщением, каждое поле с новой строки:\n" +
			"1. Фирма\n2. ИНН\n3. Банк\n4. Ставка НДС\n5. Категория\n" +
			"6. Назначение платежа\n7. Сумма\n8. Вид техники\n9. Описание"
	}
	header := fmt.Sprintf("Направление: %s\nОперация: %s\n\n",
		a.cfg.DirectionName(key), operationLabel(state.Operation))
	return ack(c, tghelpers.EditOrSend(c, header+form))
}

// clientFormFlow claims private-chat text from users at the form step.
type clientFormFlow struct {
	app *App
}

func (f *clientFormFlow) Name() string { return "application_form" }

func (f *clientFormFlow) Claims(c tele.Context) bool {
	user := c.Sender()
	chat := c.Chat()
	if user == nil || chat == nil || chat.Type != tele.ChatPrivate {
		return false
	}
	return f.app.clients.Get(user.ID).Phase == session.PhaseAwaitingApplication
}

func (f *clientFormFlow) Handle(c tele.Context) error {
	return f.app.submitApplication(c)
}

// submitApplication parses the form, persists it, announces it to the
// direction's admin chat, and confirms to the client. Complete takes the
// state atomically, so a duplicate text never double-submits; on a store
// failure the state is put back and the client simply resends the form.
func (a *App) submitApplication(c tele.Context) error {
	user := c.Sender()
	state, ok := a.clients.Complete(user.ID)
	if !ok {
		return c.Send(textUnexpectedState)
	}

	adminChatID, ok := a.cfg.AdminChatFor(state.Direction)
	if !ok {
		return c.Send(textUnexpectedState)
	}

	app := ParseApplicationForm(c.Text())
	app.UserID = user.ID
	app.Direction = state.Direction
	app.OperationType = storage.Operation(state.Operation)

	ctx := tghelpers.BuildContext(c)
	start := time.Now()
	appID, err := a.store.InsertApplication(ctx, app)
	if err != nil {
		logger.Relay.Error("application insert failed",
			slog.String("event", "application.submit"),
			slog.Int64("user_id", user.ID),
			slog.String("direction", state.Direction),
			slog.String("err", err.Error()),
		)
		a.clients.Restore(user.ID, state)
		return c.Send(textStoreFailure)
	}
	app.ID = appID

	logger.Relay.Info("application stored",
		slog.String("event", "application.submit"),
		slog.Int64("app_id", appID),
		slog.Int64("user_id", user.ID),
		slog.String("direction", state.Direction),
		slog.String("operation", state.Operation),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	a.announceApplication(c, app, adminChatID)

	return c.Send(fmt.Sprintf(textApplicationAccepted, a.cfg.DirectionName(state.Direction)))
}

// announceApplication posts the application to the admin chat with the
// first page of ready offers attached, then binds the announcement
// message id for reply reconciliation.
func (a *App) announceApplication(c tele.Context, app storage.ClientApplication, adminChatID int64) {
	user := c.Sender()
	ctx := tghelpers.BuildContext(c)

	text := formatApplicationAnnouncement(app, clientDisplayName(user), user.Username, a.cfg.DirectionName(app.Direction))

	offers, err := a.store.ListOffers(ctx, app.Direction, 0, pageSize)
	if err != nil {
		logger.Relay.Warn("offer list failed",
			slog.String("event", "application.announce"),
			slog.Int64("app_id", app.ID),
			slog.String("err", err.Error()),
		)
		offers = nil
	}
	markup := a.offerKeyboard(offers, 0, app.Direction, app.UserID)

	msg, err := a.send(adminChatID, text, markup)
	if err != nil {
		logger.Relay.Error("announcement send failed",
			slog.String("event", "application.announce"),
			slog.Int64("app_id", app.ID),
			slog.Int64("chat_id", adminChatID),
			slog.String("err", err.Error()),
		)
		return
	}

	if err := a.store.SetAdminMessage(ctx, app.ID, adminChatID, msg.ID); err != nil {
		logger.Relay.Error("admin message binding failed",
			slog.String("event", "application.announce"),
			slog.Int64("app_id", app.ID),
			slog.String("err", err.Error()),
		)
	}
}

// send delivers a message to an arbitrary chat, recovering once when the
// target group was migrated to a supergroup.
func (a *App) send(chatID int64, what interface{}, opts ...interface{}) (*tele.Message, error) {
	msg, err := a.bot.Send(tele.ChatID(chatID), what, opts...)
	if err == nil {
		return msg, nil
	}
	if newID, ok := migratedChatID(err); ok {
		logger.Relay.Warn("chat migrated, retrying",
			slog.String("event", "send.migrated"),
			slog.Int64("chat_id", chatID),
			slog.Int64("new_chat_id", newID),
		)
		a.rebindAdminChat(chatID, newID)
		return a.bot.Send(tele.ChatID(newID), what, opts...)
	}
	return nil, err
}

// rebindAdminChat repoints stored announcement bindings at a migrated
// supergroup so replies to old announcements still resolve. Best effort.
func (a *App) rebindAdminChat(oldID, newID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := a.store.RebindAdminChat(ctx, oldID, newID)
	if err != nil {
		logger.Relay.Warn("admin chat rebind failed",
			slog.String("event", "send.migrated"),
			slog.Int64("chat_id", oldID),
			slog.String("err", err.Error()),
		)
		return
	}
	if n > 0 {
		logger.Relay.Info("admin chat rebound",
			slog.String("event", "send.migrated"),
			slog.Int64("chat_id", oldID),
			slog.Int64("new_chat_id", newID),
			slog.Int64("applications", n),
		)
	}
}

func clientDisplayName(u *tele.User) string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		name = fmt.Sprintf("id%d", u.ID)
	}
	return name
}
