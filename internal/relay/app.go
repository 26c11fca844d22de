// Package relay implements the bot's dialogue orchestration: client
// application flows, admin reply relaying, offer management, and the
// command surface.
package relay

import (
	"context"

	"relaybot/internal/callback"
	"relaybot/internal/config"
	"relaybot/internal/reconcile"
	"relaybot/internal/session"
	"relaybot/internal/storage"
	tg "relaybot/internal/telegram"
	"relaybot/internal/telegram/commands"
	"relaybot/internal/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// pageSize is the offer pagination window.
const pageSize = 5

// App wires the dialogue orchestrator: configuration, durable store,
// conversation state, and the reply reconciler.
type App struct {
	cfg      *config.Config
	store    *storage.Store
	clients  *session.Clients
	wizards  *session.Wizards
	resolver *reconcile.Resolver

	bot *tele.Bot
}

// New builds the orchestrator over an open store.
func New(cfg *config.Config, store *storage.Store) *App {
	dirForChat := func(chatID int64) string {
		key, _ := cfg.DirectionByChat(chatID)
		return key
	}
	return &App{
		cfg:      cfg,
		store:    store,
		clients:  session.NewClients(),
		wizards:  session.NewWizards(),
		resolver: reconcile.New(store, reconcile.TextScanner{}, dirForChat),
	}
}

// OnStart captures the running bot for outbound sends to arbitrary chats.
func (a *App) OnStart(_ context.Context, rt tg.Runtime) error {
	a.bot = rt.Bot
	return nil
}

// Register wires all commands and callback kinds into the registry.
func (a *App) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Начать оформление заявки",
	})
	reg.RegisterCommand("/help_admin", commands.Command{
		Handler:     a.adminOnly(a.handleAdminHelp),
		Description: "Справка администратора",
		Hidden:      true,
	})
	reg.RegisterCommand("/users", commands.Command{
		Handler:     a.adminOnly(a.handleUsers),
		Description: "Список пользователей",
		Hidden:      true,
	})
	reg.RegisterCommand("/new_users", commands.Command{
		Handler:     a.adminOnly(a.handleNewUsers),
		Description: "Новые пользователи",
		Hidden:      true,
	})
	reg.RegisterCommand("/block", commands.Command{
		Handler:     a.adminOnly(a.handleBlock),
		Description: "Заблокировать пользователя",
		Hidden:      true,
	})
	reg.RegisterCommand("/unblock", commands.Command{
		Handler:     a.adminOnly(a.handleUnblock),
		Description: "Разблокировать пользователя",
		Hidden:      true,
	})
	reg.RegisterCommand("/add_kp", commands.Command{
		Handler:     a.adminOnly(a.handleAddOffer),
		Description: "Добавить КП",
		Hidden:      true,
	})
	reg.RegisterCommand("/list_kp", commands.Command{
		Handler:     a.adminOnly(a.handleListOffers),
		Description: "Список КП",
		Hidden:      true,
	})
	reg.RegisterCommand("/edit_kp", commands.Command{
		Handler:     a.adminOnly(a.handleEditOffer),
		Description: "Изменить КП",
		Hidden:      true,
	})
	reg.RegisterCommand("/delete_kp", commands.Command{
		Handler:     a.adminOnly(a.handleDeleteOffer),
		Description: "Удалить КП",
		Hidden:      true,
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleDailyStats,
		Description: "Статистика за день",
		OwnerOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/db_stats", commands.Command{
		Handler:     a.handleDBStats,
		Description: "Статистика БД",
		OwnerOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/cleanup_db", commands.Command{
		Handler:     a.handleCleanup,
		Description: "Очистка БД",
		OwnerOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(callback.KindOperation, a.handleOperation)
	_ = reg.RegisterCallback(callback.KindDirection, a.handleDirection)
	_ = reg.RegisterCallback(callback.KindRestart, a.handleRestart)
	_ = reg.RegisterCallback(callback.KindSendOffer, a.handleSendOffer)
	_ = reg.RegisterCallback(callback.KindPage, a.handleOfferPage)
	_ = reg.RegisterCallback(callback.KindFeedback, a.handleFeedback)

	reg.SetCallbackNotFound(func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: textInvalidRequest})
	})
	reg.SetTextFallback(a.handleLooseText)
}

// Flows returns the text interceptors in priority order: admin replies in
// group chats, then the offer wizard, then the client application form.
func (a *App) Flows() []router.Flow {
	return []router.Flow{
		&adminReplyFlow{app: a},
		&wizardFlow{app: a},
		&clientFormFlow{app: a},
	}
}

// OnBlocked answers a banned user once instead of running any handler.
func (a *App) OnBlocked(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: textBlocked})
	}
	return c.Send(textBlocked)
}

// OnLimited tells a throttled user to slow down.
func (a *App) OnLimited(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: textRateLimited})
	}
	return c.Send(textRateLimited)
}

// isAdminContext reports whether the update came from a configured
// administrator chat or from the owner.
func (a *App) isAdminContext(c tele.Context) bool {
	if chat := c.Chat(); chat != nil && a.cfg.IsAdminChat(chat.ID) {
		return true
	}
	if u := c.Sender(); u != nil && u.ID == a.cfg.Telegram.OwnerChatID {
		return true
	}
	return false
}

// adminOnly restricts a command to admin chats and the owner; everyone
// else gets silence, matching how unknown commands behave.
func (a *App) adminOnly(h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !a.isAdminContext(c) {
			return nil
		}
		return h(c)
	}
}

// ack answers the callback query once the screen update went through, so
// the client spinner stops. Handlers that answer with a toast or alert
// call Respond directly instead.
func ack(c tele.Context, err error) error {
	if err != nil {
		return err
	}
	return c.Respond()
}

// handleLooseText answers private-chat text that no flow claimed.
func (a *App) handleLooseText(c tele.Context) error {
	chat := c.Chat()
	if chat == nil || chat.Type != tele.ChatPrivate {
		return nil
	}
	return c.Send(textUnexpectedState)
}
