package relay

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"relaybot/internal/logger"
	"relaybot/internal/session"
	tghelpers "relaybot/internal/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// retentionWindow is how long prunable rows are kept.
const retentionWindow = 30 * 24 * time.Hour

func (a *App) handleAdminHelp(c tele.Context) error {
	return c.Send(textAdminHelp)
}

func (a *App) handleUsers(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	users, err := a.store.ListUsers(ctx, 200)
	if err != nil {
		logger.Relay.Error("user listing failed",
			slog.String("event", "admin.users"),
			slog.String("err", err.Error()),
		)
		return c.Send(textStoreFailure)
	}
	if len(users) == 0 {
		return c.Send("Пользователей пока нет.")
	}

	// The listing is capped; the header carries the real total.
	total, err := a.store.CountUsers(ctx)
	if err != nil {
		total = int64(len(users))
	}

	lines := make([]string, 0, len(users)+1)
	lines = append(lines, fmt.Sprintf("👥 Пользователи (%d из %d):", len(users), total))
	for _, u := range users {
		lines = append(lines, formatUserLine(u))
	}
	return tghelpers.SendText(c, strings.Join(lines, "\n"))
}

func (a *App) handleNewUsers(c tele.Context) error {
	days := 7
	if arg := strings.TrimSpace(c.Message().Payload); arg != "" {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			days = n
		}
	}

	ctx := tghelpers.BuildContext(c)
	users, err := a.store.ListNewUsers(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		logger.Relay.Error("new user listing failed",
			slog.String("event", "admin.new_users"),
			slog.String("err", err.Error()),
		)
		return c.Send(textStoreFailure)
	}
	if len(users) == 0 {
		return c.Send(fmt.Sprintf("Новых пользователей за %d дн. нет.", days))
	}
	lines := make([]string, 0, len(users)+1)
	lines = append(lines, fmt.Sprintf("🆕 Новые за %d дн. (%d):", days, len(users)))
	for _, u := range users {
		lines = append(lines, formatUserLine(u))
	}
	return tghelpers.SendText(c, strings.Join(lines, "\n"))
}

func (a *App) setBlocked(c tele.Context, blocked bool) error {
	arg := strings.TrimSpace(c.Message().Payload)
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id == 0 {
		return c.Send("Укажите ID пользователя: /block <id>")
	}

	ctx := tghelpers.BuildContext(c)
	if err := a.store.SetBlocked(ctx, id, blocked); err != nil {
		logger.Relay.Warn("block toggle failed",
			slog.String("event", "admin.block"),
			slog.Int64("user_id", id),
			slog.Bool("blocked", blocked),
			slog.String("err", err.Error()),
		)
		return c.Send(textStoreFailure)
	}
	if blocked {
		return c.Send(fmt.Sprintf("🚫 Пользователь %d заблокирован.", id))
	}
	return c.Send(fmt.Sprintf("✅ Пользователь %d разблокирован.", id))
}

func (a *App) handleBlock(c tele.Context) error {
	return a.setBlocked(c, true)
}

func (a *App) handleUnblock(c tele.Context) error {
	return a.setBlocked(c, false)
}

// handleAddOffer opens the offer wizard at the direction step.
func (a *App) handleAddOffer(c tele.Context) error {
	user := c.Sender()
	a.wizards.BeginCreate(user.ID)
	return tghelpers.SendMarkup(c, "Выберите направление для КП:", a.directionKeyboard())
}

// handleEditOffer seeds the wizard from the stored offer so "-" answers
// keep current values.
func (a *App) handleEditOffer(c tele.Context) error {
	arg := strings.TrimSpace(c.Message().Payload)
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return c.Send("Укажите ID: /edit_kp <id>")
	}

	ctx := tghelpers.BuildContext(c)
	offer, err := a.store.GetOffer(ctx, id)
	if err != nil {
		return c.Send(fmt.Sprintf("КП #%d не найдено.", id))
	}

	a.wizards.BeginEdit(c.Sender().ID, id, session.OfferDraft{
		Direction:      offer.Direction,
		CompanyName:    offer.CompanyName,
		TaxID:          offer.TaxID,
		Bank:           offer.Bank,
		PaymentPurpose: offer.PaymentPurpose,
		MinAmount:      offer.MinAmount,
		MaxAmount:      offer.MaxAmount,
		Commission:     offer.Commission,
	})

	return c.Send(fmt.Sprintf("Редактирование КП #%d\n\n%s\n\n%s",
		id, formatOffer(*offer), wizardPrompt(session.StepCompany, session.ModeEdit)))
}

func (a *App) handleListOffers(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	offers, err := a.store.ListAllOffers(ctx)
	if err != nil {
		logger.Relay.Error("offer listing failed",
			slog.String("event", "admin.list_kp"),
			slog.String("err", err.Error()),
		)
		return c.Send(textStoreFailure)
	}
	if len(offers) == 0 {
		return c.Send("КП пока нет. Добавьте через /add_kp.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💼 КП (%d):\n", len(offers))
	lastDir := ""
	for _, o := range offers {
		if o.Direction != lastDir {
			fmt.Fprintf(&b, "\n📌 %s:\n", a.cfg.DirectionName(o.Direction))
			lastDir = o.Direction
		}
		b.WriteString(formatOfferShort(o))
		b.WriteByte('\n')
	}
	return tghelpers.SendText(c, strings.TrimRight(b.String(), "\n"))
}

func (a *App) handleDeleteOffer(c tele.Context) error {
	arg := strings.TrimSpace(c.Message().Payload)
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return c.Send("Укажите ID: /delete_kp <id>")
	}

	ctx := tghelpers.BuildContext(c)
	if err := a.store.DeleteOffer(ctx, id); err != nil {
		return c.Send(fmt.Sprintf("КП #%d не найдено.", id))
	}
	logger.Relay.Info("offer deleted",
		slog.String("event", "offer.delete"),
		slog.Int64("offer_id", id),
	)
	return c.Send(fmt.Sprintf("🗑 КП #%d удалено.", id))
}

func (a *App) handleDailyStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	st, err := a.store.Daily(ctx)
	if err != nil {
		logger.Relay.Error("daily stats failed",
			slog.String("event", "admin.stats"),
			slog.String("err", err.Error()),
		)
		return c.Send(textStoreFailure)
	}
	return c.Send(formatDailyStats(st, a.cfg.DirectionName))
}

func (a *App) handleDBStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	st, err := a.store.Stats(ctx)
	if err != nil {
		logger.Relay.Error("db stats failed",
			slog.String("event", "admin.db_stats"),
			slog.String("err", err.Error()),
		)
		return c.Send(textStoreFailure)
	}
	return c.Send(formatDBStats(st))
}

func (a *App) handleCleanup(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	res, err := a.store.Prune(ctx, retentionWindow)
	if err != nil {
		logger.Relay.Error("manual cleanup failed",
			slog.String("event", "admin.cleanup"),
			slog.String("err", err.Error()),
		)
		return c.Send(textStoreFailure)
	}
	logger.Maint.Info("manual cleanup",
		slog.String("event", "prune"),
		slog.Int64("notifications", res.NotificationsDeleted),
		slog.Int64("rejected", res.RejectedDeleted),
	)
	return c.Send(fmt.Sprintf("🧹 Очистка завершена.\nУведомлений удалено: %d\nОтклонённых откликов удалено: %d",
		res.NotificationsDeleted, res.RejectedDeleted))
}
