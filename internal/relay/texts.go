package relay

import (
	"fmt"
	"strings"

	"relaybot/internal/storage"
)

// User-facing texts. The announcement format is load-bearing: the
// reconcile scanner matches the "НОВАЯ ЗАЯВКА (ID: N)" and "🆔 ID: N"
// lines, so changes here must be mirrored there.

const (
	textWelcome = "Здравствуйте! Я помогу оформить заявку на платёж.\nВыберите операцию:"

	textChooseOperation = "Выберите операцию:"
	textChooseDirection = "Выберите направление:"

	textUnexpectedState = "Не удалось обработать действие. Нажмите /start, чтобы начать заново."
	textInvalidRequest  = "Некорректный запрос"
	textStoreFailure    = "Произошла ошибка, попробуйте ещё раз."
	textRateLimited     = "Слишком много запросов. Подождите немного и повторите."
	textBlocked         = "Доступ к боту ограничен."

	textApplicationAccepted = "✅ Заявка принята и передана менеджерам направления «%s».\nОжидайте ответ в этом чате."
	textAdminReplyPrefix    = "💬 Ответ менеджера:\n\n"
	textRelayDelivered      = "✅ Доставлено клиенту"
	textRelayFailed         = "⚠️ Не удалось доставить сообщение клиенту (ID: %d): %s"

	textFeedbackThanksYes = "\n\n✅ Вы приняли предложение. Менеджер свяжется с вами."
	textFeedbackThanksNo  = "\n\n❌ Вы отклонили предложение. Мы подберём другой вариант."

	textOperationSend    = "Отправка платежа"
	textOperationReceive = "Приём платежа"

	btnOperationSend    = "📤 Отправить платёж"
	btnOperationReceive = "📥 Принять платёж"
	btnRestart          = "🔄 Начать заново"
	btnFeedbackYes      = "✅ Подходит"
	btnFeedbackNo       = "❌ Не подходит"
	btnPagePrev         = "⬅️ Назад"
	btnPageNext         = "Вперёд ➡️"
)

func operationLabel(op string) string {
	if op == "receive" {
		return textOperationReceive
	}
	return textOperationSend
}

// formatApplicationAnnouncement renders the admin-chat message for a new
// application, including the marker lines the scanner relies on.
func formatApplicationAnnouncement(app storage.ClientApplication, clientName, username, directionName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 НОВАЯ ЗАЯВКА (ID: %d)\n\n", app.ID)
	fmt.Fprintf(&b, "Фирма: %s\n", app.CompanyName)
	fmt.Fprintf(&b, "ИНН: %s\n", app.TaxID)
	fmt.Fprintf(&b, "Банк: %s\n", app.Bank)
	fmt.Fprintf(&b, "Ставка НДС: %d\n", app.VATRate)
	fmt.Fprintf(&b, "Категория: %s\n", app.Category)
	fmt.Fprintf(&b, "Назначение платежа: %s\n", app.PaymentPurpose)
	fmt.Fprintf(&b, "Сумма: %d\n", app.Amount)
	fmt.Fprintf(&b, "Вид техники: %s\n", app.EquipmentType)
	fmt.Fprintf(&b, "Описание: %s\n\n", app.Description)
	fmt.Fprintf(&b, "👤 Клиент: %s", clientName)
	if username != "" {
		fmt.Fprintf(&b, " (@%s)", username)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "🆔 ID: %d\n", app.UserID)
	fmt.Fprintf(&b, "📌 Направление: %s\n", directionName)
	fmt.Fprintf(&b, "Операция: %s", operationLabel(string(app.OperationType)))
	return b.String()
}

// formatOffer renders a ready-made offer for delivery to a client or for
// the admin listing.
func formatOffer(o storage.ReadyOffer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💼 КП #%d\n\n", o.ID)
	fmt.Fprintf(&b, "Фирма: %s\n", o.CompanyName)
	fmt.Fprintf(&b, "ИНН: %s\n", o.TaxID)
	fmt.Fprintf(&b, "Банк: %s\n", o.Bank)
	fmt.Fprintf(&b, "Назначение: %s\n", o.PaymentPurpose)
	fmt.Fprintf(&b, "Сумма: от %d до %d\n", o.MinAmount, o.MaxAmount)
	fmt.Fprintf(&b, "Комиссия: %.2f%%", o.Commission)
	return b.String()
}

func formatOfferShort(o storage.ReadyOffer) string {
	return fmt.Sprintf("#%d %s — %d..%d, %.2f%%", o.ID, o.CompanyName, o.MinAmount, o.MaxAmount, o.Commission)
}

func formatUserLine(u storage.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", u.UserID)
	if u.Username != "" {
		fmt.Fprintf(&b, " @%s", u.Username)
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		fmt.Fprintf(&b, " %s", name)
	}
	if u.IsBlocked {
		b.WriteString(" 🚫")
	}
	fmt.Fprintf(&b, " (активность: %s)", u.LastActivity.Format("2006-01-02 15:04"))
	return b.String()
}

func formatDBStats(st storage.DBStats) string {
	var b strings.Builder
	b.WriteString("📊 Статистика БД\n\n")
	fmt.Fprintf(&b, "Заявки: %d\n", st.Applications)
	fmt.Fprintf(&b, "Отклики ✅: %d\n", st.FeedbackYes)
	fmt.Fprintf(&b, "Отклики ❌: %d\n", st.FeedbackNo)
	fmt.Fprintf(&b, "Уведомления: %d\n", st.Notifications)
	fmt.Fprintf(&b, "Пользователи: %d\n", st.Users)
	fmt.Fprintf(&b, "Размер БД: %.1f MB", float64(st.SizeBytes)/(1024*1024))
	return b.String()
}

func formatDailyStats(st storage.DailyStats, nameFor func(string) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 Статистика за %s\n\n", st.Date)
	fmt.Fprintf(&b, "Заявки: %d\n", st.Applications)
	fmt.Fprintf(&b, "Отклики ✅: %d\n", st.FeedbackYes)
	fmt.Fprintf(&b, "Отклики ❌: %d\n", st.FeedbackNo)
	if len(st.ByDirection) > 0 {
		b.WriteString("\nПо направлениям:\n")
		for dir, n := range st.ByDirection {
			fmt.Fprintf(&b, "• %s: %d\n", nameFor(dir), n)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

const textAdminHelp = `Команды администратора:
/users — список пользователей
/new_users [дней] — новые пользователи
/block <id> — заблокировать
/unblock <id> — разблокировать
/add_kp — добавить КП
/list_kp — список КП
/edit_kp <id> — изменить КП
/delete_kp <id> — удалить КП
/stats — статистика за день
/db_stats — статистика БД
/cleanup_db — очистка БД
/help_admin — эта справка`
