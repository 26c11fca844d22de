package relay

import (
	"fmt"
	"strconv"
	"strings"

	"log/slog"

	"relaybot/internal/logger"
	"relaybot/internal/session"
	"relaybot/internal/storage"
	tghelpers "relaybot/internal/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// keepCurrent is the edit-mode sentinel that leaves a field unchanged.
const keepCurrent = "-"

func wizardPrompt(step session.WizardStep, mode session.WizardMode) string {
	var p string
	switch step {
	case session.StepCompany:
		p = "Введите название фирмы:"
	case session.StepTaxID:
		p = "Введите ИНН:"
	case session.StepPurpose:
		p = "Введите назначение платежа:"
	case session.StepBank:
		p = "Введите банк:"
	case session.StepMinAmount:
		p = "Введите минимальную сумму (число):"
	case session.StepMaxAmount:
		p = "Введите максимальную сумму (число):"
	case session.StepCommission:
		p = "Введите комиссию в процентах (число):"
	default:
		return textUnexpectedState
	}
	if mode == session.ModeEdit {
		p += "\n(отправьте «-», чтобы оставить текущее значение)"
	}
	return p
}

// wizardFlow claims text from administrators with an offer wizard in
// progress, anywhere the wizard was started.
type wizardFlow struct {
	app *App
}

func (f *wizardFlow) Name() string { return "offer_wizard" }

func (f *wizardFlow) Claims(c tele.Context) bool {
	user := c.Sender()
	if user == nil {
		return false
	}
	w := f.app.wizards.Get(user.ID)
	// The direction step is answered with a button, not text.
	return w.Active() && w.Step != session.StepDirection
}

func (f *wizardFlow) Handle(c tele.Context) error {
	return f.app.advanceWizard(c)
}

// advanceWizard applies one text answer to the current wizard step.
// Numeric steps re-prompt without advancing on bad input; in edit mode
// the "-" sentinel keeps the stored value.
func (a *App) advanceWizard(c tele.Context) error {
	user := c.Sender()
	w := a.wizards.Get(user.ID)
	answer := strings.TrimSpace(c.Text())
	skip := w.Mode == session.ModeEdit && answer == keepCurrent

	var apply func(*session.OfferDraft)
	switch w.Step {
	case session.StepCompany:
		apply = func(d *session.OfferDraft) { d.CompanyName = answer }
	case session.StepTaxID:
		apply = func(d *session.OfferDraft) { d.TaxID = answer }
	case session.StepPurpose:
		apply = func(d *session.OfferDraft) { d.PaymentPurpose = answer }
	case session.StepBank:
		apply = func(d *session.OfferDraft) { d.Bank = answer }
	case session.StepMinAmount, session.StepMaxAmount:
		if !skip {
			n, err := strconv.ParseInt(answer, 10, 64)
			if err != nil || n < 0 {
				return c.Send("Нужно число. " + wizardPrompt(w.Step, w.Mode))
			}
			if w.Step == session.StepMinAmount {
				apply = func(d *session.OfferDraft) { d.MinAmount = n }
			} else {
				apply = func(d *session.OfferDraft) { d.MaxAmount = n }
			}
		}
	case session.StepCommission:
		if !skip {
			f, err := strconv.ParseFloat(strings.ReplaceAll(answer, ",", "."), 64)
			if err != nil || f < 0 {
				return c.Send("Нужно число. " + wizardPrompt(w.Step, w.Mode))
			}
			apply = func(d *session.OfferDraft) { d.Commission = f }
		}
	default:
		a.wizards.Cancel(user.ID)
		return c.Send(textUnexpectedState)
	}
	if apply == nil {
		apply = func(*session.OfferDraft) {}
	}

	st, done := a.wizards.Advance(user.ID, apply)
	if !done {
		return c.Send(wizardPrompt(st.Step, st.Mode))
	}
	return a.commitWizard(c, st)
}

// commitWizard persists the finished draft: insert for create, merge
// update for edit.
func (a *App) commitWizard(c tele.Context, st session.WizardState) error {
	ctx := tghelpers.BuildContext(c)
	d := st.Draft

	offer := storage.ReadyOffer{
		ID:             st.OfferID,
		Direction:      d.Direction,
		CompanyName:    d.CompanyName,
		TaxID:          d.TaxID,
		Bank:           d.Bank,
		PaymentPurpose: d.PaymentPurpose,
		MinAmount:      d.MinAmount,
		MaxAmount:      d.MaxAmount,
		Commission:     d.Commission,
	}

	if st.Mode == session.ModeEdit {
		if err := a.store.UpdateOffer(ctx, offer); err != nil {
			logger.Relay.Error("offer update failed",
				slog.String("event", "offer.edit"),
				slog.Int64("offer_id", st.OfferID),
				slog.String("err", err.Error()),
			)
			return c.Send(textStoreFailure)
		}
		logger.Relay.Info("offer updated",
			slog.String("event", "offer.edit"),
			slog.Int64("offer_id", st.OfferID),
		)
		return c.Send(fmt.Sprintf("✅ КП #%d обновлено.", st.OfferID))
	}

	id, err := a.store.InsertOffer(ctx, offer)
	if err != nil {
		logger.Relay.Error("offer insert failed",
			slog.String("event", "offer.add"),
			slog.String("direction", d.Direction),
			slog.String("err", err.Error()),
		)
		return c.Send(textStoreFailure)
	}
	logger.Relay.Info("offer created",
		slog.String("event", "offer.add"),
		slog.Int64("offer_id", id),
		slog.String("direction", d.Direction),
	)
	return c.Send(fmt.Sprintf("✅ КП #%d создано.\n\n%s", id, formatOffer(storage.ReadyOffer{
		ID:             id,
		Direction:      d.Direction,
		CompanyName:    d.CompanyName,
		TaxID:          d.TaxID,
		Bank:           d.Bank,
		PaymentPurpose: d.PaymentPurpose,
		MinAmount:      d.MinAmount,
		MaxAmount:      d.MaxAmount,
		Commission:     d.Commission,
	})))
}
