package session

// WizardStep enumerates the offer-entry steps in order. The wizard asks
// one field per message.
type WizardStep int

const (
	StepNone WizardStep = iota
	StepDirection
	StepCompany
	StepTaxID
	StepPurpose
	StepBank
	StepMinAmount
	StepMaxAmount
	StepCommission
	stepEnd
)

// WizardMode separates creating a fresh offer from editing a stored one.
type WizardMode int

const (
	ModeCreate WizardMode = iota
	ModeEdit
)

// OfferDraft accumulates wizard answers. In edit mode fields start from
// the stored offer and a "-" answer keeps the current value.
type OfferDraft struct {
	Direction      string
	CompanyName    string
	TaxID          string
	Bank           string
	PaymentPurpose string
	MinAmount      int64
	MaxAmount      int64
	Commission     float64
}

// WizardState is one administrator's progress through the offer wizard.
type WizardState struct {
	Step    WizardStep
	Mode    WizardMode
	OfferID int64 // set in edit mode
	Draft   OfferDraft
}

// Active reports whether a wizard dialogue is in progress.
func (w WizardState) Active() bool {
	return w.Step != StepNone
}

// Wizards tracks the offer wizard per administrator.
type Wizards struct {
	store *store[WizardState]
}

// NewWizards builds an empty wizard-state store.
func NewWizards() *Wizards {
	return &Wizards{store: newStore[WizardState]()}
}

// Get returns the administrator's current wizard state.
func (w *Wizards) Get(userID int64) WizardState {
	return w.store.Get(userID)
}

// BeginCreate starts a fresh offer wizard at the direction step.
func (w *Wizards) BeginCreate(userID int64) {
	w.store.Update(userID, func(s *WizardState) {
		*s = WizardState{Step: StepDirection, Mode: ModeCreate}
	})
}

// BeginEdit starts an edit wizard seeded with the stored offer. The
// direction step is skipped; an offer never changes direction.
func (w *Wizards) BeginEdit(userID, offerID int64, seed OfferDraft) {
	w.store.Update(userID, func(s *WizardState) {
		*s = WizardState{
			Step:    StepCompany,
			Mode:    ModeEdit,
			OfferID: offerID,
			Draft:   seed,
		}
	})
}

// Advance applies fn to the draft and moves to the next step. It returns
// the updated state and whether the wizard just finished.
func (w *Wizards) Advance(userID int64, fn func(*OfferDraft)) (WizardState, bool) {
	var out WizardState
	done := false
	w.store.Update(userID, func(s *WizardState) {
		if s.Step == StepNone {
			return
		}
		fn(&s.Draft)
		s.Step++
		if s.Step >= stepEnd {
			done = true
		}
		out = *s
	})
	if done {
		w.store.Clear(userID)
	}
	return out, done
}

// SetDirection records the wizard's direction answer and moves to the
// company step. Only valid at the direction step.
func (w *Wizards) SetDirection(userID int64, direction string) bool {
	ok := false
	w.store.Update(userID, func(s *WizardState) {
		if s.Step != StepDirection {
			return
		}
		s.Draft.Direction = direction
		s.Step = StepCompany
		ok = true
	})
	return ok
}

// Cancel abandons the wizard.
func (w *Wizards) Cancel(userID int64) {
	w.store.Clear(userID)
}
