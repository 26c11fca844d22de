package session

import (
	"sync"
	"testing"
)

func TestClientDialogueHappyPath(t *testing.T) {
	c := NewClients()
	c.Begin(7)
	if got := c.Get(7).Phase; got != PhaseAwaitingOperation {
		t.Fatalf("phase after Begin = %v, want PhaseAwaitingOperation", got)
	}
	if !c.SetOperation(7, "send") {
		t.Fatal("SetOperation rejected at operation step")
	}
	if !c.SetDirection(7, "europe") {
		t.Fatal("SetDirection rejected at direction step")
	}
	st, ok := c.Complete(7)
	if !ok {
		t.Fatal("Complete rejected at form step")
	}
	if st.Operation != "send" || st.Direction != "europe" {
		t.Fatalf("completed state = %+v", st)
	}
	if got := c.Get(7).Phase; got != PhaseIdle {
		t.Fatalf("phase after Complete = %v, want PhaseIdle", got)
	}
}

func TestClientOutOfOrderPressRejected(t *testing.T) {
	c := NewClients()
	c.Begin(7)
	c.SetOperation(7, "send")
	// Pressing the stale operation keyboard again must not rewind.
	if c.SetOperation(7, "receive") {
		t.Fatal("stale operation press accepted")
	}
	if got := c.Get(7).Operation; got != "send" {
		t.Fatalf("operation overwritten to %q", got)
	}
}

func TestClientCompleteWithoutFormStep(t *testing.T) {
	c := NewClients()
	if _, ok := c.Complete(7); ok {
		t.Fatal("Complete succeeded with no dialogue in progress")
	}
}

func TestClientRestoreAfterFailedSubmit(t *testing.T) {
	c := NewClients()
	c.Begin(7)
	c.SetOperation(7, "send")
	c.SetDirection(7, "europe")

	st, ok := c.Complete(7)
	if !ok {
		t.Fatal("Complete rejected at form step")
	}
	// A second form arriving in the gap sees no dialogue.
	if _, ok := c.Complete(7); ok {
		t.Fatal("Complete succeeded twice for one dialogue")
	}

	c.Restore(7, st)
	got, ok := c.Complete(7)
	if !ok {
		t.Fatal("Complete rejected after Restore")
	}
	if got.Operation != "send" || got.Direction != "europe" {
		t.Fatalf("restored state = %+v", got)
	}
}

func TestBeginDiscardsInProgressDialogue(t *testing.T) {
	c := NewClients()
	c.Begin(7)
	c.SetOperation(7, "send")
	c.Begin(7)
	st := c.Get(7)
	if st.Phase != PhaseAwaitingOperation || st.Operation != "" {
		t.Fatalf("state after restart = %+v", st)
	}
}

func TestWizardCreateFlow(t *testing.T) {
	w := NewWizards()
	w.BeginCreate(9)
	if !w.SetDirection(9, "asia") {
		t.Fatal("SetDirection rejected at direction step")
	}
	answers := []func(*OfferDraft){
		func(d *OfferDraft) { d.CompanyName = "ООО Ромашка" },
		func(d *OfferDraft) { d.TaxID = "7701234567" },
		func(d *OfferDraft) { d.PaymentPurpose = "оплата по договору" },
		func(d *OfferDraft) { d.Bank = "Сбер" },
		func(d *OfferDraft) { d.MinAmount = 100_000 },
		func(d *OfferDraft) { d.MaxAmount = 5_000_000 },
	}
	for i, fn := range answers {
		if _, done := w.Advance(9, fn); done {
			t.Fatalf("wizard finished early at answer %d", i+1)
		}
	}
	st, done := w.Advance(9, func(d *OfferDraft) { d.Commission = 2.5 })
	if !done {
		t.Fatal("wizard did not finish after commission step")
	}
	d := st.Draft
	if d.Direction != "asia" || d.CompanyName != "ООО Ромашка" || d.Commission != 2.5 {
		t.Fatalf("final draft = %+v", d)
	}
	if w.Get(9).Active() {
		t.Fatal("wizard state not cleared after finish")
	}
}

func TestWizardEditSkipsDirection(t *testing.T) {
	w := NewWizards()
	seed := OfferDraft{Direction: "europe", CompanyName: "Old", MinAmount: 1}
	w.BeginEdit(9, 42, seed)
	st := w.Get(9)
	if st.Step != StepCompany || st.Mode != ModeEdit || st.OfferID != 42 {
		t.Fatalf("edit wizard start = %+v", st)
	}
	// A kept-as-is answer leaves the seeded value alone.
	st, _ = w.Advance(9, func(d *OfferDraft) {})
	if st.Draft.CompanyName != "Old" {
		t.Fatalf("seeded company lost: %+v", st.Draft)
	}
}

func TestWizardCancel(t *testing.T) {
	w := NewWizards()
	w.BeginCreate(9)
	w.Cancel(9)
	if w.Get(9).Active() {
		t.Fatal("wizard active after cancel")
	}
}

func TestStoreConcurrentUpdates(t *testing.T) {
	c := NewClients()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			c.Begin(id)
			c.SetOperation(id, "send")
			c.SetDirection(id, "europe")
		}(int64(i))
	}
	wg.Wait()
	for i := int64(0); i < 64; i++ {
		if got := c.Get(i).Phase; got != PhaseAwaitingApplication {
			t.Fatalf("user %d phase = %v, want PhaseAwaitingApplication", i, got)
		}
	}
}
