package session

// ClientPhase is where a client stands in the application dialogue.
type ClientPhase int

const (
	// PhaseIdle means no dialogue in progress; free text is ignored.
	PhaseIdle ClientPhase = iota
	// PhaseAwaitingOperation means the operation keyboard was shown.
	PhaseAwaitingOperation
	// PhaseAwaitingDirection means the direction keyboard was shown.
	PhaseAwaitingDirection
	// PhaseAwaitingApplication means the nine-line form prompt was sent.
	PhaseAwaitingApplication
)

// ClientState is one client's progress through the application dialogue.
type ClientState struct {
	Phase     ClientPhase
	Operation string // "send" or "receive", set after the operation step
	Direction string // direction key, set after the direction step
}

// Clients tracks the application dialogue per client.
type Clients struct {
	store *store[ClientState]
}

// NewClients builds an empty client-state store.
func NewClients() *Clients {
	return &Clients{store: newStore[ClientState]()}
}

// Get returns the client's current state; unknown clients are idle.
func (c *Clients) Get(userID int64) ClientState {
	return c.store.Get(userID)
}

// Begin resets the dialogue to the operation step. Any in-progress state
// is discarded, so /start always lands on a clean slate.
func (c *Clients) Begin(userID int64) {
	c.store.Update(userID, func(s *ClientState) {
		*s = ClientState{Phase: PhaseAwaitingOperation}
	})
}

// SetOperation records the chosen operation and advances to the
// direction step. Returns false when the dialogue is not at that step,
// which happens when an old keyboard is pressed twice.
func (c *Clients) SetOperation(userID int64, operation string) bool {
	ok := false
	c.store.Update(userID, func(s *ClientState) {
		if s.Phase != PhaseAwaitingOperation {
			return
		}
		s.Operation = operation
		s.Phase = PhaseAwaitingDirection
		ok = true
	})
	return ok
}

// SetDirection records the chosen direction and advances to the form step.
func (c *Clients) SetDirection(userID int64, direction string) bool {
	ok := false
	c.store.Update(userID, func(s *ClientState) {
		if s.Phase != PhaseAwaitingDirection {
			return
		}
		s.Direction = direction
		s.Phase = PhaseAwaitingApplication
		ok = true
	})
	return ok
}

// Complete finishes the dialogue after a submitted form and returns the
// state it closed with. The second result is false when no form was
// expected from this user.
func (c *Clients) Complete(userID int64) (ClientState, bool) {
	var out ClientState
	ok := false
	c.store.Update(userID, func(s *ClientState) {
		if s.Phase != PhaseAwaitingApplication {
			return
		}
		out = *s
		*s = ClientState{}
		ok = true
	})
	return out, ok
}

// Restore puts back a state taken by Complete, for when the submit that
// consumed it failed and the client should be able to resend the form.
func (c *Clients) Restore(userID int64, state ClientState) {
	c.store.Update(userID, func(s *ClientState) {
		*s = state
	})
}
