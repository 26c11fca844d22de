package relay

import (
	"testing"

	"relaybot/internal/config"
	"relaybot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// cbContext fakes the slice of tele.Context the callback handlers touch
// and records every answer to the callback query.
type cbContext struct {
	tele.Context
	user *tele.User
	data string

	edits    []string
	responds []*tele.CallbackResponse
}

func (c *cbContext) Sender() *tele.User { return c.user }

func (c *cbContext) Callback() *tele.Callback {
	return &tele.Callback{Data: c.data}
}

func (c *cbContext) EditOrSend(what interface{}, _ ...interface{}) error {
	if s, ok := what.(string); ok {
		c.edits = append(c.edits, s)
	}
	return nil
}

func (c *cbContext) Respond(resp ...*tele.CallbackResponse) error {
	r := &tele.CallbackResponse{}
	if len(resp) > 0 {
		r = resp[0]
	}
	c.responds = append(c.responds, r)
	return nil
}

func newTestApp() *App {
	cfg := &config.Config{
		Directions: []config.Direction{
			{Key: "europe", Name: "Европа", AdminChatID: -100},
		},
	}
	return New(cfg, storage.New(nil))
}

func TestRestartCallbackAnsweredOnce(t *testing.T) {
	a := newTestApp()
	fc := &cbContext{user: &tele.User{ID: 7}}

	if err := a.handleRestart(fc); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if len(fc.edits) != 1 || fc.edits[0] != textChooseOperation {
		t.Fatalf("edits = %v", fc.edits)
	}
	if len(fc.responds) != 1 {
		t.Fatalf("callback answered %d times, want exactly once", len(fc.responds))
	}
}

func TestOperationCallbackInvalidPayloadAlerts(t *testing.T) {
	a := newTestApp()
	fc := &cbContext{user: &tele.User{ID: 7}, data: "bogus"}

	if err := a.handleOperation(fc); err != nil {
		t.Fatalf("operation: %v", err)
	}
	if len(fc.responds) != 1 {
		t.Fatalf("callback answered %d times, want exactly once", len(fc.responds))
	}
	if fc.responds[0].Text != textInvalidRequest {
		t.Fatalf("alert = %q, want %q", fc.responds[0].Text, textInvalidRequest)
	}
	if len(fc.edits) != 0 {
		t.Fatalf("unexpected edits: %v", fc.edits)
	}
}

func TestOperationCallbackAdvancesAndAcks(t *testing.T) {
	a := newTestApp()
	a.clients.Begin(7)
	fc := &cbContext{user: &tele.User{ID: 7}, data: "send"}

	if err := a.handleOperation(fc); err != nil {
		t.Fatalf("operation: %v", err)
	}
	if len(fc.edits) != 1 || fc.edits[0] != textChooseDirection {
		t.Fatalf("edits = %v", fc.edits)
	}
	if len(fc.responds) != 1 || fc.responds[0].Text != "" {
		t.Fatalf("responds = %+v, want one plain ack", fc.responds)
	}
}
