package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type senderContext struct {
	tele.Context
	user *tele.User
}

func (c *senderContext) Sender() *tele.User { return c.user }

func TestOwnerOnlyMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		ownerID  int64
		user     *tele.User
		wantNext bool
	}{
		{"owner passes", 42, &tele.User{ID: 42}, true},
		{"other user rejected", 42, &tele.User{ID: 7}, false},
		{"nil sender rejected", 42, nil, false},
		{"check disabled without owner", 0, nil, true},
	}
	for _, tc := range cases {
		called := false
		next := func(tele.Context) error {
			called = true
			return nil
		}
		h := OwnerOnlyMiddleware(OwnerOptions{OwnerID: tc.ownerID})(next)
		if err := h(&senderContext{user: tc.user}); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if called != tc.wantNext {
			t.Errorf("%s: next called = %v, want %v", tc.name, called, tc.wantNext)
		}
	}
}
