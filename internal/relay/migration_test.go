package relay

import (
	"errors"
	"testing"
)

func TestMigratedChatIDFromText(t *testing.T) {
	err := errors.New("telegram: group chat was upgraded to a supergroup chat (400). New chat id: -1001234567890")
	id, ok := migratedChatID(err)
	if !ok || id != -1001234567890 {
		t.Fatalf("migratedChatID = %d, %v", id, ok)
	}
}

func TestMigratedChatIDNoMatch(t *testing.T) {
	if _, ok := migratedChatID(errors.New("telegram: chat not found (400)")); ok {
		t.Fatal("unrelated error treated as migration")
	}
	if _, ok := migratedChatID(nil); ok {
		t.Fatal("nil error treated as migration")
	}
}
