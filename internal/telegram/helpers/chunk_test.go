package helpers

import (
	"strings"
	"testing"
)

func TestChunkShortTextUntouched(t *testing.T) {
	got := Chunk("hello")
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("Chunk = %q", got)
	}
}

func TestChunkSplitsOnNewline(t *testing.T) {
	line := strings.Repeat("а", 100)
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	chunks := Chunk(b.String())
	if len(chunks) < 2 {
		t.Fatalf("long text produced %d chunks", len(chunks))
	}
	for i, ch := range chunks {
		if n := len([]rune(ch)); n > MessageLimit {
			t.Fatalf("chunk %d is %d runes, limit %d", i, n, MessageLimit)
		}
		if strings.HasPrefix(ch, "\n") || strings.HasSuffix(ch, "\n") {
			t.Fatalf("chunk %d has dangling newline", i)
		}
	}
}

func TestChunkUnbrokenText(t *testing.T) {
	text := strings.Repeat("x", MessageLimit*2+10)
	chunks := Chunk(text)
	var total int
	for i, ch := range chunks {
		if n := len([]rune(ch)); n > MessageLimit {
			t.Fatalf("chunk %d is %d runes, limit %d", i, n, MessageLimit)
		}
		total += len(ch)
	}
	if total != len(text) {
		t.Fatalf("chunks lost content: got %d runes, want %d", total, len(text))
	}
}
