package keyboard

import "testing"

func btns(n int) []InlineBtn {
	out := make([]InlineBtn, n)
	for i := range out {
		out[i] = InlineBtn{Text: "b", Unique: "k", Data: "d"}
	}
	return out
}

func TestInlineButtonsOnePerRow(t *testing.T) {
	m := InlineButtons(btns(3))
	if len(m.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want 3", len(m.InlineKeyboard))
	}
	for i, row := range m.InlineKeyboard {
		if len(row) != 1 {
			t.Fatalf("row %d has %d buttons, want 1", i, len(row))
		}
	}
}

func TestInlinePerRowSplitsWithRemainder(t *testing.T) {
	m := InlinePerRow(btns(5), 2)
	want := []int{2, 2, 1}
	if len(m.InlineKeyboard) != len(want) {
		t.Fatalf("rows = %d, want %d", len(m.InlineKeyboard), len(want))
	}
	for i, n := range want {
		if len(m.InlineKeyboard[i]) != n {
			t.Fatalf("row %d has %d buttons, want %d", i, len(m.InlineKeyboard[i]), n)
		}
	}
}

func TestInlinePerRowDegenerateWidth(t *testing.T) {
	m := InlinePerRow(btns(2), 0)
	if len(m.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want one per row for width <= 1", len(m.InlineKeyboard))
	}
}
