package callback

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeRejectsOversizedFrame(t *testing.T) {
	_, err := Encode(KindFeedback, strings.Repeat("a", 70))
	if err == nil {
		t.Fatal("oversized payload accepted")
	}
}

func TestEncodeCountsFrameOverhead(t *testing.T) {
	// \f + kind + | + payload must stay within 64 bytes.
	kind := KindSendOffer // 7 bytes
	payload := strings.Repeat("a", MaxBytes-frameOverhead-len(kind))
	if _, err := Encode(kind, payload); err != nil {
		t.Fatalf("payload at exact limit rejected: %v", err)
	}
	if _, err := Encode(kind, payload+"a"); err == nil {
		t.Fatal("payload one byte over limit accepted")
	}
}

func TestFeedbackRoundTrip(t *testing.T) {
	in := Feedback{
		Accepted:    true,
		AdminChatID: -1001234567890,
		MessageID:   4242,
		OfferRef:    "17",
		Direction:   "europe",
		ClientHint:  "Ivan Petrov",
	}
	payload, err := EncodeFeedback(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ParseFeedback(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !out.Accepted || out.AdminChatID != in.AdminChatID || out.MessageID != in.MessageID {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.OfferRef != "17" || out.Direction != "europe" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.ClientHint != "Ivan_" {
		t.Fatalf("hint = %q, want %q", out.ClientHint, "Ivan_")
	}
}

func TestFeedbackEmptyOfferRef(t *testing.T) {
	payload, err := EncodeFeedback(Feedback{
		AdminChatID: -100, MessageID: 1, Direction: "asia", ClientHint: "a",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ParseFeedback(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.OfferRef != OfferRefNone {
		t.Fatalf("offer ref = %q, want %q", out.OfferRef, OfferRefNone)
	}
	if out.Accepted {
		t.Fatal("verdict defaulted to accepted")
	}
}

func TestFeedbackCyrillicHintShrinksToFit(t *testing.T) {
	payload, err := EncodeFeedback(Feedback{
		Accepted:    true,
		AdminChatID: -1001234567890123,
		MessageID:   123456789,
		OfferRef:    "999999",
		Direction:   "kazakhstan",
		ClientHint:  "Владимир",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if n := frameOverhead + len(KindFeedback) + len(payload); n > MaxBytes {
		t.Fatalf("frame is %d bytes, limit %d", n, MaxBytes)
	}
	if _, err := ParseFeedback(payload); err != nil {
		t.Fatalf("parse shrunk payload: %v", err)
	}
}

func TestParseFeedbackMalformed(t *testing.T) {
	cases := []string{
		"",
		"yes",
		"yes_123_45",
		"maybe_123_45_none_europe_ab",
		"yes_abc_45_none_europe_ab",
		"yes_123_xx_none_europe_ab",
	}
	for _, payload := range cases {
		if _, err := ParseFeedback(payload); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseFeedback(%q) err = %v, want ErrMalformed", payload, err)
		}
	}
}

func TestFeedbackHyphenatedDirectionKeepsFieldsAligned(t *testing.T) {
	// Multi-word direction keys use hyphens; the underscore delimiter must
	// never split them, and the trailing hint absorbs any leftover
	// underscores of its own.
	payload, err := EncodeFeedback(Feedback{
		AdminChatID: -100,
		MessageID:   7,
		Direction:   "middle-east",
		ClientHint:  "Ivan",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ParseFeedback(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.Direction != "middle-east" {
		t.Fatalf("direction = %q, want %q", out.Direction, "middle-east")
	}
	if out.ClientHint != "Ivan" {
		t.Fatalf("hint = %q, want %q", out.ClientHint, "Ivan")
	}
}

func TestParseFeedbackHintKeepsUnderscores(t *testing.T) {
	out, err := ParseFeedback("no_-100_7_none_europe_Iv_an")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.ClientHint != "Iv_an" {
		t.Fatalf("hint = %q, want %q", out.ClientHint, "Iv_an")
	}
}

func TestSendOfferRoundTrip(t *testing.T) {
	payload, err := EncodeSendOffer(17, 555)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ParseSendOffer(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.OfferID != 17 || out.UserID != 555 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestParseSendOfferMalformed(t *testing.T) {
	for _, payload := range []string{"", "17", "x_555", "17_y"} {
		if _, err := ParseSendOffer(payload); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseSendOffer(%q) err = %v, want ErrMalformed", payload, err)
		}
	}
}

func TestPageRoundTrip(t *testing.T) {
	payload, err := EncodePage(3, "europe", 777)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := ParsePage(payload)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.Page != 3 || out.Direction != "europe" || out.UserID != 777 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestParsePageMalformed(t *testing.T) {
	for _, payload := range []string{"", "3_europe", "-1_europe_777", "x_europe_777", "3_europe_y"} {
		if _, err := ParsePage(payload); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParsePage(%q) err = %v, want ErrMalformed", payload, err)
		}
	}
}

func TestParseOperation(t *testing.T) {
	for _, op := range []string{"send", "receive"} {
		if _, err := ParseOperation(op); err != nil {
			t.Errorf("ParseOperation(%q) err = %v", op, err)
		}
	}
	if _, err := ParseOperation("steal"); !errors.Is(err, ErrMalformed) {
		t.Errorf("unknown operation accepted")
	}
}

func TestSanitizeHint(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Ivan Petrov", "Ivan_"},
		{`"Ivan"`, "Ivan"},
		{"a\nb", "ab"},
		{"", "x"},
		{"\n\t", "x"},
		{"Мария", "Мария"},
	}
	for _, tc := range cases {
		if got := SanitizeHint(tc.in); got != tc.want {
			t.Errorf("SanitizeHint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
