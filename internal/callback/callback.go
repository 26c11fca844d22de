// Package callback encodes and decodes inline-keyboard payloads.
//
// Telegram delivers callback data as an opaque string capped at 64 bytes.
// Payloads here are underscore-joined fields routed by a short kind tag;
// the tag travels as the button's unique prefix, so the wire form is
// "\f<kind>|<fields>" and the cap applies to the whole frame.
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned for payloads that are absent, truncated, or
// have too few fields. Handlers treat it as a stale button press.
var ErrMalformed = errors.New("callback: malformed payload")

// Button kinds. Each maps to one handler route.
const (
	KindOperation = "op"
	KindDirection = "dir"
	KindSendOffer = "send_kp"
	KindPage      = "kp_page"
	KindFeedback  = "fb"
	KindRestart   = "restart"
)

// MaxBytes is Telegram's hard limit on callback data.
const MaxBytes = 64

// frameOverhead accounts for the \f prefix and the unique/payload separator.
const frameOverhead = 2

// OfferRefNone marks a feedback payload with no stored offer behind it.
const OfferRefNone = "none"

// HintRunes caps the lossy client-name hint carried in feedback payloads.
const HintRunes = 5

// Encode joins fields into one payload and verifies the framed length.
func Encode(kind string, fields ...string) (string, error) {
	payload := strings.Join(fields, "_")
	if n := frameOverhead + len(kind) + len(payload); n > MaxBytes {
		return "", fmt.Errorf("callback: %s payload is %d bytes, limit %d", kind, n, MaxBytes)
	}
	return payload, nil
}

// split validates the raw payload and cuts it into at least min fields.
// With max > 0 the split stops there, leaving underscores intact in the
// final field.
func split(payload string, min, max int) ([]string, error) {
	if payload == "" {
		return nil, ErrMalformed
	}
	var parts []string
	if max > 0 {
		parts = strings.SplitN(payload, "_", max)
	} else {
		parts = strings.Split(payload, "_")
	}
	if len(parts) < min {
		return nil, ErrMalformed
	}
	return parts, nil
}

// Operation is a decoded operation-choice payload.
type Operation struct {
	Kind string // "send" or "receive"
}

// EncodeOperation builds the payload for an operation button.
func EncodeOperation(kind string) (string, error) {
	return Encode(KindOperation, kind)
}

// ParseOperation decodes an operation-choice payload.
func ParseOperation(payload string) (Operation, error) {
	if payload != "send" && payload != "receive" {
		return Operation{}, ErrMalformed
	}
	return Operation{Kind: payload}, nil
}

// EncodeDirection builds the payload for a direction button.
func EncodeDirection(key string) (string, error) {
	return Encode(KindDirection, key)
}

// ParseDirection decodes a direction-choice payload.
func ParseDirection(payload string) (string, error) {
	if payload == "" || strings.ContainsAny(payload, " \n") {
		return "", ErrMalformed
	}
	return payload, nil
}

// SendOffer is a decoded send-offer payload: which stored offer to deliver
// to which client.
type SendOffer struct {
	OfferID int64
	UserID  int64
}

// EncodeSendOffer builds the payload for a send-offer button.
func EncodeSendOffer(offerID, userID int64) (string, error) {
	return Encode(KindSendOffer,
		strconv.FormatInt(offerID, 10),
		strconv.FormatInt(userID, 10),
	)
}

// ParseSendOffer decodes a send-offer payload.
func ParseSendOffer(payload string) (SendOffer, error) {
	parts, err := split(payload, 2, 2)
	if err != nil {
		return SendOffer{}, err
	}
	offerID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return SendOffer{}, ErrMalformed
	}
	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return SendOffer{}, ErrMalformed
	}
	return SendOffer{OfferID: offerID, UserID: userID}, nil
}

// Page is a decoded pagination payload for the offer browser.
type Page struct {
	Page      int
	Direction string
	UserID    int64
}

// EncodePage builds the payload for a pagination button.
func EncodePage(page int, direction string, userID int64) (string, error) {
	return Encode(KindPage,
		strconv.Itoa(page),
		direction,
		strconv.FormatInt(userID, 10),
	)
}

// ParsePage decodes a pagination payload.
func ParsePage(payload string) (Page, error) {
	parts, err := split(payload, 3, 3)
	if err != nil {
		return Page{}, err
	}
	page, err := strconv.Atoi(parts[0])
	if err != nil || page < 0 {
		return Page{}, ErrMalformed
	}
	userID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Page{}, ErrMalformed
	}
	return Page{Page: page, Direction: parts[1], UserID: userID}, nil
}

// Feedback is a decoded feedback payload. It carries everything needed to
// notify the originating admin chat without a database round trip: the
// verdict, the admin-chat message the offer came from, the stored offer
// reference (or "none"), the direction, and a lossy client-name hint.
type Feedback struct {
	Accepted    bool
	AdminChatID int64
	MessageID   int
	OfferRef    string
	Direction   string
	ClientHint  string
}

// EncodeFeedback builds the payload for a feedback button. The client hint
// is sanitized and truncated so the frame stays under the Telegram cap.
func EncodeFeedback(f Feedback) (string, error) {
	verdict := "no"
	if f.Accepted {
		verdict = "yes"
	}
	ref := f.OfferRef
	if ref == "" {
		ref = OfferRefNone
	}
	fixed := []string{
		verdict,
		strconv.FormatInt(f.AdminChatID, 10),
		strconv.Itoa(f.MessageID),
		ref,
		f.Direction,
	}
	// Cyrillic hints can blow the byte budget at five runes; shrink the
	// hint rather than fail the whole button.
	hint := SanitizeHint(f.ClientHint)
	for {
		payload, err := Encode(KindFeedback, append(fixed, hint)...)
		if err == nil {
			return payload, nil
		}
		if hint == "x" {
			return "", err
		}
		r := []rune(hint)
		if len(r) <= 1 {
			hint = "x"
			continue
		}
		hint = string(r[:len(r)-1])
	}
}

// ParseFeedback decodes a feedback payload. The hint is the final field
// and may itself contain underscores, so the split is bounded.
func ParseFeedback(payload string) (Feedback, error) {
	parts, err := split(payload, 6, 6)
	if err != nil {
		return Feedback{}, err
	}
	if parts[0] != "yes" && parts[0] != "no" {
		return Feedback{}, ErrMalformed
	}
	chatID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Feedback{}, ErrMalformed
	}
	msgID, err := strconv.Atoi(parts[2])
	if err != nil {
		return Feedback{}, ErrMalformed
	}
	return Feedback{
		Accepted:    parts[0] == "yes",
		AdminChatID: chatID,
		MessageID:   msgID,
		OfferRef:    parts[3],
		Direction:   parts[4],
		ClientHint:  parts[5],
	}, nil
}

// SanitizeHint makes a display name safe to embed in a payload: quotes
// and newlines are stripped, spaces become underscores, and the result
// is cut to HintRunes runes.
func SanitizeHint(name string) string {
	var b strings.Builder
	runes := 0
	for _, r := range name {
		if runes >= HintRunes {
			break
		}
		switch r {
		case '"', '\'', '\n', '\r', '\t':
			continue
		case ' ':
			r = '_'
		}
		b.WriteRune(r)
		runes++
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}
