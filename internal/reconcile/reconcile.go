// Package reconcile maps an administrator's reply in a group chat back to
// the client it concerns. Resolution tries three sources in order: the
// durable message binding in the database, the id markers embedded in the
// replied-to text, and finally the chat-to-direction map for context.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"relaybot/internal/storage"
)

// ErrNoClient means no source could identify the client behind a reply.
// Callers log and drop the reply rather than guessing.
var ErrNoClient = errors.New("reconcile: no client resolved")

// Source names which stage produced a resolution, for log correlation.
type Source string

const (
	SourceStore        Source = "store"
	SourceAppMarker    Source = "app_marker"
	SourceClientMarker Source = "client_marker"
)

// Resolution identifies the client an admin reply should be relayed to.
// ApplicationID and Company are zero-valued when the reply was matched by
// client marker only.
type Resolution struct {
	ClientID      int64
	ApplicationID int64
	Direction     string
	Company       string
	Source        Source
}

// Store is the subset of storage the resolver needs.
type Store interface {
	GetApplicationByAdminMessage(ctx context.Context, adminChatID int64, adminMessageID int) (*storage.ClientApplication, error)
	GetApplication(ctx context.Context, id int64) (*storage.ClientApplication, error)
}

// Scanner extracts id markers from replied-to message text.
type Scanner interface {
	ApplicationID(text string) (int64, bool)
	ClientID(text string) (int64, bool)
}

// Resolver resolves admin replies to clients.
type Resolver struct {
	store   Store
	scanner Scanner
	// dirForChat maps an admin chat to its direction key; empty when the
	// chat serves no configured direction.
	dirForChat func(chatID int64) string
}

// New builds a resolver. dirForChat may be nil when no chat inference
// is wanted.
func New(store Store, scanner Scanner, dirForChat func(chatID int64) string) *Resolver {
	if dirForChat == nil {
		dirForChat = func(int64) string { return "" }
	}
	return &Resolver{store: store, scanner: scanner, dirForChat: dirForChat}
}

// Resolve identifies the client behind a reply to the given admin-chat
// message. repliedText is the text of the replied-to message, used for
// marker scanning when the durable binding is missing.
func (r *Resolver) Resolve(ctx context.Context, adminChatID int64, repliedMsgID int, repliedText string) (Resolution, error) {
	app, err := r.store.GetApplicationByAdminMessage(ctx, adminChatID, repliedMsgID)
	switch {
	case err == nil:
		return Resolution{
			ClientID:      app.UserID,
			ApplicationID: app.ID,
			Direction:     app.Direction,
			Company:       app.CompanyName,
			Source:        SourceStore,
		}, nil
	case !errors.Is(err, storage.ErrNotFound):
		return Resolution{}, fmt.Errorf("reconcile: binding lookup: %w", err)
	}

	if appID, ok := r.scanner.ApplicationID(repliedText); ok {
		app, err := r.store.GetApplication(ctx, appID)
		switch {
		case err == nil:
			return Resolution{
				ClientID:      app.UserID,
				ApplicationID: app.ID,
				Direction:     app.Direction,
				Company:       app.CompanyName,
				Source:        SourceAppMarker,
			}, nil
		case !errors.Is(err, storage.ErrNotFound):
			return Resolution{}, fmt.Errorf("reconcile: marker lookup: %w", err)
		}
	}

	if clientID, ok := r.scanner.ClientID(repliedText); ok {
		return Resolution{
			ClientID:  clientID,
			Direction: r.dirForChat(adminChatID),
			Source:    SourceClientMarker,
		}, nil
	}

	return Resolution{}, ErrNoClient
}
