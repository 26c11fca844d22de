package reconcile

import (
	"context"
	"errors"
	"testing"

	"relaybot/internal/storage"
)

type fakeStore struct {
	byMessage map[int]*storage.ClientApplication
	byID      map[int64]*storage.ClientApplication
	failWith  error
}

func (f *fakeStore) GetApplicationByAdminMessage(_ context.Context, _ int64, msgID int) (*storage.ClientApplication, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if app, ok := f.byMessage[msgID]; ok {
		return app, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetApplication(_ context.Context, id int64) (*storage.ClientApplication, error) {
	if app, ok := f.byID[id]; ok {
		return app, nil
	}
	return nil, storage.ErrNotFound
}

func dirMap(chatID int64) string {
	if chatID == -100 {
		return "europe"
	}
	return ""
}

func TestResolvePrefersStoreBinding(t *testing.T) {
	app := &storage.ClientApplication{ID: 5, UserID: 42, Direction: "asia", CompanyName: "ООО Ромашка"}
	st := &fakeStore{byMessage: map[int]*storage.ClientApplication{77: app}}
	r := New(st, TextScanner{}, dirMap)

	// Text carries a conflicting marker; the durable binding wins.
	res, err := r.Resolve(context.Background(), -100, 77, "НОВАЯ ЗАЯВКА (ID: 999)")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.ClientID != 42 || res.ApplicationID != 5 || res.Source != SourceStore {
		t.Fatalf("resolution = %+v", res)
	}
	if res.Direction != "asia" || res.Company != "ООО Ромашка" {
		t.Fatalf("resolution = %+v, want stored direction and company", res)
	}
}

func TestResolveFallsBackToAppMarker(t *testing.T) {
	app := &storage.ClientApplication{ID: 999, UserID: 42, Direction: "asia"}
	st := &fakeStore{byID: map[int64]*storage.ClientApplication{999: app}}
	r := New(st, TextScanner{}, dirMap)

	res, err := r.Resolve(context.Background(), -100, 77,
		"📋 НОВАЯ ЗАЯВКА (ID: 999)\nФирма: ООО Ромашка")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.ClientID != 42 || res.ApplicationID != 999 || res.Source != SourceAppMarker {
		t.Fatalf("resolution = %+v", res)
	}
}

func TestResolveFallsBackToClientMarker(t *testing.T) {
	r := New(&fakeStore{}, TextScanner{}, dirMap)

	res, err := r.Resolve(context.Background(), -100, 77,
		"Клиент интересуется КП\n🆔 ID: 4242")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.ClientID != 4242 || res.ApplicationID != 0 || res.Source != SourceClientMarker {
		t.Fatalf("resolution = %+v", res)
	}
	if res.Direction != "europe" {
		t.Fatalf("direction = %q, want inferred from chat", res.Direction)
	}
}

func TestResolveAppMarkerMissingRowFallsThrough(t *testing.T) {
	// Marker names an application that was pruned; the client marker in the
	// same text still resolves.
	r := New(&fakeStore{}, TextScanner{}, dirMap)

	res, err := r.Resolve(context.Background(), -100, 77,
		"НОВАЯ ЗАЯВКА (ID: 8)\n🆔 ID: 4242")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.ClientID != 4242 || res.Source != SourceClientMarker {
		t.Fatalf("resolution = %+v", res)
	}
}

func TestResolveNoClient(t *testing.T) {
	r := New(&fakeStore{}, TextScanner{}, dirMap)

	_, err := r.Resolve(context.Background(), -100, 77, "просто обсуждение в чате")
	if !errors.Is(err, ErrNoClient) {
		t.Fatalf("err = %v, want ErrNoClient", err)
	}
}

func TestResolveStoreErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	r := New(&fakeStore{failWith: boom}, TextScanner{}, dirMap)

	_, err := r.Resolve(context.Background(), -100, 77, "🆔 ID: 4242")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped store error", err)
	}
}

func TestTextScannerMarkers(t *testing.T) {
	var s TextScanner
	if id, ok := s.ApplicationID("📋 НОВАЯ ЗАЯВКА (ID: 31)"); !ok || id != 31 {
		t.Fatalf("ApplicationID = %d, %v", id, ok)
	}
	if _, ok := s.ApplicationID("заявка без маркера"); ok {
		t.Fatal("ApplicationID matched plain text")
	}
	if id, ok := s.ClientID("🆔 ID: 12345"); !ok || id != 12345 {
		t.Fatalf("ClientID = %d, %v", id, ok)
	}
	if _, ok := s.ClientID("ID: 12345"); ok {
		t.Fatal("ClientID matched without emoji marker")
	}
}
