package favorites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/swaroski/ai-shelves/internal/kvstore"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type staticIDs struct {
	value string
}

func (p staticIDs) NewID() (string, error) {
	return p.value, nil
}

type failingStore struct {
	kvstore.Store
}

func (failingStore) Set(context.Context, string, string) error {
	return kvstore.ErrQuotaExceeded
}

func newTestService(t *testing.T, store kvstore.Store, logger *zap.Logger) *Service {
	t.Helper()
	service, err := NewService(ServiceConfig{
		Store:      store,
		Clock:      func() time.Time { return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC) },
		IDProvider: staticIDs{value: "1"},
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return service
}

func TestToggleTwiceLeavesNoRow(t *testing.T) {
	service := newTestService(t, kvstore.NewMemoryStore(0), nil)
	ctx := context.Background()

	first, err := service.Toggle(ctx, "user-1", "book-1")
	if err != nil {
		t.Fatalf("unexpected toggle error: %v", err)
	}
	if !first.IsFavorite || first.Favorite == nil || first.Favorite.ID != "fav-1" {
		t.Fatalf("unexpected first toggle %#v", first)
	}

	second, err := service.Toggle(ctx, "user-1", "book-1")
	if err != nil {
		t.Fatalf("unexpected toggle error: %v", err)
	}
	if second.IsFavorite || second.Favorite != nil {
		t.Fatalf("unexpected second toggle %#v", second)
	}

	all, err := service.All(ctx)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no rows, got %#v", all)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	service := newTestService(t, kvstore.NewMemoryStore(0), nil)
	ctx := context.Background()

	first, err := service.Add(ctx, "user-1", "book-1")
	if err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	second, err := service.Add(ctx, "user-1", "book-1")
	if err != nil {
		t.Fatalf("unexpected add error: %v", err)
	}
	if first != second {
		t.Fatalf("expected existing favorite to be returned")
	}
	count, err := service.CountFor(ctx, "user-1")
	if err != nil || count != 1 {
		t.Fatalf("expected one favorite, got %d err=%v", count, err)
	}
}

func TestRemoveMissingReturnsFalse(t *testing.T) {
	service := newTestService(t, kvstore.NewMemoryStore(0), nil)
	removed, err := service.Remove(context.Background(), "user-1", "book-1")
	if err != nil || removed {
		t.Fatalf("expected false without error, got removed=%v err=%v", removed, err)
	}
}

func TestQueriesAreScopedToUser(t *testing.T) {
	service := newTestService(t, kvstore.NewMemoryStore(0), nil)
	ctx := context.Background()
	for _, pair := range [][2]string{{"user-1", "book-1"}, {"user-1", "book-2"}, {"user-2", "book-1"}} {
		if _, err := service.Add(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("unexpected add error: %v", err)
		}
	}

	ids, err := service.FavoriteBookIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected ids error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "book-1" || ids[1] != "book-2" {
		t.Fatalf("unexpected ids %v", ids)
	}
	isFavorite, err := service.IsFavorite(ctx, "user-2", "book-2")
	if err != nil || isFavorite {
		t.Fatalf("expected user-2 not to favor book-2")
	}

	if err := service.ClearUser(ctx, "user-1"); err != nil {
		t.Fatalf("unexpected clear error: %v", err)
	}
	all, _ := service.All(ctx)
	if len(all) != 1 || all[0].UserID != "user-2" {
		t.Fatalf("expected only user-2 to remain, got %#v", all)
	}
}

func TestToggleRejectsMissingIDs(t *testing.T) {
	service := newTestService(t, kvstore.NewMemoryStore(0), nil)
	if _, err := service.Toggle(context.Background(), "", "book-1"); !errors.Is(err, ErrInvalidFavorite) {
		t.Fatalf("expected ErrInvalidFavorite, got %v", err)
	}
}

func TestWriteFailurePropagatesAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	store := failingStore{Store: kvstore.NewMemoryStore(0)}
	service := newTestService(t, store, zap.New(core))

	_, err := service.Add(context.Background(), "user-1", "book-1")
	if !errors.Is(err, kvstore.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) || serviceErr.Code() != "favorites.add.save_failed" {
		t.Fatalf("unexpected error code %v", err)
	}
	entries := logs.FilterField(zap.String("reason", reasonSaveFailed)).All()
	if len(entries) != 1 {
		t.Fatalf("expected one save failure log, got %d", len(entries))
	}
}
