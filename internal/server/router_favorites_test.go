package server

import (
	"net/http"
	"testing"

	"github.com/swaroski/ai-shelves/internal/favorites"
)

func TestFavoritesToggleAndCount(t *testing.T) {
	server := newTestServer(t)
	token := server.token(t, "reader-1", "Reader One")

	recorder := server.do(t, http.MethodPost, "/favorites/1/toggle", token, nil)
	expectStatus(t, recorder, http.StatusOK)
	toggled := decodeBody[favorites.ToggleResult](t, recorder)
	if !toggled.IsFavorite || toggled.Favorite == nil || toggled.Favorite.BookID != "1" {
		t.Fatalf("unexpected toggle result %+v", toggled)
	}

	recorder = server.do(t, http.MethodGet, "/favorites/count", token, nil)
	expectStatus(t, recorder, http.StatusOK)
	if count := decodeBody[map[string]int](t, recorder); count["count"] != 1 {
		t.Fatalf("expected one favorite, got %d", count["count"])
	}

	otherToken := server.token(t, "reader-2", "Reader Two")
	recorder = server.do(t, http.MethodGet, "/favorites", otherToken, nil)
	expectStatus(t, recorder, http.StatusOK)
	listed := decodeBody[struct {
		BookIDs []string `json:"bookIds"`
	}](t, recorder)
	if len(listed.BookIDs) != 0 {
		t.Fatalf("expected favorites to be per user, got %v", listed.BookIDs)
	}

	recorder = server.do(t, http.MethodPost, "/favorites/1/toggle", token, nil)
	expectStatus(t, recorder, http.StatusOK)
	if untoggled := decodeBody[favorites.ToggleResult](t, recorder); untoggled.IsFavorite || untoggled.Favorite != nil {
		t.Fatalf("expected favorite to be removed, got %+v", untoggled)
	}

	recorder = server.do(t, http.MethodDelete, "/favorites", token, nil)
	expectStatus(t, recorder, http.StatusNoContent)
}
