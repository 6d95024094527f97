package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swaroski/ai-shelves/internal/auth"
	"github.com/swaroski/ai-shelves/internal/catalog"
	"github.com/swaroski/ai-shelves/internal/database"
	"github.com/swaroski/ai-shelves/internal/favorites"
	"github.com/swaroski/ai-shelves/internal/gemini"
	"github.com/swaroski/ai-shelves/internal/insights"
	"github.com/swaroski/ai-shelves/internal/kvstore"
	"github.com/swaroski/ai-shelves/internal/library"
	"github.com/swaroski/ai-shelves/internal/users"
	"github.com/swaroski/ai-shelves/internal/workspaces"
	"go.uber.org/zap"
)

const (
	testSigningSecret = "test-signing-secret"
	testIssuer        = "shelves"
	testCookieName    = "app_session"
	testOperatorID    = "operator-1"
)

var testNow = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

type testServer struct {
	handler  http.Handler
	issuer   *auth.TokenIssuer
	realtime *RealtimeDispatcher
	store    kvstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := func() time.Time { return testNow }
	logger := zap.NewNop()

	db, err := database.OpenSQLite(database.MemoryPath, logger)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	store, err := kvstore.NewSQLStore(kvstore.SQLStoreConfig{Database: db, Clock: clock})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	userService, err := users.NewService(users.ServiceConfig{Database: db, Clock: clock, Logger: logger})
	if err != nil {
		t.Fatalf("failed to build users: %v", err)
	}
	workspaceService, err := workspaces.NewService(workspaces.ServiceConfig{
		Store:      store,
		Clock:      clock,
		IDProvider: workspaces.NewUUIDProvider(),
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("failed to build workspaces: %v", err)
	}
	libraryService, err := library.NewService(library.ServiceConfig{
		Store:      store,
		Clock:      clock,
		IDProvider: library.NewUUIDProvider(),
		Roles:      workspaceService,
		Activities: workspaceService,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("failed to build library: %v", err)
	}
	favoriteService, err := favorites.NewService(favorites.ServiceConfig{Store: store, Clock: clock, Logger: logger})
	if err != nil {
		t.Fatalf("failed to build favorites: %v", err)
	}
	validator, err := auth.NewSessionValidator(auth.SessionValidatorConfig{
		SigningSecret: []byte(testSigningSecret),
		Issuer:        testIssuer,
		CookieName:    testCookieName,
		Clock:         clock,
	})
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}
	issuer, err := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(testSigningSecret),
		Issuer:        testIssuer,
		Clock:         clock,
	})
	if err != nil {
		t.Fatalf("failed to build issuer: %v", err)
	}

	realtime := NewRealtimeDispatcher()
	handler, err := NewHTTPHandler(Dependencies{
		Sessions:   validator,
		Users:      userService,
		Library:    libraryService,
		Favorites:  favoriteService,
		Workspaces: workspaceService,
		Catalog:    catalog.NewAdapter(catalog.AdapterConfig{Seed: 7, Clock: clock, Logger: logger}),
		Insights:   insights.NewService(insights.ServiceConfig{Logger: logger}),
		GeminiKeys: gemini.NewStoredKey(store, ""),
		Realtime:   realtime,
		Operators:  []string{testOperatorID},
		Clock:      clock,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("failed to construct http handler: %v", err)
	}
	return &testServer{handler: handler, issuer: issuer, realtime: realtime, store: store}
}

func (s *testServer) token(t *testing.T, userID, displayName string) string {
	t.Helper()
	token, _, err := s.issuer.Issue(auth.SessionIdentity{UserID: userID, DisplayName: displayName})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(recorder.Body.Bytes(), &value); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return value
}

func expectStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, recorder.Code, recorder.Body.String())
	}
}
