package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/swaroski/ai-shelves/internal/auth"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuthorizeRequestLogsExpiredTokenAtInfoLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	request := httptest.NewRequest(http.MethodGet, "/books", http.NoBody)
	request.Header.Set("Authorization", "Bearer expired-token")
	ctx.Request = request

	core, logs := observer.New(zapcore.DebugLevel)
	handler := &httpHandler{
		sessions: stubSessionValidator{validateErr: auth.ErrExpiredSessionToken},
		logger:   zap.New(core),
	}

	handler.authorizeRequest(ctx)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status code: got %d, want %d", recorder.Code, http.StatusUnauthorized)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.InfoLevel {
		t.Fatalf("expected info level for expired token, got %s", entry.Level)
	}
	if entry.Message != "session validation failed" {
		t.Fatalf("unexpected log message: %q", entry.Message)
	}
	hasExpired := false
	for _, field := range entry.Context {
		if field.Type == zapcore.ErrorType && errors.Is(field.Interface.(error), auth.ErrExpiredSessionToken) {
			hasExpired = true
			break
		}
	}
	if !hasExpired {
		t.Fatalf("expected expired token error context, got %v", entry.Context)
	}
}

func TestAuthorizeRequestLogsUnexpectedTokenErrorAtWarnLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	request := httptest.NewRequest(http.MethodGet, "/books", http.NoBody)
	request.Header.Set("Authorization", "Bearer invalid-token")
	ctx.Request = request

	core, logs := observer.New(zapcore.DebugLevel)
	handler := &httpHandler{
		sessions: stubSessionValidator{validateErr: auth.ErrInvalidSessionToken},
		logger:   zap.New(core),
	}

	handler.authorizeRequest(ctx)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status code: got %d, want %d", recorder.Code, http.StatusUnauthorized)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level for unexpected error, got %s", entries[0].Level)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	server := newTestServer(t)

	recorder := server.do(t, http.MethodGet, "/books", "", nil)
	expectStatus(t, recorder, http.StatusUnauthorized)

	recorder = server.do(t, http.MethodGet, "/healthz", "", nil)
	expectStatus(t, recorder, http.StatusOK)
}

func TestSessionCookieAndQueryTokenAreAccepted(t *testing.T) {
	server := newTestServer(t)
	token := server.token(t, "reader-1", "Reader")

	request := httptest.NewRequest(http.MethodGet, "/books", http.NoBody)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	recorder := httptest.NewRecorder()
	server.handler.ServeHTTP(recorder, request)
	expectStatus(t, recorder, http.StatusOK)

	request = httptest.NewRequest(http.MethodGet, "/books?access_token="+token, http.NoBody)
	recorder = httptest.NewRecorder()
	server.handler.ServeHTTP(recorder, request)
	expectStatus(t, recorder, http.StatusOK)
}

type stubSessionValidator struct {
	claims      auth.SessionClaims
	validateErr error
}

func (s stubSessionValidator) ValidateRequest(*http.Request) (auth.SessionClaims, error) {
	return s.claims, s.validateErr
}

func (s stubSessionValidator) ValidateToken(string) (auth.SessionClaims, error) {
	return s.claims, s.validateErr
}
