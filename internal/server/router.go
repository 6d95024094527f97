package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/swaroski/ai-shelves/internal/auth"
	"github.com/swaroski/ai-shelves/internal/favorites"
	"github.com/swaroski/ai-shelves/internal/insights"
	"github.com/swaroski/ai-shelves/internal/kvstore"
	"github.com/swaroski/ai-shelves/internal/library"
	"github.com/swaroski/ai-shelves/internal/users"
	"github.com/swaroski/ai-shelves/internal/workspaces"
	"go.uber.org/zap"
)

const (
	userIDContextKey      = "shelves_user_id"
	userClaimsContextKey  = "shelves_user_claims"
	workspaceIDQueryParam = "workspaceId"
	accessTokenQueryParam = "access_token"
)

var (
	errMissingSessionValidator = errors.New("session validator dependency required")
	errMissingUserDirectory    = errors.New("user directory dependency required")
	errMissingLibraryService   = errors.New("library service dependency required")
	errMissingFavoritesService = errors.New("favorites service dependency required")
	errMissingWorkspaceService = errors.New("workspace service dependency required")
	errMissingCatalogSource    = errors.New("catalog source dependency required")
	errMissingInsightsService  = errors.New("insights service dependency required")
)

// SessionValidator authenticates requests.
type SessionValidator interface {
	ValidateRequest(r *http.Request) (auth.SessionClaims, error)
	ValidateToken(token string) (auth.SessionClaims, error)
}

// UserDirectory maps session claims onto canonical users.
type UserDirectory interface {
	ResolveCanonicalUserID(ctx context.Context, claims auth.SessionClaims) (string, error)
	Profile(ctx context.Context, userID string) (users.Identity, error)
}

// CatalogSource serves books from the external catalog. Calls never fail.
type CatalogSource interface {
	PopularBooks(ctx context.Context) []library.Book
	Search(ctx context.Context, query string, limit int) []library.Book
	TrendingBooks(ctx context.Context) []library.Book
}

// GeminiKeyStore persists the generative-text API key supplied at runtime.
type GeminiKeyStore interface {
	APIKey(ctx context.Context) (string, error)
	Save(ctx context.Context, apiKey string) error
}

type Dependencies struct {
	Sessions       SessionValidator
	Users          UserDirectory
	Library        *library.Service
	Favorites      *favorites.Service
	Workspaces     *workspaces.Service
	Catalog        CatalogSource
	Insights       *insights.Service
	GeminiKeys     GeminiKeyStore
	Realtime       *RealtimeDispatcher
	AllowedOrigins []string
	// Operators are the canonical user ids allowed to change server-wide settings.
	Operators []string
	Clock     func() time.Time
	Logger    *zap.Logger
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	switch {
	case deps.Sessions == nil:
		return nil, errMissingSessionValidator
	case deps.Users == nil:
		return nil, errMissingUserDirectory
	case deps.Library == nil:
		return nil, errMissingLibraryService
	case deps.Favorites == nil:
		return nil, errMissingFavoritesService
	case deps.Workspaces == nil:
		return nil, errMissingWorkspaceService
	case deps.Catalog == nil:
		return nil, errMissingCatalogSource
	case deps.Insights == nil:
		return nil, errMissingInsightsService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	realtime := deps.Realtime
	if realtime == nil {
		realtime = NewRealtimeDispatcher()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(deps.AllowedOrigins...))

	handler := &httpHandler{
		sessions:   deps.Sessions,
		users:      deps.Users,
		library:    deps.Library,
		favorites:  deps.Favorites,
		workspaces: deps.Workspaces,
		catalog:    deps.Catalog,
		insights:   deps.Insights,
		geminiKeys: deps.GeminiKeys,
		realtime:   realtime,
		operators:  operatorSet(deps.Operators),
		clock:      clock,
		logger:     logger,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/")
	protected.Use(handler.authorizeRequest)

	protected.GET("/books", handler.handleListBooks)
	protected.POST("/books", handler.handleAddBook)
	protected.GET("/books/search", handler.handleSearchBooks)
	protected.GET("/books/:id", handler.handleGetBook)
	protected.PATCH("/books/:id", handler.handleUpdateBook)
	protected.DELETE("/books/:id", handler.handleDeleteBook)
	protected.POST("/books/:id/checkout", handler.handleCheckOut)
	protected.POST("/books/:id/checkin", handler.handleCheckIn)
	protected.POST("/books/:id/summary", handler.handleBookSummary)
	protected.GET("/borrowings", handler.handleListBorrowings)
	protected.GET("/stats", handler.handleStats)

	protected.GET("/catalog/popular", handler.handleCatalogPopular)
	protected.GET("/catalog/trending", handler.handleCatalogTrending)
	protected.GET("/catalog/search", handler.handleCatalogSearch)
	protected.POST("/catalog/import", handler.handleCatalogImport)

	protected.GET("/favorites", handler.handleListFavorites)
	protected.DELETE("/favorites", handler.handleClearFavorites)
	protected.GET("/favorites/count", handler.handleCountFavorites)
	protected.POST("/favorites/:bookId/toggle", handler.handleToggleFavorite)

	protected.GET("/workspaces", handler.handleListWorkspaces)
	protected.POST("/workspaces", handler.handleCreateWorkspace)
	protected.GET("/workspaces/:id", handler.handleGetWorkspace)
	protected.PATCH("/workspaces/:id", handler.handleUpdateWorkspace)
	protected.DELETE("/workspaces/:id", handler.handleDeleteWorkspace)
	protected.GET("/workspaces/:id/members", handler.handleListMembers)
	protected.POST("/workspaces/:id/members", handler.handleAddMember)
	protected.PATCH("/workspaces/:id/members/:userId", handler.handleUpdateMember)
	protected.DELETE("/workspaces/:id/members/:userId", handler.handleRemoveMember)
	protected.GET("/workspaces/:id/activities", handler.handleListActivities)
	protected.GET("/workspaces/:id/invitations", handler.handleListInvitations)
	protected.POST("/workspaces/:id/invitations", handler.handleCreateInvitation)
	protected.PATCH("/workspaces/:id/invitations/:invitationId", handler.handleUpdateInvitation)
	protected.POST("/invitations/expire", handler.requireOperator, handler.handleExpireInvitations)

	protected.GET("/insights", handler.handleInsights)
	protected.GET("/recommendations", handler.handleRecommendations)
	if deps.GeminiKeys != nil {
		protected.GET("/settings/gemini-key", handler.handleGeminiKeyStatus)
		protected.PUT("/settings/gemini-key", handler.requireOperator, handler.handleSaveGeminiKey)
	}

	protected.GET("/events", handler.handleEvents)

	return router, nil
}

func corsMiddleware(allowedOrigins ...string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Last-Event-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		config.AllowOrigins = allowedOrigins
	} else {
		config.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(config)
}

type httpHandler struct {
	sessions   SessionValidator
	users      UserDirectory
	library    *library.Service
	favorites  *favorites.Service
	workspaces *workspaces.Service
	catalog    CatalogSource
	insights   *insights.Service
	geminiKeys GeminiKeyStore
	realtime   *RealtimeDispatcher
	operators  map[string]struct{}
	clock      func() time.Time
	logger     *zap.Logger
}

func (h *httpHandler) authorizeRequest(c *gin.Context) {
	claims, err := h.sessions.ValidateRequest(c.Request)
	if errors.Is(err, auth.ErrMissingSessionToken) {
		if token := strings.TrimSpace(c.Query(accessTokenQueryParam)); token != "" {
			claims, err = h.sessions.ValidateToken(token)
		}
	}
	if err != nil {
		if errors.Is(err, auth.ErrExpiredSessionToken) || errors.Is(err, auth.ErrMissingSessionToken) {
			h.logger.Info("session validation failed", zap.Error(err))
		} else {
			h.logger.Warn("session validation failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, err := h.users.ResolveCanonicalUserID(c.Request.Context(), claims)
	if err != nil {
		if errors.Is(err, users.ErrInvalidIdentity) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		h.logger.Error("failed to resolve user identity", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "identity_resolution_failed"})
		return
	}
	c.Set(userIDContextKey, userID)
	c.Set(userClaimsContextKey, claims)
	c.Next()
}

func operatorSet(userIDs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if trimmed := strings.TrimSpace(userID); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// requireOperator guards server-wide settings. With no operators configured nobody passes.
func (h *httpHandler) requireOperator(c *gin.Context) {
	if _, ok := h.operators[currentUserID(c)]; !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission_denied"})
		return
	}
	c.Next()
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDContextKey)
}

// displayName prefers the stored profile and falls back to the session claims.
func (h *httpHandler) displayName(c *gin.Context) string {
	profile, err := h.users.Profile(c.Request.Context(), currentUserID(c))
	if err == nil && profile.Label() != "" {
		return profile.Label()
	}
	if value, ok := c.Get(userClaimsContextKey); ok {
		if claims, ok := value.(auth.SessionClaims); ok {
			return strings.TrimSpace(claims.UserDisplayName)
		}
	}
	return ""
}

// resolveScope reads the workspace query parameter and checks read access. It writes the
// error response itself and reports false when the request must stop.
func (h *httpHandler) resolveScope(c *gin.Context) (library.Scope, bool) {
	workspaceID := strings.TrimSpace(c.Query(workspaceIDQueryParam))
	if workspaceID == "" {
		return library.GlobalScope(), true
	}
	if _, ok := h.requireWorkspaceRole(c, workspaceID, workspaces.CanViewBooks); !ok {
		return library.Scope{}, false
	}
	return library.WorkspaceScope(workspaceID), true
}

// requireWorkspaceRole answers 404 for unknown workspaces and 403 when the caller's role
// lacks the capability.
func (h *httpHandler) requireWorkspaceRole(c *gin.Context, workspaceID string, allowed func(workspaces.Role) bool) (workspaces.Role, bool) {
	ctx := c.Request.Context()
	if _, found, err := h.workspaces.GetWorkspace(ctx, workspaceID); err != nil {
		h.writeError(c, err)
		return "", false
	} else if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace_not_found"})
		return "", false
	}
	role, member, err := h.workspaces.MemberRole(ctx, workspaceID, currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return "", false
	}
	if !member || !allowed(role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission_denied"})
		return "", false
	}
	return role, true
}

type codedError interface {
	Code() string
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, library.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, library.ErrInvalidBook),
		errors.Is(err, library.ErrInvalidCheckout),
		errors.Is(err, favorites.ErrInvalidFavorite),
		errors.Is(err, workspaces.ErrInvalidWorkspace),
		errors.Is(err, workspaces.ErrInvalidMember),
		errors.Is(err, workspaces.ErrInvalidInvitation),
		errors.Is(err, workspaces.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, kvstore.ErrQuotaExceeded):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func (h *httpHandler) writeError(c *gin.Context, err error) {
	status := errorStatus(err)
	code := "internal_error"
	var coded codedError
	if errors.As(err, &coded) {
		code = coded.Code()
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("code", code),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": code})
}

func (h *httpHandler) publish(topic, eventType, workspaceID, resource string, resourceIDs ...string) {
	h.realtime.Publish(RealtimeMessage{
		Topic:       topic,
		EventType:   eventType,
		WorkspaceID: workspaceID,
		Resource:    resource,
		ResourceIDs: resourceIDs,
		Timestamp:   h.clock().UTC(),
	})
}

func (h *httpHandler) publishLibraryChange(scope library.Scope, resource string, resourceIDs ...string) {
	h.publish(workspaceTopic(scope.WorkspaceID), RealtimeEventLibraryChanged, scope.WorkspaceID, resource, resourceIDs...)
}
