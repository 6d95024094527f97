package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/swaroski/ai-shelves/internal/library"
	"go.uber.org/zap"
)

type catalogImportPayload struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (h *httpHandler) handleCatalogPopular(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"books": h.catalog.PopularBooks(c.Request.Context())})
}

func (h *httpHandler) handleCatalogTrending(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"books": h.catalog.TrendingBooks(c.Request.Context())})
}

func (h *httpHandler) handleCatalogSearch(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": h.catalog.Search(c.Request.Context(), c.Query("q"), limit)})
}

// handleCatalogImport replaces the scope's collection with a catalog result.
// An empty query imports the popular list.
func (h *httpHandler) handleCatalogImport(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	var request catalogImportPayload
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	ctx := c.Request.Context()
	var fetched []library.Book
	if query := strings.TrimSpace(request.Query); query != "" {
		fetched = h.catalog.Search(ctx, query, request.Limit)
	} else {
		fetched = h.catalog.PopularBooks(ctx)
	}

	imported, err := h.library.ReplaceAll(ctx, scope, currentUserID(c), fetched)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Info("catalog imported",
		zap.String("workspace_id", scope.WorkspaceID),
		zap.Int("books", len(imported)))
	h.publishLibraryChange(scope, resourceBook)
	c.JSON(http.StatusOK, gin.H{"books": imported})
}

// parseLimit reads an optional non-negative limit query parameter.
func parseLimit(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_limit"})
		return 0, false
	}
	return limit, true
}
