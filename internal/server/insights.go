package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/swaroski/ai-shelves/internal/library"
)

type geminiKeyPayload struct {
	APIKey string `json:"apiKey"`
}

func (h *httpHandler) handleInsights(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	books, err := h.library.ListAll(ctx, scope)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.insights.Insights(ctx, books))
}

func (h *httpHandler) handleRecommendations(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	books, err := h.library.ListAll(ctx, scope)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var target *library.Book
	if bookID := strings.TrimSpace(c.Query("bookId")); bookID != "" {
		book, found, err := h.library.Get(ctx, scope, bookID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
			return
		}
		target = &book
	}

	recommendations := h.insights.Recommend(books, target, strings.TrimSpace(c.Query("genre")), limit)
	c.JSON(http.StatusOK, gin.H{"books": recommendations})
}

func (h *httpHandler) handleBookSummary(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	book, found, err := h.library.Get(ctx, scope, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookId": book.ID, "summary": h.insights.Summary(ctx, book)})
}

func (h *httpHandler) handleGeminiKeyStatus(c *gin.Context) {
	apiKey, err := h.geminiKeys.APIKey(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configured": strings.TrimSpace(apiKey) != ""})
}

// handleSaveGeminiKey stores the key; an empty key clears it.
func (h *httpHandler) handleSaveGeminiKey(c *gin.Context) {
	var request geminiKeyPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	ctx := c.Request.Context()
	if err := h.geminiKeys.Save(ctx, request.APIKey); err != nil {
		h.writeError(c, err)
		return
	}
	h.handleGeminiKeyStatus(c)
}
