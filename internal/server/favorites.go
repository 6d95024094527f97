package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const resourceFavorite = "favorite"

func (h *httpHandler) handleListFavorites(c *gin.Context) {
	userID := currentUserID(c)
	favorites, err := h.favorites.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	bookIDs := make([]string, 0, len(favorites))
	for _, favorite := range favorites {
		bookIDs = append(bookIDs, favorite.BookID)
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites, "bookIds": bookIDs})
}

func (h *httpHandler) handleCountFavorites(c *gin.Context) {
	count, err := h.favorites.CountFor(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *httpHandler) handleToggleFavorite(c *gin.Context) {
	userID := currentUserID(c)
	bookID := c.Param("bookId")
	result, err := h.favorites.Toggle(c.Request.Context(), userID, bookID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.publish(userTopic(userID), RealtimeEventFavoritesChanged, "", resourceFavorite, bookID)
	c.JSON(http.StatusOK, result)
}

func (h *httpHandler) handleClearFavorites(c *gin.Context) {
	userID := currentUserID(c)
	if err := h.favorites.ClearUser(c.Request.Context(), userID); err != nil {
		h.writeError(c, err)
		return
	}
	h.publish(userTopic(userID), RealtimeEventFavoritesChanged, "", resourceFavorite)
	c.Status(http.StatusNoContent)
}
