package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/swaroski/ai-shelves/internal/library"
)

const (
	resourceBook      = "book"
	resourceBorrowing = "borrowing"
)

type checkoutRequestPayload struct {
	Borrower string `json:"borrower"`
	DueDate  string `json:"dueDate"`
}

func (h *httpHandler) handleListBooks(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	books, err := h.library.ListAll(c.Request.Context(), scope)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *httpHandler) handleSearchBooks(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	books, err := h.library.Search(c.Request.Context(), scope, c.Query("q"), c.Query("genre"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

func (h *httpHandler) handleGetBook(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	book, found, err := h.library.Get(c.Request.Context(), scope, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *httpHandler) handleAddBook(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	var input library.BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	book, err := h.library.Add(c.Request.Context(), scope, currentUserID(c), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.publishLibraryChange(scope, resourceBook, book.ID)
	c.JSON(http.StatusCreated, book)
}

func (h *httpHandler) handleUpdateBook(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	var patch library.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	book, found, err := h.library.Update(c.Request.Context(), scope, currentUserID(c), c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
		return
	}
	h.publishLibraryChange(scope, resourceBook, book.ID)
	c.JSON(http.StatusOK, book)
}

func (h *httpHandler) handleDeleteBook(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	id := c.Param("id")
	deleted, err := h.library.Delete(c.Request.Context(), scope, currentUserID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
		return
	}
	h.publishLibraryChange(scope, resourceBook, id)
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleCheckOut(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	var request checkoutRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	id := c.Param("id")
	borrower := strings.TrimSpace(request.Borrower)
	checkedOut, err := h.library.CheckOut(c.Request.Context(), scope, currentUserID(c), id, borrower, strings.TrimSpace(request.DueDate))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !checkedOut {
		c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
		return
	}
	h.publishLibraryChange(scope, resourceBorrowing, id)
	c.JSON(http.StatusOK, gin.H{"bookId": id, "checkedOut": true})
}

func (h *httpHandler) handleCheckIn(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	id := c.Param("id")
	checkedIn, err := h.library.CheckIn(c.Request.Context(), scope, currentUserID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !checkedIn {
		c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
		return
	}
	h.publishLibraryChange(scope, resourceBorrowing, id)
	c.JSON(http.StatusOK, gin.H{"bookId": id, "checkedIn": true})
}

func (h *httpHandler) handleListBorrowings(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	records, err := h.library.ListBorrowings(c.Request.Context(), scope)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrowings": records})
}

func (h *httpHandler) handleStats(c *gin.Context) {
	scope, ok := h.resolveScope(c)
	if !ok {
		return
	}
	stats, err := h.library.Stats(c.Request.Context(), scope)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
