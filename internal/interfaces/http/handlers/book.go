// internal/interfaces/http/handlers/book.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/recommendation"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *book.Service
	recs        *recommendation.Service
}

// NewBookHandler creates a new book handler. recs may be nil when Redis
// is not configured.
func NewBookHandler(bookService *book.Service, recs *recommendation.Service) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		recs:        recs,
	}
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	var req book.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.bookService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Books retrieved successfully", resp)
}

// Get handles GET /books/:uuid
func (h *BookHandler) Get(c *gin.Context) {
	found, err := h.bookService.GetByUUID(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Book retrieved successfully", found)
}

// Popular handles GET /books/popular
func (h *BookHandler) Popular(c *gin.Context) {
	if h.recs == nil {
		respondOK(c, http.StatusOK, "Popular books retrieved successfully", []book.Book{})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	ids, err := h.recs.PopularBooks(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	// Preserve popularity order when resolving ids to books
	books := make([]book.Book, 0, len(ids))
	for _, id := range ids {
		b, err := h.bookService.GetByID(c.Request.Context(), id)
		if err != nil {
			continue
		}
		books = append(books, *b)
	}

	respondOK(c, http.StatusOK, "Popular books retrieved successfully", books)
}
