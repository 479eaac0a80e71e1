// internal/interfaces/http/handlers/review.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/review"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *review.Service
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *review.Service) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Submit handles POST /reviews/:userId/:bookId
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req review.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	submitted, err := h.reviewService.Submit(c.Request.Context(), c.Param("userId"), c.Param("bookId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Review submitted successfully", submitted)
}

// ListForBook handles GET /reviews/book/:bookId
func (h *ReviewHandler) ListForBook(c *gin.Context) {
	reviews, err := h.reviewService.ListForBook(c.Request.Context(), c.Param("bookId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Reviews retrieved successfully", reviews)
}

// Delete handles DELETE /reviews/:userId/:bookId
func (h *ReviewHandler) Delete(c *gin.Context) {
	err := h.reviewService.Delete(c.Request.Context(), c.Param("userId"), c.Param("bookId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Review deleted successfully", nil)
}
