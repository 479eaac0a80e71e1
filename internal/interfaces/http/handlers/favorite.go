// internal/interfaces/http/handlers/favorite.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/favorite"
)

// FavoriteHandler handles favorite endpoints
type FavoriteHandler struct {
	favoriteService *favorite.Service
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *favorite.Service) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

// Add handles POST /favorites/:userId/:bookId
func (h *FavoriteHandler) Add(c *gin.Context) {
	added, err := h.favoriteService.Add(c.Request.Context(), c.Param("userId"), c.Param("bookId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Favorite added successfully", added)
}

// Remove handles DELETE /favorites/:userId/:bookId
func (h *FavoriteHandler) Remove(c *gin.Context) {
	err := h.favoriteService.Remove(c.Request.Context(), c.Param("userId"), c.Param("bookId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Favorite removed successfully", nil)
}

// List handles GET /favorites/:userId
func (h *FavoriteHandler) List(c *gin.Context) {
	favorites, err := h.favoriteService.List(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Favorites retrieved successfully", favorites)
}
