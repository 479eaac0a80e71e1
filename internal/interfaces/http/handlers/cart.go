// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// QuantityRequest carries the quantity for add and remove operations
type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// AddItem handles POST /carts/user/:userId/item/:bookId
func (h *CartHandler) AddItem(c *gin.Context) {
	userUUID := c.Param("userId")
	bookUUID := c.Param("bookId")

	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.cartService.AddItem(c.Request.Context(), userUUID, bookUUID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Item added to cart successfully", updated)
}

// RemoveItem handles PUT /carts/user/:userId/item/:itemId/remove
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userUUID := c.Param("userId")

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.cartService.RemoveItem(c.Request.Context(), userUUID, uint(itemID), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Item quantity reduced successfully", updated)
}

// DeleteItem handles DELETE /carts/user/:userId/item/:itemId
func (h *CartHandler) DeleteItem(c *gin.Context) {
	userUUID := c.Param("userId")

	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item ID",
		})
		return
	}

	updated, err := h.cartService.DeleteItem(c.Request.Context(), userUUID, uint(itemID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Item removed from cart successfully", updated)
}

// GetCart handles GET /carts/user/:userId
func (h *CartHandler) GetCart(c *gin.Context) {
	userUUID := c.Param("userId")

	current, err := h.cartService.GetCart(c.Request.Context(), userUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Cart retrieved successfully", current)
}
