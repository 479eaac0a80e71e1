// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/pkg/invoice"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService   *order.Service
	invoiceService *invoice.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, invoiceService *invoice.Service) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		invoiceService: invoiceService,
	}
}

// CreateOrder handles POST /orders/:userId
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userUUID := c.Param("userId")

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.orderService.CreateOrder(c.Request.Context(), userUUID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Order created successfully", created)
}

// GetOrder handles GET /orders/id/:orderId
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	found, err := h.orderService.GetOrder(c.Request.Context(), uint(orderID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Order retrieved successfully", found)
}

// GetInvoice handles GET /orders/id/:orderId/invoice
func (h *OrderHandler) GetInvoice(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	found, err := h.orderService.GetOrder(c.Request.Context(), uint(orderID))
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.invoiceService.Generate(found)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	filename := fmt.Sprintf("invoice-%s.pdf", found.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf.Bytes())
}

// UpdateOrderStatusRequest carries the fulfillment transition
type UpdateOrderStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PUT /orders/id/:orderId/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orderService.UpdateOrderStatus(c.Request.Context(), uint(orderID), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Order status updated successfully", updated)
}

// DeleteOrder handles DELETE /orders/id/:orderId
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("orderId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID",
		})
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), uint(orderID)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Order deleted successfully", nil)
}

// ListUserOrders handles GET /orders/user/:userId
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	userUUID := c.Param("userId")

	orders, err := h.orderService.GetUserOrders(c.Request.Context(), userUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// UpdateUserOrders handles PUT /orders/:userId
func (h *OrderHandler) UpdateUserOrders(c *gin.Context) {
	userUUID := c.Param("userId")

	var req order.UpdateUserOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.orderService.UpdateUserOrders(c.Request.Context(), userUUID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders updated successfully", gin.H{"updated": updated})
}

// DeleteUserOrders handles DELETE /orders/:userId
func (h *OrderHandler) DeleteUserOrders(c *gin.Context) {
	userUUID := c.Param("userId")

	deleted, err := h.orderService.DeleteUserOrders(c.Request.Context(), userUUID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Orders deleted successfully", gin.H{"deleted": deleted})
}
