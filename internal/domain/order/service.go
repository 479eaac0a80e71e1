// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound is returned when an order lookup misses.
	ErrOrderNotFound = apperr.NotFound("order not found")

	// ErrEmptyCart is returned at checkout when the user has no cart or the
	// cart holds no line items.
	ErrEmptyCart = apperr.BusinessRule("cart is empty")

	// ErrInvalidStatusTransition is returned for illegal fulfillment moves.
	ErrInvalidStatusTransition = apperr.BusinessRule("invalid order status transition")
)

// UserResolver resolves users by their public identifier.
type UserResolver interface {
	ResolveByUUID(ctx context.Context, userUUID string) (*user.User, error)
}

// ConfirmationSender delivers the post-checkout confirmation. Best-effort:
// a failed mail never fails the order.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, u *user.User, o *Order) error
}

// Service is the order assembler: it converts a populated cart into a
// persisted, immutable order and empties the cart. The order insert, the
// item snapshots, the cart drain and the cart total reset commit or fail
// as one transaction; a conflict mid-assembly leaves the cart untouched.
type Service struct {
	db     *gorm.DB
	config *config.Config
	log    *logrus.Logger
	items  *cart.ItemStore
	users  UserResolver
	mailer ConfirmationSender
}

// NewService creates a new order service. mailer may be nil when no SMTP
// is configured.
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger, users UserResolver, mailer ConfirmationSender) *Service {
	return &Service{
		db:     db,
		config: cfg,
		log:    log,
		items:  cart.NewItemStore(),
		users:  users,
		mailer: mailer,
	}
}

// CreateOrderRequest represents checkout data. Address and payment fields
// are opaque references validated by their owning collaborators.
type CreateOrderRequest struct {
	AddressID        uint   `json:"address_id" binding:"required"`
	PaymentMethod    string `json:"payment_method" binding:"required"`
	PaymentReference string `json:"payment_reference"`
}

// UpdateUserOrdersRequest represents the administrative bulk patch. Only
// whitelisted fields can be touched; orders are otherwise immutable.
type UpdateUserOrdersRequest struct {
	Status    *OrderStatus `json:"status"`
	AddressID *uint        `json:"address_id"`
}

// CreateOrder assembles an order from the user's cart
func (s *Service) CreateOrder(ctx context.Context, userUUID string, req *CreateOrderRequest) (*Order, error) {
	if userUUID == "" {
		return nil, apperr.Validation("invalid user id")
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	var created Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c cart.Cart
		err := tx.Preload("Items").Where("user_id = ?", u.ID).First(&c).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return apperr.Upstream("failed to retrieve cart", err)
		}
		if len(c.Items) == 0 {
			return ErrEmptyCart
		}

		var subtotal int64
		for _, item := range c.Items {
			subtotal += item.Price
		}
		shipping := s.config.Checkout.ShippingFlatRate

		created = Order{
			UserID:           u.ID,
			CartID:           c.ID,
			AddressID:        req.AddressID,
			PaymentMethod:    req.PaymentMethod,
			PaymentReference: req.PaymentReference,
			Subtotal:         subtotal,
			Shipping:         shipping,
			Total:            subtotal + shipping,
			Status:           OrderStatusPending,
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperr.Upstream("failed to create order", err)
		}

		created.OrderNumber = s.generateOrderNumber(created.ID)
		if err := tx.Model(&created).Update("order_number", created.OrderNumber).Error; err != nil {
			return apperr.Upstream("failed to set order number", err)
		}

		for _, item := range c.Items {
			snapshot := OrderItem{
				OrderID:    created.ID,
				BookID:     item.BookID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice(),
				TotalPrice: item.Price,
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				return apperr.Upstream("failed to create order item", err)
			}
		}

		if err := s.items.DeleteAllForCart(tx, c.ID); err != nil {
			return err
		}

		// The cart survives, emptied, for the next purchase
		err = tx.Model(&cart.Cart{}).
			Where("id = ?", c.ID).
			Updates(map[string]interface{}{
				"total_price": 0,
				"updated_at":  time.Now().UTC(),
			}).Error
		if err != nil {
			return apperr.Upstream("failed to reset cart", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	s.notifyConfirmation(u, order)

	return order, nil
}

// GetOrder returns one order with its frozen line items
func (s *Service) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Book").
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, apperr.Upstream("failed to retrieve order", err)
	}
	return &o, nil
}

// GetUserOrders returns all orders for a user, newest first
func (s *Service) GetUserOrders(ctx context.Context, userUUID string) ([]Order, error) {
	if userUUID == "" {
		return nil, apperr.Validation("invalid user id")
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	var orders []Order
	err = s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Book").
		Where("user_id = ?", u.ID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Upstream("failed to list orders", err)
	}
	return orders, nil
}

// UpdateUserOrders bulk-patches all of a user's orders. Kept for parity
// with the administrative surface; per-order changes go through
// UpdateOrderStatus.
func (s *Service) UpdateUserOrders(ctx context.Context, userUUID string, req *UpdateUserOrdersRequest) (int64, error) {
	if userUUID == "" {
		return 0, apperr.Validation("invalid user id")
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		if !isKnownStatus(*req.Status) {
			return 0, apperr.Validation("unknown order status")
		}
		updates["status"] = *req.Status
	}
	if req.AddressID != nil {
		updates["address_id"] = *req.AddressID
	}
	if len(updates) == 0 {
		return 0, apperr.Validation("no updatable fields supplied")
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return 0, err
	}

	res := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("user_id = ?", u.ID).
		Updates(updates)
	if res.Error != nil {
		return 0, apperr.Upstream("failed to update orders", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteUserOrders removes all of a user's orders and their line items
func (s *Service) DeleteUserOrders(ctx context.Context, userUUID string) (int64, error) {
	if userUUID == "" {
		return 0, apperr.Validation("invalid user id")
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return 0, err
	}

	var deleted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&Order{}).Where("user_id = ?", u.ID).Pluck("id", &ids).Error; err != nil {
			return apperr.Upstream("failed to list orders", err)
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("order_id IN ?", ids).Delete(&OrderItem{}).Error; err != nil {
			return apperr.Upstream("failed to delete order items", err)
		}

		res := tx.Where("user_id = ?", u.ID).Delete(&Order{})
		if res.Error != nil {
			return apperr.Upstream("failed to delete orders", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// UpdateOrderStatus applies one fulfillment transition to one order
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uint, status OrderStatus) (*Order, error) {
	if !isKnownStatus(status) {
		return nil, apperr.Validation("unknown order status")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Where("id = ?", orderID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return apperr.Upstream("failed to retrieve order", err)
		}
		if !o.CanTransitionTo(status) {
			return ErrInvalidStatusTransition
		}
		if err := tx.Model(&o).Update("status", status).Error; err != nil {
			return apperr.Upstream("failed to update order status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orderID)
}

// DeleteOrder removes one order and its line items
func (s *Service) DeleteOrder(ctx context.Context, orderID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&OrderItem{}).Error; err != nil {
			return apperr.Upstream("failed to delete order items", err)
		}
		res := tx.Where("id = ?", orderID).Delete(&Order{})
		if res.Error != nil {
			return apperr.Upstream("failed to delete order", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

// Private helpers

func (s *Service) generateOrderNumber(orderID uint) string {
	// Format: ORD-YYYYMMDD-XXXXX
	return fmt.Sprintf("ORD-%s-%05d", time.Now().UTC().Format("20060102"), orderID)
}

func (s *Service) notifyConfirmation(u *user.User, o *Order) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.mailer.SendOrderConfirmation(ctx, u, o); err != nil {
			s.log.WithError(err).WithField("order_number", o.OrderNumber).
				Warn("Failed to send order confirmation")
		}
	}()
}

func isKnownStatus(status OrderStatus) bool {
	switch status {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
