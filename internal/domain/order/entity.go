// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/bookstore-backend/internal/domain/book"
)

// OrderStatus represents the order status. Transitions after PENDING are
// driven by the external fulfillment process.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is the immutable record of a completed checkout. Except for status
// transitions, nothing here changes after assembly; the financial figures
// and line items are frozen snapshots of the cart at checkout time.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	CartID      uint   `gorm:"not null" json:"cart_id"`

	// Opaque references owned by external collaborators
	AddressID        uint   `json:"address_id"`
	PaymentMethod    string `gorm:"size:50" json:"payment_method"`
	PaymentReference string `gorm:"size:100" json:"payment_reference"`

	// Financial figures in cents
	Subtotal int64 `gorm:"not null" json:"subtotal"`
	Shipping int64 `gorm:"not null" json:"shipping"`
	Total    int64 `gorm:"not null" json:"total"`

	Status    OrderStatus `gorm:"not null;default:'PENDING';size:20" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a frozen copy of one cart line item at checkout time. Later
// catalog price changes must never be visible here.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	BookID     uint      `gorm:"not null;index" json:"book_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`  // Per unit in cents
	TotalPrice int64     `gorm:"not null" json:"total_price"` // Quantity * UnitPrice
	CreatedAt  time.Time `json:"created_at"`

	Book *book.Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// TableName overrides the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// CanTransitionTo reports whether the fulfillment status change is legal
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	switch o.Status {
	case OrderStatusPending:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}
