// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/bookstore-backend/internal/domain/book"
)

// Cart represents a user's shopping cart. One row per user, created lazily
// on the first add and kept (emptied) across orders. TotalPrice is a cached
// aggregate: it must equal the sum of the line-item prices after every
// committed mutation, and it is only ever written through atomic increments.
type Cart struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPrice int64     `gorm:"not null;default:0" json:"total_price"` // In cents
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// TableName overrides the table name
func (Cart) TableName() string {
	return "carts"
}

// CartItem represents one book-and-quantity entry in a cart. Price is the
// cached line total (quantity x unit price at mutation time), not a live
// computation. Rows are hard-deleted: a soft-deleted row would still occupy
// the (cart_id, book_id) slot the upsert path relies on.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_book" json:"cart_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_book" json:"book_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"` // Cached line total in cents
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Book *book.Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// UnitPrice derives the per-unit price from the cached line total. Decrements
// use this instead of the live catalog price so the cart aggregate stays
// consistent even when the catalog price changed after the add.
func (i *CartItem) UnitPrice() int64 {
	if i.Quantity <= 0 {
		return 0
	}
	return i.Price / int64(i.Quantity)
}
