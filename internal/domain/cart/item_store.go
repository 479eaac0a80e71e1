// internal/domain/cart/item_store.go
package cart

import (
	"errors"

	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemStore owns the line-item rows of a cart. Every mutation is expressed
// as a single conditional UPDATE whose guard lives in the WHERE clause, so
// two concurrent mutations of the same row can never interleave a stale
// read-modify-write. Callers supply the transaction handle; the aggregate
// manager decides the transaction boundary.
type ItemStore struct{}

// NewItemStore creates a new line-item store
func NewItemStore() *ItemStore {
	return &ItemStore{}
}

// FindByID returns a line item by id
func (st *ItemStore) FindByID(tx *gorm.DB, id uint) (*CartItem, error) {
	var item CartItem
	err := tx.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineItemNotFound
		}
		return nil, apperr.Upstream("failed to retrieve cart item", err)
	}
	return &item, nil
}

// FindForCart returns a line item by id, scoped to one cart so a caller can
// never reach into another user's cart.
func (st *ItemStore) FindForCart(tx *gorm.DB, cartID, id uint) (*CartItem, error) {
	var item CartItem
	err := tx.Where("id = ? AND cart_id = ?", id, cartID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineItemNotFound
		}
		return nil, apperr.Upstream("failed to retrieve cart item", err)
	}
	return &item, nil
}

// Add increments the line item for (cart, book) by quantity, creating the
// row at quantity zero first so the create and increment paths share one
// update rule. The stock bound (existing + requested <= stock) is enforced
// by the UPDATE's guard; zero rows affected means the bound would be
// violated, and the enclosing transaction rollback discards any freshly
// seeded zero-quantity row.
func (st *ItemStore) Add(tx *gorm.DB, cartID uint, b *book.Book, quantity int) (*CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	seed := CartItem{CartID: cartID, BookID: b.ID, Quantity: 0, Price: 0}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "book_id"}},
		DoNothing: true,
	}).Create(&seed).Error
	if err != nil {
		return nil, apperr.Upstream("failed to create cart item", err)
	}

	res := tx.Model(&CartItem{}).
		Where("cart_id = ? AND book_id = ? AND quantity + ? <= ?",
			cartID, b.ID, quantity, b.StockQuantity).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
			"price":    gorm.Expr("price + ?", int64(quantity)*b.Price),
		})
	if res.Error != nil {
		return nil, apperr.Upstream("failed to update cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInsufficientStock
	}

	var item CartItem
	err = tx.Where("cart_id = ? AND book_id = ?", cartID, b.ID).First(&item).Error
	if err != nil {
		return nil, apperr.Upstream("failed to reload cart item", err)
	}
	return &item, nil
}

// Remove decrements the line item by quantity. The removal must be strictly
// smaller than the current quantity: taking an item to zero goes through
// Delete, so a zero-quantity row can never persist.
func (st *ItemStore) Remove(tx *gorm.DB, item *CartItem, quantity int) (*CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	unitPrice := item.UnitPrice()
	res := tx.Model(&CartItem{}).
		Where("id = ? AND quantity > ?", item.ID, quantity).
		Updates(map[string]interface{}{
			"quantity": gorm.Expr("quantity - ?", quantity),
			"price":    gorm.Expr("price - ?", int64(quantity)*unitPrice),
		})
	if res.Error != nil {
		return nil, apperr.Upstream("failed to update cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrRemoveExceedsQuantity
	}

	var updated CartItem
	if err := tx.Where("id = ?", item.ID).First(&updated).Error; err != nil {
		return nil, apperr.Upstream("failed to reload cart item", err)
	}
	return &updated, nil
}

// Delete removes the line item unconditionally if present
func (st *ItemStore) Delete(tx *gorm.DB, id uint) error {
	res := tx.Where("id = ?", id).Delete(&CartItem{})
	if res.Error != nil {
		return apperr.Upstream("failed to delete cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrLineItemNotFound
	}
	return nil
}

// DeleteAllForCart drains a cart's line items; used by order assembly
func (st *ItemStore) DeleteAllForCart(tx *gorm.DB, cartID uint) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error; err != nil {
		return apperr.Upstream("failed to drain cart items", err)
	}
	return nil
}
