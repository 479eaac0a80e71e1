// internal/domain/favorite/entity.go
package favorite

import (
	"time"

	"github.com/your-org/bookstore-backend/internal/domain/book"
)

// Favorite marks a book as saved by a user. One row per user/book pair.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorites_user_book"`
	BookID    uint      `json:"book_id" gorm:"not null;uniqueIndex:idx_favorites_user_book"`
	CreatedAt time.Time `json:"created_at"`

	Book *book.Book `json:"book,omitempty" gorm:"foreignKey:BookID"`
}

// TableName returns the table name for Favorite model
func (Favorite) TableName() string {
	return "favorites"
}
