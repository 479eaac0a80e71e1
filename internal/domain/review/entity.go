// internal/domain/review/entity.go
package review

import (
	"time"
)

// Review is a user's rating and optional comment on a book. One review
// per user/book pair; resubmitting replaces the previous review.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_book"`
	BookID    uint      `json:"book_id" gorm:"not null;uniqueIndex:idx_reviews_user_book"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for Review model
func (Review) TableName() string {
	return "reviews"
}
