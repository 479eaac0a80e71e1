// internal/domain/book/entity.go
package book

import (
	"time"
)

// Book represents a catalog entry. The catalog is owned by an external
// pipeline; from the cart subsystem's perspective these rows are read-only.
type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UUID          string    `gorm:"uniqueIndex;not null;size:36" json:"uuid"`
	Title         string    `gorm:"not null;size:255" json:"title"`
	Author        string    `gorm:"size:255" json:"author"`
	Genre         string    `gorm:"size:100" json:"genre"`
	Publisher     string    `gorm:"size:255" json:"publisher"`
	Synopsis      string    `gorm:"type:text" json:"synopsis"`
	CoverURL      string    `gorm:"size:500" json:"cover_url"`
	Price         int64     `gorm:"not null" json:"price"` // In cents
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Book) TableName() string {
	return "books"
}
