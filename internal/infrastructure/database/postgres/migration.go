// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/favorite"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/review"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log *logrus.Logger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("Running database auto-migrations")

	// Dependency order: base tables first
	models := []interface{}{
		&user.User{},
		&book.Book{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},

		&favorite.Favorite{},
		&review.Review{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes beyond the ones gorm derives
// from struct tags
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_reviews_book_created ON reviews(book_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_books_genre ON books(genre)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.log.WithError(err).Warn("Failed to create index")
		}
	}

	return nil
}

// SeedInitialData inserts development fixtures: a handful of books and a
// test user. Production catalogs arrive through the catalog pipeline, not
// through this seeder.
func (m *Migration) SeedInitialData() error {
	var count int64
	if err := m.db.Model(&book.Book{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count books: %w", err)
	}
	if count > 0 {
		return nil
	}

	m.log.Info("Seeding development data")

	books := []book.Book{
		{
			UUID:          uuid.NewString(),
			Title:         "The Go Programming Language",
			Author:        "Alan A. A. Donovan",
			Genre:         "Programming",
			Publisher:     "Addison-Wesley",
			Price:         3999,
			StockQuantity: 25,
		},
		{
			UUID:          uuid.NewString(),
			Title:         "Designing Data-Intensive Applications",
			Author:        "Martin Kleppmann",
			Genre:         "Programming",
			Publisher:     "O'Reilly",
			Price:         4599,
			StockQuantity: 12,
		},
		{
			UUID:          uuid.NewString(),
			Title:         "The Left Hand of Darkness",
			Author:        "Ursula K. Le Guin",
			Genre:         "Science Fiction",
			Publisher:     "Ace Books",
			Price:         1299,
			StockQuantity: 40,
		},
	}
	if err := m.db.Create(&books).Error; err != nil {
		return fmt.Errorf("failed to seed books: %w", err)
	}

	testUser := user.User{
		UUID:     uuid.NewString(),
		Email:    "reader@bookstore.example",
		Name:     "Test Reader",
		IsActive: true,
	}
	if err := m.db.Create(&testUser).Error; err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	return nil
}
