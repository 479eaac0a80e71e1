// internal/domain/favorite/service.go
package favorite

import (
	"context"

	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrFavoriteNotFound is returned when a favorite lookup misses.
	ErrFavoriteNotFound = apperr.NotFound("favorite not found")

	// ErrAlreadyFavorited is returned when the user/book pair is already
	// marked.
	ErrAlreadyFavorited = apperr.BusinessRule("book already favorited")
)

// CatalogReader resolves books by their public identifier.
type CatalogReader interface {
	GetByUUID(ctx context.Context, bookUUID string) (*book.Book, error)
}

// UserResolver resolves users by their public identifier.
type UserResolver interface {
	ResolveByUUID(ctx context.Context, userUUID string) (*user.User, error)
}

// Service manages per-user saved books
type Service struct {
	db      *gorm.DB
	catalog CatalogReader
	users   UserResolver
}

// NewService creates a new favorite service
func NewService(db *gorm.DB, catalog CatalogReader, users UserResolver) *Service {
	return &Service{db: db, catalog: catalog, users: users}
}

// Add marks a book as a favorite. The unique (user_id, book_id) index
// arbitrates concurrent adds; the loser surfaces as an already-favorited
// violation rather than a second row.
func (s *Service) Add(ctx context.Context, userUUID, bookUUID string) (*Favorite, error) {
	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	b, err := s.catalog.GetByUUID(ctx, bookUUID)
	if err != nil {
		return nil, err
	}

	fav := Favorite{UserID: u.ID, BookID: b.ID}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoNothing: true,
		}).
		Create(&fav)
	if res.Error != nil {
		return nil, apperr.Upstream("failed to add favorite", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyFavorited
	}

	var out Favorite
	err = s.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ? AND book_id = ?", u.ID, b.ID).
		First(&out).Error
	if err != nil {
		return nil, apperr.Upstream("failed to retrieve favorite", err)
	}
	return &out, nil
}

// Remove unmarks a favorite
func (s *Service) Remove(ctx context.Context, userUUID, bookUUID string) error {
	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return err
	}
	b, err := s.catalog.GetByUUID(ctx, bookUUID)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", u.ID, b.ID).
		Delete(&Favorite{})
	if res.Error != nil {
		return apperr.Upstream("failed to remove favorite", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// List returns a user's favorites, newest first
func (s *Service) List(ctx context.Context, userUUID string) ([]Favorite, error) {
	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	var favorites []Favorite
	err = s.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", u.ID).
		Order("created_at DESC, id DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, apperr.Upstream("failed to list favorites", err)
	}
	return favorites, nil
}
