// internal/domain/review/service.go
package review

import (
	"context"

	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReviewNotFound is returned when a review lookup misses.
var ErrReviewNotFound = apperr.NotFound("review not found")

// CatalogReader resolves books by their public identifier.
type CatalogReader interface {
	GetByUUID(ctx context.Context, bookUUID string) (*book.Book, error)
}

// UserResolver resolves users by their public identifier.
type UserResolver interface {
	ResolveByUUID(ctx context.Context, userUUID string) (*user.User, error)
}

// SubmitReviewRequest carries the rating payload
type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// Service manages book reviews
type Service struct {
	db      *gorm.DB
	catalog CatalogReader
	users   UserResolver
}

// NewService creates a new review service
func NewService(db *gorm.DB, catalog CatalogReader, users UserResolver) *Service {
	return &Service{db: db, catalog: catalog, users: users}
}

// Submit creates or replaces the user's review of a book
func (s *Service) Submit(ctx context.Context, userUUID, bookUUID string, req *SubmitReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	b, err := s.catalog.GetByUUID(ctx, bookUUID)
	if err != nil {
		return nil, err
	}

	rev := Review{
		UserID:  u.ID,
		BookID:  b.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(&rev).Error
	if err != nil {
		return nil, apperr.Upstream("failed to submit review", err)
	}

	var out Review
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", u.ID, b.ID).
		First(&out).Error
	if err != nil {
		return nil, apperr.Upstream("failed to retrieve review", err)
	}
	return &out, nil
}

// ListForBook returns a book's reviews, newest first
func (s *Service) ListForBook(ctx context.Context, bookUUID string) ([]Review, error) {
	b, err := s.catalog.GetByUUID(ctx, bookUUID)
	if err != nil {
		return nil, err
	}

	var reviews []Review
	err = s.db.WithContext(ctx).
		Where("book_id = ?", b.ID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperr.Upstream("failed to list reviews", err)
	}
	return reviews, nil
}

// Delete removes the user's review of a book
func (s *Service) Delete(ctx context.Context, userUUID, bookUUID string) error {
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
		Delete(&Review{})
	if res.Error != nil {
		return apperr.Upstream("failed to delete review", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
