// internal/domain/book/service.go
package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// ErrBookNotFound is returned when a catalog lookup misses.
var ErrBookNotFound = apperr.NotFound("book not found")

// Service handles catalog reads. Catalog writes belong to the external
// catalog pipeline, so there is no create/update surface here.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new book service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents catalog list query parameters
type ListRequest struct {
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=20"`
	Genre string `form:"genre"`
}

// ListResponse represents a page of the catalog
type ListResponse struct {
	Books []Book `json:"books"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total int64  `json:"total"`
}

// GetByID returns a book by its internal id
func (s *Service) GetByID(ctx context.Context, id uint) (*Book, error) {
	var b Book
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, apperr.Upstream("failed to retrieve book", err)
	}
	return &b, nil
}

// GetByUUID returns a book by its public identifier
func (s *Service) GetByUUID(ctx context.Context, bookUUID string) (*Book, error) {
	if bookUUID == "" {
		return nil, apperr.Validation("invalid book id")
	}

	var b Book
	err := s.db.WithContext(ctx).Where("uuid = ?", bookUUID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, apperr.Upstream("failed to retrieve book", err)
	}
	return &b, nil
}

// List returns a page of the catalog. No free-text search; the storefront's
// search service owns that concern.
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Book{})
	if req.Genre != "" {
		query = query.Where("genre = ?", req.Genre)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Upstream("failed to count books", err)
	}

	var books []Book
	offset := (req.Page - 1) * req.Limit
	err := query.Order("title ASC").Offset(offset).Limit(req.Limit).Find(&books).Error
	if err != nil {
		return nil, apperr.Upstream(fmt.Sprintf("failed to list books (page %d)", req.Page), err)
	}

	return &ListResponse{
		Books: books,
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	}, nil
}
