// internal/domain/user/service.go
package user

import (
	"context"
	"errors"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when a user lookup misses or the user is
// deactivated.
var ErrUserNotFound = apperr.NotFound("user not found")

// Service resolves users by their public identifier
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ResolveByUUID returns the active user with the given public id
func (s *Service) ResolveByUUID(ctx context.Context, userUUID string) (*User, error) {
	if userUUID == "" {
		return nil, apperr.Validation("invalid user id")
	}

	var u User
	err := s.db.WithContext(ctx).
		Where("uuid = ? AND is_active = ?", userUUID, true).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Upstream("failed to resolve user", err)
	}
	return &u, nil
}
