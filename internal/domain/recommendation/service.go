// internal/domain/recommendation/service.go
package recommendation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
)

const (
	// Sorted set of book ids scored by interaction count, per user.
	userInteractionsKey = "recs:user:%d:books"
	// Global popularity sorted set shared by all users.
	popularBooksKey = "recs:popular:books"
)

// Service records shopping interactions in Redis and serves simple
// popularity-based recommendations from them. Recording is best-effort
// and never blocks the write path that triggered it.
type Service struct {
	redis *redis.Client
	log   *logrus.Logger
}

// NewService creates a new recommendation service
func NewService(client *redis.Client, log *logrus.Logger) *Service {
	return &Service{redis: client, log: log}
}

// RecordInteraction bumps the interaction score for a book, both for the
// acting user and globally. Satisfies the cart package's recorder hook.
func (s *Service) RecordInteraction(ctx context.Context, bookID, userID uint) error {
	member := strconv.FormatUint(uint64(bookID), 10)

	pipe := s.redis.Pipeline()
	pipe.ZIncrBy(ctx, fmt.Sprintf(userInteractionsKey, userID), 1, member)
	pipe.ZIncrBy(ctx, popularBooksKey, 1, member)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Upstream("failed to record interaction", err)
	}
	return nil
}

// PopularBooks returns the globally most-interacted book ids, best first
func (s *Service) PopularBooks(ctx context.Context, limit int) ([]uint, error) {
	if limit < 1 {
		limit = 10
	}

	members, err := s.redis.ZRevRange(ctx, popularBooksKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperr.Upstream("failed to retrieve popular books", err)
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			s.log.WithField("member", m).Warn("Skipping malformed recommendation entry")
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// UserTopBooks returns the books a user interacted with most, best first
func (s *Service) UserTopBooks(ctx context.Context, userID uint, limit int) ([]uint, error) {
	if limit < 1 {
		limit = 10
	}

	members, err := s.redis.ZRevRange(ctx, fmt.Sprintf(userInteractionsKey, userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperr.Upstream("failed to retrieve user interactions", err)
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
