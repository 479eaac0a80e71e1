// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogReader resolves books; read-only collaborator owned by the catalog.
type CatalogReader interface {
	GetByUUID(ctx context.Context, bookUUID string) (*book.Book, error)
}

// UserResolver resolves users by their public identifier.
type UserResolver interface {
	ResolveByUUID(ctx context.Context, userUUID string) (*user.User, error)
}

// InteractionRecorder receives add-to-cart interactions for the
// recommendation pipeline. Fire-and-forget: failures never affect the cart.
type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, bookID, userID uint) error
}

// Service is the cart aggregate manager: it resolves the per-user cart,
// orchestrates line-item mutations and is the sole writer of the cached
// cart total. Every mutation runs in one transaction; the total is written
// exclusively through atomic increments, so concurrent mutations of the
// same cart cannot lose updates and different carts never contend.
type Service struct {
	db      *gorm.DB
	config  *config.Config
	log     *logrus.Logger
	items   *ItemStore
	catalog CatalogReader
	users   UserResolver
	recs    InteractionRecorder
}

// NewService creates a new cart service. recs may be nil when no
// recommendation sink is configured.
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger, catalog CatalogReader, users UserResolver, recs InteractionRecorder) *Service {
	return &Service{
		db:      db,
		config:  cfg,
		log:     log,
		items:   NewItemStore(),
		catalog: catalog,
		users:   users,
		recs:    recs,
	}
}

// AddItem adds quantity units of a book to the user's cart, creating the
// cart on first use, and returns the refreshed cart.
func (s *Service) AddItem(ctx context.Context, userUUID, bookUUID string, quantity int) (*Cart, error) {
	if userUUID == "" {
		return nil, apperr.Validation("invalid user id")
	}
	if bookUUID == "" {
		return nil, apperr.Validation("invalid book id")
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	b, err := s.catalog.GetByUUID(ctx, bookUUID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.getOrCreateCart(tx, u.ID)
		if err != nil {
			return err
		}
		if _, err := s.items.Add(tx, c.ID, b, quantity); err != nil {
			return err
		}
		return s.applyTotalDelta(tx, c.ID, int64(quantity)*b.Price)
	})
	if err != nil {
		return nil, err
	}

	s.notifyInteraction(b.ID, u.ID)

	return s.cartForUser(ctx, u.ID)
}

// RemoveItem decrements a line item's quantity and the cart total, and
// returns the refreshed cart. Removing all remaining units is rejected;
// that path goes through DeleteItem.
func (s *Service) RemoveItem(ctx context.Context, userUUID string, itemID uint, quantity int) (*Cart, error) {
	if userUUID == "" {
		return nil, apperr.Validation("invalid user id")
	}
	if itemID == 0 {
		return nil, apperr.Validation("invalid cart item id")
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.findCart(tx, u.ID)
		if err != nil {
			return err
		}
		item, err := s.items.FindForCart(tx, c.ID, itemID)
		if err != nil {
			return err
		}
		if _, err := s.items.Remove(tx, item, quantity); err != nil {
			return err
		}
		return s.applyTotalDelta(tx, c.ID, -int64(quantity)*item.UnitPrice())
	})
	if err != nil {
		return nil, err
	}

	return s.cartForUser(ctx, u.ID)
}

// DeleteItem deletes a line item outright, deducting its cached line price
// from the cart total, and returns the refreshed cart.
func (s *Service) DeleteItem(ctx context.Context, userUUID string, itemID uint) (*Cart, error) {
	if userUUID == "" {
		return nil, apperr.Validation("invalid user id")
	}
	if itemID == 0 {
		return nil, apperr.Validation("invalid cart item id")
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.findCart(tx, u.ID)
		if err != nil {
			return err
		}
		item, err := s.items.FindForCart(tx, c.ID, itemID)
		if err != nil {
			return err
		}
		if err := s.applyTotalDelta(tx, c.ID, -item.Price); err != nil {
			return err
		}
		return s.items.Delete(tx, item.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.cartForUser(ctx, u.ID)
}

// GetCart returns the user's cart with all line items, each enriched with
// the book's display data.
func (s *Service) GetCart(ctx context.Context, userUUID string) (*Cart, error) {
	if userUUID == "" {
		return nil, apperr.Validation("invalid user id")
	}

	u, err := s.users.ResolveByUUID(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	return s.cartForUser(ctx, u.ID)
}

// Private helpers

// getOrCreateCart resolves the user's cart, creating it lazily. The insert
// uses ON CONFLICT DO NOTHING on the user_id unique index so concurrent
// first adds converge on a single cart row.
func (s *Service) getOrCreateCart(tx *gorm.DB, userID uint) (*Cart, error) {
	var c Cart
	err := tx.Where("user_id = ?", userID).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Upstream("failed to retrieve cart", err)
	}

	seed := Cart{UserID: userID}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&seed).Error
	if err != nil {
		return nil, apperr.Upstream("failed to create cart", err)
	}

	if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, apperr.Upstream("failed to reload cart", err)
	}
	return &c, nil
}

func (s *Service) findCart(tx *gorm.DB, userID uint) (*Cart, error) {
	var c Cart
	err := tx.Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, apperr.Upstream("failed to retrieve cart", err)
	}
	return &c, nil
}

// applyTotalDelta is the only write path for the cached total. The delta is
// applied inside the database so no stale in-process value is ever written
// back.
func (s *Service) applyTotalDelta(tx *gorm.DB, cartID uint, delta int64) error {
	res := tx.Model(&Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_price": gorm.Expr("total_price + ?", delta),
		})
	if res.Error != nil {
		return apperr.Upstream("failed to update cart total", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (s *Service) cartForUser(ctx context.Context, userID uint) (*Cart, error) {
	var c Cart
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		Preload("Items.Book").
		Where("user_id = ?", userID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, apperr.Upstream("failed to retrieve cart", err)
	}
	return &c, nil
}

// notifyInteraction forwards the add to the recommendation sink without
// blocking or failing the request.
func (s *Service) notifyInteraction(bookID, userID uint) {
	if s.recs == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.recs.RecordInteraction(ctx, bookID, userID); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"book_id": bookID,
				"user_id": userID,
			}).Warn("Failed to record cart interaction")
		}
	}()
}
