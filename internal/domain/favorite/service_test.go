// internal/domain/favorite/service_test.go
package favorite_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/favorite"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db        *gorm.DB
	favorites *favorite.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&book.Book{},
		&favorite.Favorite{},
	))

	cfg := &config.Config{}
	books := book.NewService(db, cfg)
	users := user.NewService(db, cfg)

	return &fixture{
		db:        db,
		favorites: favorite.NewService(db, books, users),
	}
}

func (f *fixture) seedUser(t *testing.T) *user.User {
	t.Helper()
	u := &user.User{
		UUID:     uuid.NewString(),
		Email:    uuid.NewString() + "@example.com",
		Name:     "Test Reader",
		IsActive: true,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) seedBook(t *testing.T) *book.Book {
	t.Helper()
	b := &book.Book{
		UUID:          uuid.NewString(),
		Title:         "Seeded Title",
		Author:        "Seeded Author",
		Genre:         "fiction",
		Price:         1000,
		StockQuantity: 5,
	}
	require.NoError(t, f.db.Create(b).Error)
	return b
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the favorite with book data", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t)

		fav, err := f.favorites.Add(ctx, u.UUID, b.UUID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, fav.BookID)
		require.NotNil(t, fav.Book)
		assert.Equal(t, b.Title, fav.Book.Title)
	})

	t.Run("second add of the same book is refused", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t)

		_, err := f.favorites.Add(ctx, u.UUID, b.UUID)
		require.NoError(t, err)

		_, err = f.favorites.Add(ctx, u.UUID, b.UUID)
		assert.ErrorIs(t, err, favorite.ErrAlreadyFavorited)
		assert.Equal(t, 400, apperr.HTTPStatus(err))

		// Still exactly one row
		var count int64
		require.NoError(t, f.db.Model(&favorite.Favorite{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("same book for a different user is fine", func(t *testing.T) {
		f := newFixture(t)
		u1 := f.seedUser(t)
		u2 := f.seedUser(t)
		b := f.seedBook(t)

		_, err := f.favorites.Add(ctx, u1.UUID, b.UUID)
		require.NoError(t, err)

		_, err = f.favorites.Add(ctx, u2.UUID, b.UUID)
		assert.NoError(t, err)
	})

	t.Run("unknown user and book", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t)

		_, err := f.favorites.Add(ctx, uuid.NewString(), b.UUID)
		assert.ErrorIs(t, err, user.ErrUserNotFound)

		_, err = f.favorites.Add(ctx, u.UUID, uuid.NewString())
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("unmarks and frees the slot", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t)

		_, err := f.favorites.Add(ctx, u.UUID, b.UUID)
		require.NoError(t, err)

		require.NoError(t, f.favorites.Remove(ctx, u.UUID, b.UUID))

		// Removed pair can be favorited again
		_, err = f.favorites.Add(ctx, u.UUID, b.UUID)
		assert.NoError(t, err)
	})

	t.Run("removing a non-favorite reports not found", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t)

		err := f.favorites.Remove(ctx, u.UUID, b.UUID)
		assert.ErrorIs(t, err, favorite.ErrFavoriteNotFound)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.seedUser(t)
	other := f.seedUser(t)
	b1 := f.seedBook(t)
	b2 := f.seedBook(t)

	_, err := f.favorites.Add(ctx, u.UUID, b1.UUID)
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, u.UUID, b2.UUID)
	require.NoError(t, err)
	_, err = f.favorites.Add(ctx, other.UUID, b1.UUID)
	require.NoError(t, err)

	favorites, err := f.favorites.List(ctx, u.UUID)
	require.NoError(t, err)
	require.Len(t, favorites, 2)

	// Newest first, only this user's rows
	assert.Equal(t, b2.ID, favorites[0].BookID)
	assert.Equal(t, b1.ID, favorites[1].BookID)
}
