// internal/interfaces/http/server_test.go
package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/favorite"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/review"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-test-secret-test-secret!"

type apiFixture struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&favorite.Favorite{},
		&review.Review{},
	))

	cfg := &config.Config{
		App:      config.AppConfig{Environment: "test"},
		JWT:      config.JWTConfig{Secret: testSecret},
		Checkout: config.CheckoutConfig{ShippingFlatRate: 500},
		Logging:  config.LoggingConfig{Level: "panic", Format: "text"},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	srv := &Server{config: cfg, log: log, db: db, redisClient: nil}
	srv.gin = gin.New()
	srv.setupMiddleware()
	srv.setupRoutes()

	return &apiFixture{engine: srv.gin, db: db, cfg: cfg}
}

func (f *apiFixture) seedUser(t *testing.T) *user.User {
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

func (f *apiFixture) seedBook(t *testing.T, price int64, stock int) *book.Book {
	t.Helper()
	b := &book.Book{
		UUID:          uuid.NewString(),
		Title:         "Seeded Title",
		Author:        "Seeded Author",
		Genre:         "fiction",
		Price:         price,
		StockQuantity: stock,
	}
	require.NoError(t, f.db.Create(b).Error)
	return b
}

func (f *apiFixture) tokenFor(t *testing.T, u *user.User) string {
	t.Helper()
	claims := auth.Claims{
		UserUUID: u.UUID,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestCartEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	u := f.seedUser(t)
	b := f.seedBook(t, 1000, 5)
	token := f.tokenFor(t, u)

	addPath := fmt.Sprintf("/api/v1/carts/user/%s/item/%s", u.UUID, b.UUID)

	t.Run("requires a bearer token", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, addPath, "", gin.H{"quantity": 1})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects a garbage token", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, addPath, "not-a-token", gin.H{"quantity": 1})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("add item", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, addPath, token, gin.H{"quantity": 2})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Data cart.Cart `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Items, 1)
		assert.Equal(t, 2, resp.Data.Items[0].Quantity)
		assert.Equal(t, int64(2000), resp.Data.TotalPrice)
	})

	t.Run("stock violation maps to 400", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, addPath, token, gin.H{"quantity": 100})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient stock")
	})

	t.Run("remove and delete line item", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/carts/user/"+u.UUID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data cart.Cart `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Items, 1)
		itemID := resp.Data.Items[0].ID

		// Removing the full quantity is refused
		removePath := fmt.Sprintf("/api/v1/carts/user/%s/item/%d/remove", u.UUID, itemID)
		rec = f.do(t, http.MethodPut, removePath, token, gin.H{"quantity": 2})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(t, http.MethodPut, removePath, token, gin.H{"quantity": 1})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		deletePath := fmt.Sprintf("/api/v1/carts/user/%s/item/%d", u.UUID, itemID)
		rec = f.do(t, http.MethodDelete, deletePath, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		// Idempotency: a second delete is a 404, not a silent success
		rec = f.do(t, http.MethodDelete, deletePath, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/carts/user/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrderEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	u := f.seedUser(t)
	b := f.seedBook(t, 1000, 10)
	token := f.tokenFor(t, u)

	addPath := fmt.Sprintf("/api/v1/carts/user/%s/item/%s", u.UUID, b.UUID)

	t.Run("checkout with empty cart maps to 400", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/orders/"+u.UUID, token,
			gin.H{"address_id": 1, "payment_method": "card"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "cart is empty")
	})

	t.Run("checkout drains the cart", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, addPath, token, gin.H{"quantity": 2})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodPost, "/api/v1/orders/"+u.UUID, token,
			gin.H{"address_id": 1, "payment_method": "card"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Data order.Order `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(2000), resp.Data.Subtotal)
		assert.Equal(t, int64(500), resp.Data.Shipping)
		assert.Equal(t, int64(2500), resp.Data.Total)
		assert.Equal(t, order.OrderStatusPending, resp.Data.Status)

		rec = f.do(t, http.MethodGet, "/api/v1/carts/user/"+u.UUID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var cartResp struct {
			Data cart.Cart `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartResp))
		assert.Empty(t, cartResp.Data.Items)
		assert.Zero(t, cartResp.Data.TotalPrice)

		// Fetch and status update by order id
		getPath := fmt.Sprintf("/api/v1/orders/id/%d", resp.Data.ID)
		rec = f.do(t, http.MethodGet, getPath, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodPut, getPath+"/status", token, gin.H{"status": "SHIPPED"})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = f.do(t, http.MethodPut, getPath+"/status", token, gin.H{"status": "PENDING"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list user orders", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/orders/user/"+u.UUID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []order.Order `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 1)
	})

	t.Run("missing order maps to 404", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/orders/id/9999", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	b := f.seedBook(t, 1000, 5)

	t.Run("catalog reads are public", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/books", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodGet, "/api/v1/books/"+b.UUID, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), b.Title)
	})

	t.Run("missing book maps to 404", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/books/"+uuid.NewString(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFavoriteAndReviewEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	u := f.seedUser(t)
	b := f.seedBook(t, 1000, 5)
	token := f.tokenFor(t, u)

	pairPath := fmt.Sprintf("/api/v1/favorites/%s/%s", u.UUID, b.UUID)

	t.Run("favorites round trip", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, pairPath, token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		// Favoriting the same book again is a business-rule violation
		rec = f.do(t, http.MethodPost, pairPath, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "already favorited")

		rec = f.do(t, http.MethodGet, "/api/v1/favorites/"+u.UUID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), b.UUID)

		rec = f.do(t, http.MethodDelete, pairPath, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodDelete, pairPath, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reviews round trip", func(t *testing.T) {
		reviewPath := fmt.Sprintf("/api/v1/reviews/%s/%s", u.UUID, b.UUID)

		rec := f.do(t, http.MethodPost, reviewPath, token, gin.H{"rating": 5, "comment": "great read"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		// Resubmission replaces rather than duplicates
		rec = f.do(t, http.MethodPost, reviewPath, token, gin.H{"rating": 3})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = f.do(t, http.MethodGet, "/api/v1/reviews/book/"+b.UUID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []review.Review `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, 3, resp.Data[0].Rating)

		rec = f.do(t, http.MethodPost, reviewPath, token, gin.H{"rating": 9})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
