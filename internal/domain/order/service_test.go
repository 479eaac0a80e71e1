// internal/domain/order/service_test.go
package order_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db     *gorm.DB
	cfg    *config.Config
	carts  *cart.Service
	orders *order.Service
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
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	))

	cfg := &config.Config{
		Checkout: config.CheckoutConfig{ShippingFlatRate: 500},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	books := book.NewService(db, cfg)
	users := user.NewService(db, cfg)
	carts := cart.NewService(db, cfg, log, books, users, nil)
	orders := order.NewService(db, cfg, log, users, nil)

	return &fixture{db: db, cfg: cfg, carts: carts, orders: orders}
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

func (f *fixture) seedBook(t *testing.T, price int64, stock int) *book.Book {
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

func checkoutReq() *order.CreateOrderRequest {
	return &order.CreateOrderRequest{
		AddressID:     1,
		PaymentMethod: "card",
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("freezes totals and drains the cart", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b1 := f.seedBook(t, 1000, 10) // 2 x 10.00
		b2 := f.seedBook(t, 2500, 10) // 1 x 25.00

		_, err := f.carts.AddItem(ctx, u.UUID, b1.UUID, 2)
		require.NoError(t, err)
		_, err = f.carts.AddItem(ctx, u.UUID, b2.UUID, 1)
		require.NoError(t, err)

		o, err := f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
		require.NoError(t, err)

		assert.Equal(t, int64(4500), o.Subtotal)
		assert.Equal(t, int64(500), o.Shipping)
		assert.Equal(t, int64(5000), o.Total)
		assert.Equal(t, order.OrderStatusPending, o.Status)
		require.Len(t, o.Items, 2)

		// The cart survives, emptied and zeroed
		c, err := f.carts.GetCart(ctx, u.UUID)
		require.NoError(t, err)
		assert.Empty(t, c.Items)
		assert.Zero(t, c.TotalPrice)
	})

	t.Run("order number carries the date stamp", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t, 1000, 10)

		_, err := f.carts.AddItem(ctx, u.UUID, b.UUID, 1)
		require.NoError(t, err)

		o, err := f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
		require.NoError(t, err)

		prefix := "ORD-" + time.Now().UTC().Format("20060102") + "-"
		assert.True(t, strings.HasPrefix(o.OrderNumber, prefix), o.OrderNumber)
	})

	t.Run("rejects a user with no cart", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)

		_, err := f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
		assert.ErrorIs(t, err, order.ErrEmptyCart)
		assert.Equal(t, 400, apperr.HTTPStatus(err))
	})

	t.Run("rejects an emptied cart", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t, 1000, 10)

		c, err := f.carts.AddItem(ctx, u.UUID, b.UUID, 1)
		require.NoError(t, err)
		_, err = f.carts.DeleteItem(ctx, u.UUID, c.Items[0].ID)
		require.NoError(t, err)

		_, err = f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
		assert.ErrorIs(t, err, order.ErrEmptyCart)
	})

	t.Run("snapshots survive catalog price changes", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t, 1000, 10)

		_, err := f.carts.AddItem(ctx, u.UUID, b.UUID, 3)
		require.NoError(t, err)

		o, err := f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
		require.NoError(t, err)

		require.NoError(t, f.db.Model(&book.Book{}).Where("id = ?", b.ID).Update("price", 9999).Error)

		reloaded, err := f.orders.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Items, 1)
		assert.Equal(t, int64(1000), reloaded.Items[0].UnitPrice)
		assert.Equal(t, int64(3000), reloaded.Items[0].TotalPrice)
		assert.Equal(t, int64(3000), reloaded.Subtotal)
	})

	t.Run("cart is reusable after checkout", func(t *testing.T) {
		f := newFixture(t)
		u := f.seedUser(t)
		b := f.seedBook(t, 1000, 10)

		_, err := f.carts.AddItem(ctx, u.UUID, b.UUID, 2)
		require.NoError(t, err)
		_, err = f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
		require.NoError(t, err)

		c, err := f.carts.AddItem(ctx, u.UUID, b.UUID, 1)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.Items[0].Quantity)
		assert.Equal(t, int64(1000), c.TotalPrice)
	})
}

func TestGetUserOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.seedUser(t)
	b := f.seedBook(t, 1000, 50)

	var ids []uint
	for i := 0; i < 3; i++ {
		_, err := f.carts.AddItem(ctx, u.UUID, b.UUID, 1)
		require.NoError(t, err)
		o, err := f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	orders, err := f.orders.GetUserOrders(ctx, u.UUID)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	// Newest first
	assert.Equal(t, ids[2], orders[0].ID)
	assert.Equal(t, ids[1], orders[1].ID)
	assert.Equal(t, ids[0], orders[2].ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.seedUser(t)
	b := f.seedBook(t, 1000, 10)

	_, err := f.carts.AddItem(ctx, u.UUID, b.UUID, 1)
	require.NoError(t, err)
	o, err := f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
	require.NoError(t, err)

	t.Run("legal transitions", func(t *testing.T) {
		updated, err := f.orders.UpdateOrderStatus(ctx, o.ID, order.OrderStatusShipped)
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusShipped, updated.Status)

		updated, err = f.orders.UpdateOrderStatus(ctx, o.ID, order.OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusDelivered, updated.Status)
	})

	t.Run("illegal transition", func(t *testing.T) {
		_, err := f.orders.UpdateOrderStatus(ctx, o.ID, order.OrderStatusPending)
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.orders.UpdateOrderStatus(ctx, o.ID, order.OrderStatus("LOST"))
		assert.Equal(t, 400, apperr.HTTPStatus(err))
	})

	t.Run("missing order", func(t *testing.T) {
		_, err := f.orders.UpdateOrderStatus(ctx, 9999, order.OrderStatusShipped)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestBulkUserOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.seedUser(t)
	other := f.seedUser(t)
	b := f.seedBook(t, 1000, 50)

	for _, buyer := range []*user.User{u, u, other} {
		_, err := f.carts.AddItem(ctx, buyer.UUID, b.UUID, 1)
		require.NoError(t, err)
		_, err = f.orders.CreateOrder(ctx, buyer.UUID, checkoutReq())
		require.NoError(t, err)
	}

	t.Run("bulk update touches only that user's orders", func(t *testing.T) {
		status := order.OrderStatusShipped
		updated, err := f.orders.UpdateUserOrders(ctx, u.UUID, &order.UpdateUserOrdersRequest{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)

		others, err := f.orders.GetUserOrders(ctx, other.UUID)
		require.NoError(t, err)
		assert.Equal(t, order.OrderStatusPending, others[0].Status)
	})

	t.Run("bulk update with no fields is rejected", func(t *testing.T) {
		_, err := f.orders.UpdateUserOrders(ctx, u.UUID, &order.UpdateUserOrdersRequest{})
		assert.Equal(t, 400, apperr.HTTPStatus(err))
	})

	t.Run("bulk delete removes orders and their items", func(t *testing.T) {
		deleted, err := f.orders.DeleteUserOrders(ctx, u.UUID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		mine, err := f.orders.GetUserOrders(ctx, u.UUID)
		require.NoError(t, err)
		assert.Empty(t, mine)

		var itemCount int64
		require.NoError(t, f.db.Model(&order.OrderItem{}).Count(&itemCount).Error)
		assert.Equal(t, int64(1), itemCount) // other's order untouched

		others, err := f.orders.GetUserOrders(ctx, other.UUID)
		require.NoError(t, err)
		assert.Len(t, others, 1)
	})
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.seedUser(t)
	b := f.seedBook(t, 1000, 10)

	_, err := f.carts.AddItem(ctx, u.UUID, b.UUID, 1)
	require.NoError(t, err)
	o, err := f.orders.CreateOrder(ctx, u.UUID, checkoutReq())
	require.NoError(t, err)

	require.NoError(t, f.orders.DeleteOrder(ctx, o.ID))

	_, err = f.orders.GetOrder(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	// Deleting again reports not found
	err = f.orders.DeleteOrder(ctx, o.ID)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}
