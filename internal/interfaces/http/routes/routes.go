// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/favorite"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/recommendation"
	"github.com/your-org/bookstore-backend/internal/domain/review"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bookstore-backend/internal/pkg/email"
	"github.com/your-org/bookstore-backend/internal/pkg/invoice"
	"gorm.io/gorm"
)

// SetupRoutes wires every handler under the versioned API group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	userService := user.NewService(db, cfg)
	bookService := book.NewService(db, cfg)

	var recService *recommendation.Service
	if redisClient != nil {
		recService = recommendation.NewService(redisClient, log)
	}

	var recorder cart.InteractionRecorder
	if recService != nil {
		recorder = recService
	}
	cartService := cart.NewService(db, cfg, log, bookService, userService, recorder)

	var mailer order.ConfirmationSender
	mailService := email.NewService(cfg, log)
	if mailService.Enabled() {
		mailer = mailService
	}
	orderService := order.NewService(db, cfg, log, userService, mailer)
	invoiceService := invoice.NewService(cfg)

	favoriteService := favorite.NewService(db, bookService, userService)
	reviewService := review.NewService(db, bookService, userService)

	setupBookRoutes(rg, bookService, recService)
	setupCartRoutes(rg, cfg, cartService)
	setupOrderRoutes(rg, cfg, orderService, invoiceService)
	setupFavoriteRoutes(rg, cfg, favoriteService)
	setupReviewRoutes(rg, cfg, reviewService)
}

// setupBookRoutes sets up public catalog routes
func setupBookRoutes(rg *gin.RouterGroup, bookService *book.Service, recService *recommendation.Service) {
	bookHandler := handlers.NewBookHandler(bookService, recService)

	books := rg.Group("/books")
	{
		books.GET("", bookHandler.List)
		books.GET("/popular", bookHandler.Popular)
		books.GET("/:uuid", bookHandler.Get)
	}
}

// setupCartRoutes sets up cart routes
func setupCartRoutes(rg *gin.RouterGroup, cfg *config.Config, cartService *cart.Service) {
	cartHandler := handlers.NewCartHandler(cartService)

	carts := rg.Group("/carts")
	carts.Use(middleware.AuthMiddleware(cfg))
	{
		carts.GET("/user/:userId", cartHandler.GetCart)
		carts.POST("/user/:userId/item/:bookId", cartHandler.AddItem)
		carts.PUT("/user/:userId/item/:itemId/remove", cartHandler.RemoveItem)
		carts.DELETE("/user/:userId/item/:itemId", cartHandler.DeleteItem)
	}
}

// setupOrderRoutes sets up order routes
func setupOrderRoutes(rg *gin.RouterGroup, cfg *config.Config, orderService *order.Service, invoiceService *invoice.Service) {
	orderHandler := handlers.NewOrderHandler(orderService, invoiceService)

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("/:userId", orderHandler.CreateOrder)
		orders.PUT("/:userId", orderHandler.UpdateUserOrders)
		orders.DELETE("/:userId", orderHandler.DeleteUserOrders)
		orders.GET("/user/:userId", orderHandler.ListUserOrders)
		orders.GET("/id/:orderId", orderHandler.GetOrder)
		orders.GET("/id/:orderId/invoice", orderHandler.GetInvoice)
		orders.PUT("/id/:orderId/status", orderHandler.UpdateOrderStatus)
		orders.DELETE("/id/:orderId", orderHandler.DeleteOrder)
	}
}

// setupFavoriteRoutes sets up favorite routes
func setupFavoriteRoutes(rg *gin.RouterGroup, cfg *config.Config, favoriteService *favorite.Service) {
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)

	favorites := rg.Group("/favorites")
	favorites.Use(middleware.AuthMiddleware(cfg))
	{
		favorites.GET("/:userId", favoriteHandler.List)
		favorites.POST("/:userId/:bookId", favoriteHandler.Add)
		favorites.DELETE("/:userId/:bookId", favoriteHandler.Remove)
	}
}

// setupReviewRoutes sets up review routes. Reads are public, writes need
// a bearer token.
func setupReviewRoutes(rg *gin.RouterGroup, cfg *config.Config, reviewService *review.Service) {
	reviewHandler := handlers.NewReviewHandler(reviewService)

	reviews := rg.Group("/reviews")
	{
		reviews.GET("/book/:bookId", reviewHandler.ListForBook)

		protected := reviews.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/:userId/:bookId", reviewHandler.Submit)
			protected.DELETE("/:userId/:bookId", reviewHandler.Delete)
		}
	}
}
