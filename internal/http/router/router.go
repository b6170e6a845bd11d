package router

import (
	"github.com/gin-gonic/gin"

	"github.com/campusmarket/market-backend/internal/config"
	"github.com/campusmarket/market-backend/internal/http/handlers"
	"github.com/campusmarket/market-backend/internal/http/middleware"
	"github.com/campusmarket/market-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	categoryHandler *handlers.CategoryHandler,
	itemHandler *handlers.ItemHandler,
	transactionHandler *handlers.TransactionHandler,
	reviewHandler *handlers.ReviewHandler,
	chatHandler *handlers.ChatHandler,
	favoriteHandler *handlers.FavoriteHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты
	api.GET("/categories", categoryHandler.ListCategories)
	api.GET("/categories/:id", middleware.UUIDValidator("id"), categoryHandler.GetCategory)
	api.GET("/items", itemHandler.ListItems)
	api.GET("/items/:id", middleware.UUIDValidator("id"), itemHandler.GetItem)
	api.GET("/users/:id", middleware.UUIDValidator("id"), userHandler.GetUser)
	api.GET("/users/:id/items", middleware.UUIDValidator("id"), userHandler.ListUserItems)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListUserReviews)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/users/me", userHandler.GetMe)
		protected.PUT("/users/me", userHandler.UpdateMe)

		protected.POST("/categories", categoryHandler.CreateCategory)

		protected.POST("/items", itemHandler.CreateItem)
		protected.PUT("/items/:id", middleware.UUIDValidator("id"), itemHandler.UpdateItem)
		protected.DELETE("/items/:id", middleware.UUIDValidator("id"), itemHandler.DeleteItem)

		protected.POST("/transactions", transactionHandler.CreateTransaction)
		protected.GET("/transactions", transactionHandler.ListTransactions)
		protected.GET("/transactions/:id", middleware.UUIDValidator("id"), transactionHandler.GetTransaction)
		protected.PUT("/transactions/:id", middleware.UUIDValidator("id"), transactionHandler.UpdateTransaction)
		protected.GET("/transactions/:id/review", middleware.UUIDValidator("id"), reviewHandler.GetTransactionReview)

		protected.POST("/reviews", reviewHandler.CreateReview)

		protected.POST("/chats", chatHandler.SendMessage)
		protected.GET("/chats", chatHandler.ListConversations)
		protected.GET("/chats/:item_id", middleware.UUIDValidator("item_id"), chatHandler.GetConversation)

		protected.POST("/favorites", favoriteHandler.AddFavorite)
		protected.GET("/favorites", favoriteHandler.ListFavorites)
		protected.GET("/favorites/:item_id", middleware.UUIDValidator("item_id"), favoriteHandler.CheckFavorite)
		protected.DELETE("/favorites/:item_id", middleware.UUIDValidator("item_id"), favoriteHandler.RemoveFavorite)
	}

	return r
}
