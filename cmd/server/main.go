package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusmarket/market-backend/internal/config"
	"github.com/campusmarket/market-backend/internal/db"
	httpHandlers "github.com/campusmarket/market-backend/internal/http/handlers"
	httpRouter "github.com/campusmarket/market-backend/internal/http/router"
	"github.com/campusmarket/market-backend/internal/logger"
	"github.com/campusmarket/market-backend/internal/repository"
	"github.com/campusmarket/market-backend/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	categoryRepo := repository.NewCategoryRepository(dbConn)
	itemRepo := repository.NewItemRepository(dbConn)
	transactionRepo := repository.NewTransactionRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	chatRepo := repository.NewChatRepository(dbConn)
	favoriteRepo := repository.NewFavoriteRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	userService := service.NewUserService(userRepo, reviewRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	itemService := service.NewItemService(itemRepo, categoryRepo, transactionRepo)
	transactionService := service.NewTransactionService(transactionRepo, itemRepo)
	reviewService := service.NewReviewService(reviewRepo, transactionRepo)
	chatService := service.NewChatService(chatRepo, itemRepo, userRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, itemRepo)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	userHandler := httpHandlers.NewUserHandler(userService, itemService)
	categoryHandler := httpHandlers.NewCategoryHandler(categoryService)
	itemHandler := httpHandlers.NewItemHandler(itemService)
	transactionHandler := httpHandlers.NewTransactionHandler(transactionService)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	chatHandler := httpHandlers.NewChatHandler(chatService)
	favoriteHandler := httpHandlers.NewFavoriteHandler(favoriteService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		userHandler,
		categoryHandler,
		itemHandler,
		transactionHandler,
		reviewHandler,
		chatHandler,
		favoriteHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
