package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/socialite-app/backend/src/config"
	"github.com/socialite-app/backend/src/controllers"
	"github.com/socialite-app/backend/src/lib"
	"github.com/socialite-app/backend/src/middleware"
	"github.com/socialite-app/backend/src/routes"
	"github.com/socialite-app/backend/src/services"
	"github.com/socialite-app/backend/src/stores"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := lib.ConnectDB(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongodb connection failed", "uri", cfg.MongoURI, "error", err)
		os.Exit(1)
	}
	if err := stores.EnsureIndexes(context.Background(), db); err != nil {
		logger.Error("index creation failed", "error", err)
		os.Exit(1)
	}

	cache := lib.ConnectRedis(cfg.RedisAddr)

	userStore := stores.NewMongoUserStore(db)
	requestStore := stores.NewMongoRequestStore(db)
	notificationStore := stores.NewMongoNotificationStore(db)

	notificationService := services.NewNotificationService(userStore, notificationStore, cache, logger)
	friendService := services.NewFriendService(userStore, requestStore, notificationService, logger)
	queryService := services.NewQueryService(userStore, requestStore)

	friendController := controllers.NewFriendController(friendService, queryService, userStore)
	notificationController := controllers.NewNotificationController(notificationService)

	app := fiber.New()
	app.Use(cors.New())

	protect := middleware.ProtectRoute(cfg.JWTSecret)
	routes.FriendRoutes(app, friendController, protect)
	routes.NotificationRoutes(app, notificationController, protect)

	logger.Info("server is running", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
