package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"picstream/internal/config"
	"picstream/internal/database"
	"picstream/internal/handler"
	"picstream/internal/queue"
	"picstream/internal/redis"
	"picstream/internal/repository"
	"picstream/internal/service"
	"picstream/internal/worker"
)

// Run wires the application together and serves HTTP until the process exits.
func Run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Collection(database.UsersCollection))
	imageRepo := repository.NewImageRepository(db.Collection(database.UsersCollection))
	notificationRepo := repository.NewNotificationRepository(db.Collection(database.NotificationsCollection))

	// The notification stream is optional plumbing: without Redis the
	// follow/unfollow path still works, it just stops notifying.
	var publisher queue.Publisher
	var manager *worker.Manager
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer redisClient.Close()

		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}

		publisher = queue.NewPublisher(redisClient.Client)
		consumer := queue.NewConsumer(redisClient.Client)
		manager = worker.NewManager(consumer, worker.NewHandler(notificationRepo), worker.DefaultManagerConfig())
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer manager.Stop()
	} else {
		log.Println("REDIS_URL not set, follow notifications disabled")
	}

	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(userRepo, cfg)
	followService := service.NewFollowService(userRepo, publisher)
	imageService := service.NewImageService(imageRepo, mediaService)

	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService),
		UserHandler:         handler.NewUserHandler(userService, followService),
		ImageHandler:        handler.NewImageHandler(imageService),
		NotificationHandler: handler.NewNotificationHandler(notificationRepo),
		TokenVerifier:       authService,
		UserResolver:        userService,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)
	return stdhttp.ListenAndServe(addr, router)
}
