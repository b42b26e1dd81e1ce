package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"corkboard/internal/config"
	"corkboard/internal/database"
	"corkboard/internal/handler"
	"corkboard/internal/ratelimit"
	"corkboard/internal/redis"
	"corkboard/internal/repository"
	"corkboard/internal/service"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Connect to Redis (auth rate limiting)
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	limiter := ratelimit.NewRedisLimiter(
		redisClient.Client,
		cfg.AuthRateLimit,
		time.Duration(cfg.AuthRateWindowSecs)*time.Second,
	)

	// 4. Build repositories and services
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(cfg)

	imageService, err := service.NewImageService(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create image service: %w", err)
	}
	postService := service.NewPostService(postRepo, commentRepo, imageService, db)

	// 5. Wire handlers and routes
	authHandler := handler.NewAuthHandler(userService, authService, cfg)
	postHandler := handler.NewPostHandler(postService)

	router := NewRouter(RouterConfig{
		AuthHandler: authHandler,
		PostHandler: postHandler,
		Verifier:    authService,
		Limiter:     limiter,
	})

	// 6. Start HTTP server with graceful shutdown
	srv := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctx)
	}()

	log.Printf("Starting server on :%s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
