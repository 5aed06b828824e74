package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ColetaApp/coleta_api/internal/cache"
	"github.com/ColetaApp/coleta_api/internal/config"
	"github.com/ColetaApp/coleta_api/internal/database"
	"github.com/ColetaApp/coleta_api/internal/handler"
	"github.com/ColetaApp/coleta_api/internal/middleware"
	"github.com/ColetaApp/coleta_api/internal/repository"
	"github.com/ColetaApp/coleta_api/internal/storage"
)

// main is the application entrypoint for the Coleta API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting coleta api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize upload storage
	store, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		log.Error().Err(err).Msg("upload storage initialization failed")
		fmt.Fprintf(os.Stderr, "upload storage initialization failed: %v\n", err)
		os.Exit(1)
	}

	// 5. Initialize repositories
	itemRepo := repository.NewItemRepository(db)
	pointRepo := repository.NewPointRepository(db)

	// 5a. Initialize catalog cache
	itemCache := cache.NewItemCache(redisClient)

	// 6. Initialize handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(db),
		Item:   handler.NewItemHandler(itemRepo, itemCache, cfg.Upload.BaseURL),
		Point:  handler.NewPointHandler(pointRepo, store, cfg.Upload.BaseURL),
	}

	// 7. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, store.Dir())

	// 8. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 9. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 10. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health *handler.HealthHandler
	Item   *handler.ItemHandler
	Point  *handler.PointHandler
}

// setupRoutes registers all routes. uploadDir is served statically so stored
// images are reachable at their public URLs.
func setupRoutes(router *gin.Engine, handlers *Handlers, uploadDir string) {
	router.GET("/health", handlers.Health.GetHealth)

	router.GET("/items", handlers.Item.GetItems)

	router.GET("/points", handlers.Point.ListPoints)
	router.GET("/points/:id", handlers.Point.GetPoint)
	router.POST("/points", handlers.Point.CreatePoint)

	router.Static("/uploads", uploadDir)
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
