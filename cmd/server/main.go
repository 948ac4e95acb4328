package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storyreel/config"
	"storyreel/internal/database"
	"storyreel/internal/handlers"
	"storyreel/internal/services"
	"storyreel/internal/worker"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg.Environment)

	log.Info().Str("environment", cfg.Environment).Int("port", cfg.ServerPort).Msg("storyreel starting")

	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("failed to create storage directories")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := database.ExecSchema(db, filepath.Join("scripts", "schema.sql")); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}
	log.Info().Str("path", cfg.DBPath).Msg("database ready")

	// Repositories and services
	storyRepo := database.NewStoryRepository(db)
	videoRepo := database.NewVideoRepository(db)
	jobRepo := database.NewJobRepository(db)

	tracker := services.NewTracker(jobRepo, videoRepo, log)
	processor := worker.NewProcessor(cfg, tracker, videoRepo, log)

	pool := worker.NewPool(cfg.QueueDepth, tracker, processor, log)
	pool.Start(cfg.WorkerCount)

	// Handlers
	storyHandler := handlers.NewStoryHandler(storyRepo, log)
	videoHandler := handlers.NewVideoHandler(storyRepo, videoRepo, tracker, pool, log)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// CORS middleware - MUST be first
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Add("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Add("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Add("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "storyreel",
		})
	})

	v1 := router.Group("/api/v1")
	{
		stories := v1.Group("/stories")
		{
			stories.POST("", storyHandler.Create)
			stories.GET("/:id", storyHandler.GetByID)
			stories.PUT("/:id/media", storyHandler.AttachMedia)
		}

		videos := v1.Group("/videos")
		{
			videos.GET("", videoHandler.GetAll)
			videos.POST("", videoHandler.Generate)
			videos.GET("/:id", videoHandler.GetByID)
			videos.GET("/:id/status", videoHandler.Status)
			videos.DELETE("/:id", videoHandler.Delete)
		}

		// Finished files are served straight from media storage
		v1.Static("/media/videos", cfg.VideosPath)
	}

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Info().Str("addr", addr).Msg("starting server")

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down")
	pool.Stop()
	db.Close()
	log.Info().Msg("shutdown complete")
}

// newLogger constructs the service logger: console output in development,
// JSON otherwise.
func newLogger(env string) zerolog.Logger {
	level := zerolog.InfoLevel
	if env == "development" {
		level = zerolog.DebugLevel
	}

	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return log
}
