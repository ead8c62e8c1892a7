package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/microgram17/jobtracker/internal/config"
	"github.com/microgram17/jobtracker/internal/database"
	"github.com/microgram17/jobtracker/internal/handlers"
	"github.com/microgram17/jobtracker/internal/logging"
	"github.com/microgram17/jobtracker/internal/repository"
	"github.com/microgram17/jobtracker/internal/server"
	"github.com/microgram17/jobtracker/internal/services"
)

func main() {
	// 1. Load Environment Variables
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	gin.SetMode(cfg.GinMode)

	// 2. Database Connection
	db, err := database.Connect(database.OptionsFromConfig(cfg, log))
	if err != nil {
		log.Error("connecting to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("closing database", "error", err)
		}
	}()

	// 3. Initialize Core Services
	store := repository.NewGormStore(db)
	applicationService := services.NewApplicationService(store, log)

	// 4. Setup Router & CORS
	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}, applicationService, log)

	// 5. Serve until interrupted
	srv := server.New(server.Config{Port: cfg.Port, ShutdownTimeout: cfg.ShutdownTimeout}, router, log)
	if err := srv.Run(context.Background()); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}
