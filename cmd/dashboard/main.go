package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/microgram17/jobtracker/internal/config"
	"github.com/microgram17/jobtracker/internal/dashboard"
	"github.com/microgram17/jobtracker/internal/logging"
	"github.com/microgram17/jobtracker/internal/server"
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

	// 2. API client
	client := dashboard.NewClient(cfg.APIURL, cfg.RequestTimeout)
	log.Info("dashboard using API", "url", cfg.APIURL)

	// 3. Serve the UI until interrupted
	dash := dashboard.New(client, log)
	srv := server.New(server.Config{Port: cfg.DashboardPort, ShutdownTimeout: cfg.ShutdownTimeout}, dash.Router(), log)
	if err := srv.Run(context.Background()); err != nil {
		log.Error("dashboard failed", "error", err)
		os.Exit(1)
	}
	log.Info("dashboard stopped gracefully")
}
