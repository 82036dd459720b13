package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/slinet/ehfetch/internal/client"
	"github.com/slinet/ehfetch/internal/client/parser"
	"github.com/slinet/ehfetch/internal/config"
	"github.com/slinet/ehfetch/internal/database"
	"github.com/slinet/ehfetch/internal/download"
	"github.com/slinet/ehfetch/internal/handler"
	"github.com/slinet/ehfetch/internal/logger"
	"github.com/slinet/ehfetch/internal/middleware"
	"github.com/slinet/ehfetch/internal/notify"
	"github.com/slinet/ehfetch/internal/scheduler"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "path to config file")
	enableScheduler := flag.Bool("scheduler", false, "enable task scheduler")
	flag.Parse()

	// Load configuration first
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with configured level
	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("configuration loaded",
		zap.String("host", cfg.Client.Host),
		zap.Int("port", cfg.API.Port),
	)

	// Initialize database
	if err := database.Init(&cfg.Database, log); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer database.Close()

	downloadStore := database.NewDownloadStore(log)
	favoriteStore := database.NewFavoriteStore(log)
	filterStore := database.NewFilterStore(log)
	if err := filterStore.Reload(context.Background()); err != nil {
		log.Fatal("failed to load comment filter rules", zap.Error(err))
	}

	// Initialize site client
	siteClient, err := client.New(&cfg.Client)
	if err != nil {
		log.Fatal("failed to initialize client", zap.Error(err))
	}

	env := parser.Env{
		Favorites:        favoriteStore,
		Filter:           filterStore,
		CommentThreshold: cfg.Download.CommentThreshold,
		Logger:           log,
	}
	retryCfg := client.RetryConfig{
		MaxRetries:     cfg.Client.RetryTimes,
		Logger:         log,
		WaitForIPUnban: cfg.Client.WaitForIPUnban,
	}

	// Desktop notifications, with a silent fallback when no session bus
	// is reachable
	var surface notify.Notifier
	if dn, err := notify.NewDBus(&cfg.Notify, log); err != nil {
		log.Warn("desktop notifications unavailable", zap.Error(err))
		surface = notify.Noop{}
	} else {
		surface = dn
	}

	// Download manager and its notification surface
	mgr := download.NewManager(siteClient, cfg, downloadStore, env, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	window := time.Duration(cfg.Download.NotificationDelayMS) * time.Millisecond
	service := download.NewService(mgr, surface, window, func() {
		log.Info("download queue drained")
	}, log)

	go mgr.Run(ctx)

	// Initialize Gin
	if !cfg.API.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZap(log)) // Use zap logger for Gin
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.API.CORS, cfg.API.CORSOrigin))

	// Initialize handlers
	galleryHandler := handler.NewGalleryHandler(siteClient, env, retryCfg, log)
	downloadHandler := handler.NewDownloadHandler(mgr, service, downloadStore, log)
	favoriteHandler := handler.NewFavoriteHandler(favoriteStore, log)
	filterHandler := handler.NewFilterHandler(filterStore, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Gallery routes
		api.GET("/gallery/:gid/:token", galleryHandler.GetGallery)
		api.GET("/g/:gid/:token", galleryHandler.GetGallery)

		// Download routes
		api.POST("/download", downloadHandler.Start)
		api.POST("/download/start_all", downloadHandler.StartAll)
		api.POST("/download/stop", downloadHandler.Stop)
		api.POST("/download/stop_all", downloadHandler.StopAll)
		api.POST("/download/delete", downloadHandler.Delete)
		api.POST("/download/clear", downloadHandler.Clear)
		api.GET("/download/status", downloadHandler.Status)
		api.GET("/downloads", downloadHandler.List)

		// Favorite routes
		api.GET("/favorites", favoriteHandler.List)
		api.PUT("/favorites", favoriteHandler.Put)
		api.DELETE("/favorites/:gid", favoriteHandler.Remove)

		// Filter routes
		api.GET("/filters", filterHandler.List)
		api.POST("/filters", filterHandler.Add)
		api.DELETE("/filters/:id", filterHandler.Remove)
	}

	// Start scheduler if enabled
	var sched *scheduler.Scheduler
	if *enableScheduler {
		sched = scheduler.New(cfg, mgr, downloadStore, log)
		if err := sched.Start(); err != nil {
			log.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
		log.Info("scheduler enabled")
	}

	// Start HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.API.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info("starting HTTP server", zap.Int("port", cfg.API.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
