package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-spectrum/cache"
	"news-spectrum/config"
	"news-spectrum/database"
	"news-spectrum/handlers"
	"news-spectrum/logging"
	"news-spectrum/middleware"
	"news-spectrum/scheduler"
	"news-spectrum/services"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores stay nil interfaces without a database so services fall back
	// to the embedded sample data.
	var (
		globalStore  services.GlobalStore
		localStore   services.LocalStore
		topicStore   services.TopicStore
		historyStore services.HistoryStore
		pinger       handlers.Pinger
	)
	if cfg.HasDatabase() {
		db, err := database.Open(cfg)
		if err != nil {
			logger.Fatal("Failed to open database", "driver", cfg.DBDriver, "err", err)
		}
		store := database.NewStore(db)
		globalStore, localStore, topicStore, historyStore, pinger = store, store, store, store, store
		logger.Info("Database connected", "driver", cfg.DBDriver)
	} else {
		logger.Warn("No database configured, serving sample data")
	}

	var c cache.Cache = cache.Noop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, caching disabled", "err", err)
		} else {
			c = rc
			logger.Info("Redis cache enabled", "ttl", cfg.CacheTTL())
		}
	}
	defer c.Close()

	global := services.NewGlobalService(globalStore, cfg, c, logger)
	local := services.NewLocalService(localStore, cfg, c, logger)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), limiter.Handler())

	h := &handlers.Handler{
		Global:   global,
		Local:    local,
		Topics:   services.NewTopicService(topicStore, cfg, logger),
		Timeline: services.NewTimelineService(historyStore, cfg, logger),
		DB:       pinger,
		Log:      logger,
	}
	h.Register(r)

	if cfg.CacheWarmSchedule != "" {
		jobs := []scheduler.Job{scheduler.SweepClients(limiter)}
		if cfg.HasDatabase() {
			jobs = append(jobs, scheduler.WarmGlobal(global), scheduler.WarmTrends(local, services.DefaultCountry))
		}
		sched, err := scheduler.New(cfg.CacheWarmSchedule, logger, jobs...)
		if err != nil {
			logger.Error("Cache warming disabled", "err", err)
		} else {
			go sched.Run(ctx)
		}
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Starting News Spectrum API", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "err", err)
	}
}
