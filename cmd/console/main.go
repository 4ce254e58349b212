package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"optical-console/internal/api"
	"optical-console/internal/core/cache"
	"optical-console/internal/core/config"
	"optical-console/internal/core/logger"
	"optical-console/internal/core/server"
	"optical-console/internal/query"
	"optical-console/internal/transport/http/router"
	"optical-console/internal/transport/http/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.NewWithOptions(logger.Options{
		Level:       cfg.Log.Level,
		JSON:        cfg.Log.JSON,
		AddCaller:   true,
		Development: !cfg.Log.JSON,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	defer cleanup()
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	// 查询缓存
	store, closeStore := mustStore(cfg, log)
	defer closeStore()
	qc := query.New(cache.New(store, time.Duration(cfg.Cache.TTLSec)*time.Second), log)

	client := api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSec) * time.Second,
		Logger:  log,
	})
	sessions := session.NewManager(session.Options{
		Secret: cfg.Session.Secret,
		MaxAge: cfg.Session.MaxAgeSec,
		Secure: cfg.Session.Secure,
	}, log)

	r, err := router.NewConsoleEngine(router.ConsoleDeps{
		API:      client,
		Query:    qc,
		Sessions: sessions,
		Log:      log,
	})
	if err != nil {
		log.Fatal("build console failed", zap.Error(err))
	}

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	if el, err := logger.ToStdLogger(log, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = el
	}
	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("console starting",
		zap.String("addr", addr),
		zap.String("open", baseURL+"/login"),
		zap.String("backend", cfg.API.BaseURL),
		zap.String("cache", cfg.Cache.Driver),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("console start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("console stopped gracefully")
}

func mustStore(cfg *config.Config, l *zap.Logger) (cache.Store, func()) {
	switch cfg.Cache.Driver {
	case "redis":
		rs := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.App.Name+":")
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			l.Fatal("redis ping", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		l.Info("query cache on redis", zap.String("addr", cfg.Redis.Addr))
		return rs, func() { _ = rs.Close() }
	case "", "memory":
		return cache.NewMemoryStore(), func() {}
	default:
		l.Fatal("unknown cache driver", zap.String("driver", cfg.Cache.Driver))
		return nil, nil
	}
}
