package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/config"
	"github.com/c14220110/hospital-ops-backend/internal/common/validation"
	"github.com/c14220110/hospital-ops-backend/internal/routes"
	"github.com/c14220110/hospital-ops-backend/pkg/cache"
	"github.com/c14220110/hospital-ops-backend/pkg/logger"
	"github.com/c14220110/hospital-ops-backend/pkg/storage/mariadb"
	"github.com/c14220110/hospital-ops-backend/ws"
)

func main() {
	cfg := config.LoadConfig()

	zlog, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "hospital-ops-backend")
	if err != nil {
		log.Fatalf("Gagal membuat logger: %v", err)
	}
	defer zlog.Sync()

	// Angka uang dikirim sebagai number JSON, bukan string.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mariadb.Connect(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to MariaDB", zap.Error(err))
	}
	defer db.Close()

	kv := reportCache(ctx, cfg, zlog)

	hub := ws.NewHub(zlog.Named("ws"))
	go hub.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(zlog))

	routes.Init(e, routes.Deps{
		DB:     db,
		Cache:  kv,
		Hub:    hub,
		Config: cfg,
		Logger: zlog,
	})

	go func() {
		zlog.Info("Server berjalan", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// reportCache uses Redis when REDIS_ADDR is set and reachable, otherwise an
// in-process store.
func reportCache(ctx context.Context, cfg *config.Config, zlog *zap.Logger) cache.KVStore {
	if cfg.RedisAddr == "" {
		zlog.Info("REDIS_ADDR not set, caching reports in memory")
		return cache.NewMemoryKVStore()
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		zlog.Warn("Redis unavailable, caching reports in memory",
			zap.String("addr", cfg.RedisAddr),
			zap.Error(err),
		)
		return cache.NewMemoryKVStore()
	}
	zlog.Info("Caching reports in Redis", zap.String("addr", cfg.RedisAddr))
	return cache.NewRedisKVStore(client)
}

func requestLogger(zlog *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				zlog.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zlog.Info("request", fields...)
			return nil
		},
	})
}
