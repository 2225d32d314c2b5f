package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shirovn55/apinganmiu/internal/app/config"
	"github.com/Shirovn55/apinganmiu/internal/app/domains/services/svcheck"
	"github.com/Shirovn55/apinganmiu/internal/app/infra/cache"
	"github.com/Shirovn55/apinganmiu/internal/app/infra/sheets"
	"github.com/Shirovn55/apinganmiu/internal/app/infra/shopee"
	"github.com/Shirovn55/apinganmiu/internal/app/infra/spx"
	"github.com/Shirovn55/apinganmiu/internal/app/pkg/logger"
	"github.com/Shirovn55/apinganmiu/internal/app/server/handlers/admin"
	"github.com/Shirovn55/apinganmiu/internal/app/server/handlers/check"
	"github.com/Shirovn55/apinganmiu/internal/app/server/handlers/track"
	"github.com/Shirovn55/apinganmiu/internal/app/server/routers"
)

const appVersion = "2.0.0"

func main() {
	// 1. 加载配置
	cfg, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// 2. 组装依赖
	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to init cache store: %v", err)
	}

	shopeeClient := shopee.NewClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.UserAgent,
		cfg.Upstream.Referer,
		cfg.Upstream.Timeout,
		zlog,
	)
	spxClient := spx.NewClient(cfg.SPX.BaseURL, cfg.SPX.Timeout, zlog)
	sheetsClient := sheets.NewClient([]byte(cfg.License.CredsJSON), cfg.License.ContactPhone, zlog)

	checkService := svcheck.NewCheckService(shopeeClient, sheetsClient, store, zlog, svcheck.Options{
		MaxOrders: cfg.Upstream.MaxOrders,
		Workers:   cfg.Upstream.Workers,
		ResultTTL: cfg.Cache.ResultTTL,
		EmptyTTL:  cfg.Cache.EmptyTTL,
	})

	checkHandler := check.NewCheckHandler(checkService, zlog)
	trackHandler := track.NewTrackHandler(spxClient, zlog)
	adminHandler := admin.NewAdminHandler(sheetsClient, cfg.License.RegistrySheetID, cfg.Admin.Key, zlog)

	engine := routers.SetupRoutes(cfg.App.Name, appVersion, checkHandler, trackHandler, adminHandler, store, zlog)

	// 3. 启动 HTTP Server（后台 goroutine）
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 4. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Received shutdown signal, gracefully shutting down...")
		gracefulShutdown(server)
	case err := <-serverErrChan:
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("Application stopped")
}

// buildStore 按配置选择缓存后端：配了 Redis 地址用 Redis，否则进程内存
func buildStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryStore(), nil
	}
	return cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.App.Name+":")
}

// gracefulShutdown 优雅停机
func gracefulShutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}
}
