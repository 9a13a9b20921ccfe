package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/watchroom/server/internal/controller"
	connInmemory "github.com/watchroom/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/watchroom/server/internal/repository/room/inmemory"
	searchRedis "github.com/watchroom/server/internal/repository/search/redis"
	roomService "github.com/watchroom/server/internal/service/room"
	searchService "github.com/watchroom/server/internal/service/search"
	"github.com/watchroom/server/pkg/ctxlogger"
	"github.com/watchroom/server/pkg/redisclient"
	"github.com/watchroom/server/pkg/ytsearch"
)

type AppConfig struct {
	Host              string `json:"host"`
	Port              int    `json:"port"`
	LogLevel          string `json:"log_level"`
	SearchResultLimit int    `json:"search_result_limit"`
	SearchMaxSeconds  int    `json:"search_max_seconds"`
	SearchCacheTTL    int    `json:"search_cache_ttl_seconds"`
	RedisHost         string `json:"redis_host"`
	RedisPort         int    `json:"redis_port"`
	RedisPassword     string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535")
	}
	if cfg.SearchResultLimit < 1 {
		return fmt.Errorf("search result limit must be greater than 0")
	}

	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(&h)

	roomRepo := roomInmemory.NewRepo(logger)
	connRepo := connInmemory.NewRepo()
	rService := roomService.NewService(roomRepo, connRepo, logger)

	// the search cache is optional: without redis every query hits youtube
	var searchCache searchService.Cache
	if cfg.RedisHost != "" {
		rc, err := redisclient.NewRedisClient(&redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		searchCache = searchRedis.NewRepo(rc, time.Duration(cfg.SearchCacheTTL)*time.Second)
	}

	sService := searchService.NewService(
		ytsearch.NewClient(10*time.Second),
		searchCache,
		&searchService.Config{
			ResultLimit: cfg.SearchResultLimit,
			MaxSeconds:  cfg.SearchMaxSeconds,
		},
		logger,
	)

	controller := controller.NewController(rService, sService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
