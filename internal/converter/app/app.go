package app

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aeolus87/currency-converter/deploy/config"
	"github.com/aeolus87/currency-converter/internal/converter/adapter/api_client/currencyapi"
	redisStore "github.com/aeolus87/currency-converter/internal/converter/adapter/store/redis"
	"github.com/aeolus87/currency-converter/internal/converter/ports/http/public"
	"github.com/aeolus87/currency-converter/internal/converter/service"
	redisPack "github.com/redis/go-redis/v9"
)

type ConverterApp struct {
	cfg *config.Config
}

func NewConverterApp(cfg *config.Config) *ConverterApp {
	return &ConverterApp{cfg: cfg}
}

func (a *ConverterApp) Start(ctx context.Context) <-chan struct{} {
	a.initLogger()
	slog.Info("Logger initialized")

	store := a.initStore(ctx)
	slog.Info("Cache store initialized")

	client := currencyapi.NewClient(a.cfg.API.BaseURL, a.cfg.API.Key, a.cfg.API.Timeout)

	svc := service.NewService(store, client, a.cfg)
	slog.Info("Service initialized")

	serverDone := public.StartServer(ctx, svc, a.cfg)
	slog.Info("server started")

	return serverDone
}

func (a *ConverterApp) initLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: false,
	}))
	slog.SetDefault(logger)
}

func (a *ConverterApp) initStore(ctx context.Context) *redisStore.Storage {
	options := &redisPack.Options{
		Addr:     a.cfg.Redis.Host,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	}

	store, err := redisStore.InitStorage(ctx, options, &a.cfg.Cache)
	if err != nil {
		log.Fatalln("Failed to initialize redis cache store", "error", err)
	}

	return store
}
