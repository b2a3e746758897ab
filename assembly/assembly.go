package assembly

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/txix-open/isp-kit/http"
	"github.com/txix-open/isp-kit/log"
	"chat-gate-service/conf"
	"chat-gate-service/repository"
	"chat-gate-service/service"
)

type Assembly struct {
	cfg      conf.Local
	server   *http.Server
	logger   *log.Adapter
	redisCli redis.UniversalClient
	memStore *repository.InMemoryRateLimit
}

func New(cfg conf.Local, logger *log.Adapter) (*Assembly, error) {
	server := http.NewServer(logger)

	var (
		redisCli redis.UniversalClient
		memStore *repository.InMemoryRateLimit
		store    service.RateLimitStore
	)
	if cfg.Redis != nil {
		redisCli = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
		})
		store = repository.NewRedisRateLimit(redisCli)
	} else {
		memStore = repository.NewInMemoryRateLimit(cfg.RateLimit.Window())
		store = memStore
	}

	locator := NewLocator(logger, store, cfg)
	server.Upgrade(locator.Handler())

	return &Assembly{
		cfg:      cfg,
		server:   server,
		logger:   logger,
		redisCli: redisCli,
		memStore: memStore,
	}, nil
}

func (a *Assembly) Run(ctx context.Context) error {
	a.logger.Info(ctx, "listening", log.String("address", a.cfg.BindAddress))
	return a.server.ListenAndServe(a.cfg.BindAddress)
}

func (a *Assembly) Close() error {
	err := a.server.Shutdown(context.Background())
	if err != nil {
		err = errors.WithMessage(err, "shutdown server")
	}
	if a.memStore != nil {
		_ = a.memStore.Close()
	}
	if a.redisCli != nil {
		_ = a.redisCli.Close()
	}
	return err
}
