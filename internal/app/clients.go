package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/promptlib-backend/internal/clients/identity"
	"github.com/yungbote/promptlib-backend/internal/clients/redis"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

type Clients struct {
	Redis    *goredis.Client
	Identity identity.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	rdb, err := redis.NewClient(ctx, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}

	// Identity
	var lookup identity.Client = identity.Static{}
	if cfg.IdentityBaseURL != "" {
		httpClient, err := identity.New(log, identity.Config{
			BaseURL: cfg.IdentityBaseURL,
			Token:   cfg.IdentityToken,
			Timeout: cfg.IdentityTimeout,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init identity client: %w", err)
		}
		lookup = httpClient
		if rdb != nil {
			lookup = identity.NewCached(log, httpClient, rdb, cfg.IdentityCacheTTL)
		}
	} else {
		log.Warn("IDENTITY_BASE_URL not set, authors render by id only")
	}

	return Clients{Redis: rdb, Identity: lookup}, nil
}
