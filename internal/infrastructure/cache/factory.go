package cache

import (
	"fmt"

	"github.com/sellerdesk/core/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewSummaryCache creates a summary cache for the configured backend.
// When the backend is redis but the server is unreachable, it falls back
// to the in-memory cache so analytics keep working on a single instance.
func NewSummaryCache(cfg *config.Config, logger *zap.Logger) (SummaryCache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return NewInMemorySummaryCache(), nil
	case "redis":
		c, err := NewRedisSummaryCache(cfg.Redis)
		if err != nil {
			logger.Warn("redis summary cache unavailable, falling back to in-memory",
				zap.String("addr", cfg.Redis.Addr()),
				zap.Error(err),
			)
			return NewInMemorySummaryCache(), nil
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}
