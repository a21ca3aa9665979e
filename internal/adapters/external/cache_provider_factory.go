package external

import (
	"fmt"

	"agromonitor.app/internal/config"
	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

const weatherCachePrefix = "agromonitor:cache"

// CacheProvider is a byte cache that also reports hit statistics
type CacheProvider interface {
	ports.CacheProvider
	ports.CacheMetrics
}

type CacheProviderFactory struct{}

func NewCacheProviderFactory() *CacheProviderFactory {
	return &CacheProviderFactory{}
}

// CreateCacheProvider builds the cache selected by CACHE_TYPE
func (f *CacheProviderFactory) CreateCacheProvider(cfg *config.CacheConfig) (CacheProvider, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("cache config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.CacheTypeMemory:
		return NewMemoryCacheProvider(), nil
	case config.CacheTypeRedis:
		client, err := NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisCacheProviderAdapter(client, weatherCachePrefix), nil
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported cache type: %s", cfg.Type.String()), nil)
	}
}
