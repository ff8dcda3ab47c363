package infra

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bowenxiang/blockorder-bsc-service/internal/adapter/cache"
	"github.com/bowenxiang/blockorder-bsc-service/internal/core/port"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
)

// InitReportCache creates the Redis-backed ordering report cache when
// enabled via config. Returns (nil, nil) when the cache is disabled; the
// ordering service treats a nil cache as "check every block".
func InitReportCache(log applog.AppLogger, v *validator.Validate) (port.ReportCache, error) {
	if !viper.GetBool("redis.enabled") {
		return nil, nil
	}
	if v == nil {
		v = validator.New()
	}

	cfg := cache.Config{
		Host:               viper.GetString("redis.host"),
		Port:               viper.GetString("redis.port"),
		Password:           viper.GetString("redis.password"),
		DB:                 viper.GetInt("redis.db"),
		UseTLS:             viper.GetBool("redis.use_tls"),
		PoolSize:           viper.GetInt("redis.pool_size"),
		MaxRetries:         viper.GetInt("redis.max_retries"),
		DialTimeoutSeconds: viper.GetInt("redis.dial_timeout_seconds"),
		ReportTTLSeconds:   viper.GetInt("redis.report_ttl_seconds"),
		KeyPrefix:          viper.GetString("redis.key_prefix"),
	}

	c, err := cache.NewReportCache(log, cfg, v)
	if err != nil {
		return nil, fmt.Errorf("infra: failed to init report cache: %w", err)
	}
	return c, nil
}
