package infra

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bowenxiang/blockorder-bsc-service/internal/adapter/chain"
	"github.com/bowenxiang/blockorder-bsc-service/internal/core/port"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
)

// InitChainReader constructs the Ethereum chain reader using configuration
// provided via Viper. It validates the config and returns the port-facing
// interface so callers remain decoupled from the adapter.
func InitChainReader(log applog.AppLogger, v *validator.Validate) (port.ChainReader, error) {
	if v == nil {
		v = validator.New()
	}

	cfg := chain.Config{
		RPCURL:                    viper.GetString("chain.rpc_url"),
		FetchTimeoutSeconds:       viper.GetInt("chain.fetch_timeout_seconds"),
		DialMaxRetryAttempts:      viper.GetInt("chain.dial_max_retry_attempts"),
		DialRetryInitialBackoffMS: viper.GetInt("chain.dial_retry_initial_backoff_ms"),
		DialRetryMaxBackoffMS:     viper.GetInt("chain.dial_retry_max_backoff_ms"),
		DialRetryJitter:           viper.GetFloat64("chain.dial_retry_jitter"),
	}

	r, err := chain.NewEthereumReader(log, &cfg, v)
	if err != nil {
		return nil, fmt.Errorf("infra: failed to init chain reader: %w", err)
	}
	return r, nil
}
