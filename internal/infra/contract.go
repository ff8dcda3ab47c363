package infra

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bowenxiang/blockorder-bsc-service/internal/adapter/contract"
	"github.com/bowenxiang/blockorder-bsc-service/internal/core/port"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
)

// InitContractReader loads the contract info file for the configured
// network, dials the RPC endpoint, and returns the read-only contract
// reader.
func InitContractReader(ctx context.Context, log applog.AppLogger, v *validator.Validate) (port.ContractReader, error) {
	if v == nil {
		v = validator.New()
	}

	cfg := contract.Config{
		InfoPath:             viper.GetString("contract.info_path"),
		Network:              viper.GetString("contract.network"),
		CallTimeoutSeconds:   viper.GetInt("contract.call_timeout_seconds"),
		CallMaxRetryAttempts: viper.GetInt("contract.call_max_retry_attempts"),
	}

	info, err := contract.LoadInfo(cfg.InfoPath, cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("infra: failed to load contract info: %w", err)
	}

	client, err := ethclient.DialContext(ctx, viper.GetString("chain.rpc_url"))
	if err != nil {
		return nil, fmt.Errorf("infra: failed to dial RPC endpoint: %w", err)
	}

	r, err := contract.NewMerkleReader(log, client, info, &cfg, v)
	if err != nil {
		return nil, fmt.Errorf("infra: failed to init contract reader: %w", err)
	}
	return r, nil
}

// WellKnownAddresses returns the admin and owner addresses the contract
// service queries, taken from configuration rather than code constants.
func WellKnownAddresses() (admin, owner common.Address, err error) {
	adminStr := viper.GetString("contract.admin_address")
	ownerStr := viper.GetString("contract.owner_address")
	if !common.IsHexAddress(adminStr) {
		return common.Address{}, common.Address{}, fmt.Errorf("infra: invalid contract.admin_address %q", adminStr)
	}
	if !common.IsHexAddress(ownerStr) {
		return common.Address{}, common.Address{}, fmt.Errorf("infra: invalid contract.owner_address %q", ownerStr)
	}
	return common.HexToAddress(adminStr), common.HexToAddress(ownerStr), nil
}
