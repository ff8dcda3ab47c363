package contract

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
	imetrics "github.com/bowenxiang/blockorder-bsc-service/internal/pkg/metrics"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/pattern"
)

const (
	defaultCallTimeout       = 10 * time.Second
	defaultCallRetryAttempts = 3

	methodMerkleRoot      = "merkleRoot"
	methodHasRole         = "hasRole"
	methodGetPrimeByOwner = "getPrimeByOwner"
)

// contractCaller is the slice of the RPC client needed for eth_call.
// ethclient.Client satisfies it in production; tests use fakes.
type contractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// MerkleReader performs read-only calls against the Merkle contract. Each
// call packs arguments with the loaded ABI, executes eth_call at the latest
// block, and unpacks the single return value.
type MerkleReader struct {
	log         applog.AppLogger
	caller      contractCaller
	info        *Info
	callTimeout time.Duration
	retryOpts   []pattern.RetryOption
}

// NewMerkleReader validates the configuration and binds the reader to the
// given caller and contract info.
func NewMerkleReader(log applog.AppLogger, caller contractCaller, info *Info, cfg *Config, v *validator.Validate) (*MerkleReader, error) {
	if err := v.Struct(cfg); err != nil {
		log.Error("invalid contract config", "err", err)
		return nil, apperr.NewContractCallErr("invalid contract config", err)
	}
	if caller == nil {
		return nil, apperr.NewContractCallErr("contract caller is required", nil)
	}
	if info == nil {
		return nil, apperr.NewContractCallErr("contract info is required", nil)
	}

	timeout := defaultCallTimeout
	if cfg.CallTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.CallTimeoutSeconds) * time.Second
	}
	attempts := defaultCallRetryAttempts
	if cfg.CallMaxRetryAttempts > 0 {
		attempts = cfg.CallMaxRetryAttempts
	}

	return &MerkleReader{
		log:         log,
		caller:      caller,
		info:        info,
		callTimeout: timeout,
		retryOpts: []pattern.RetryOption{
			pattern.WithMaxAttempts(attempts),
			pattern.WithInitialDelay(200 * time.Millisecond),
			pattern.WithMaxDelay(2 * time.Second),
		},
	}, nil
}

// MerkleRoot returns the contract's current Merkle root.
func (r *MerkleReader) MerkleRoot(ctx context.Context) ([32]byte, error) {
	out, err := r.call(ctx, methodMerkleRoot)
	if err != nil {
		return [32]byte{}, err
	}
	root, ok := out[0].([32]byte)
	if !ok {
		return [32]byte{}, apperr.NewContractCallErr("merkleRoot returned an unexpected type", nil)
	}
	return root, nil
}

// HasRole reports whether the account holds the given role identifier.
func (r *MerkleReader) HasRole(ctx context.Context, role [32]byte, account common.Address) (bool, error) {
	out, err := r.call(ctx, methodHasRole, role, account)
	if err != nil {
		return false, err
	}
	has, ok := out[0].(bool)
	if !ok {
		return false, apperr.NewContractCallErr("hasRole returned an unexpected type", nil)
	}
	return has, nil
}

// PrimeByOwner returns the prime associated with the owner address.
func (r *MerkleReader) PrimeByOwner(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := r.call(ctx, methodGetPrimeByOwner, owner)
	if err != nil {
		return nil, err
	}
	prime, ok := out[0].(*big.Int)
	if !ok {
		return nil, apperr.NewContractCallErr("getPrimeByOwner returned an unexpected type", nil)
	}
	return prime, nil
}

func (r *MerkleReader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	calldata, err := r.info.ABI.Pack(method, args...)
	if err != nil {
		imetrics.Contract().CallsTotal.WithLabelValues(method, "pack_error").Inc()
		return nil, apperr.NewContractCallErr("failed to encode call to "+method, err)
	}

	msg := ethereum.CallMsg{To: &r.info.Address, Data: calldata}

	var raw []byte
	start := time.Now()
	err = pattern.Retry(ctx, func(attempt int) error {
		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		defer cancel()
		res, callErr := r.caller.CallContract(callCtx, msg, nil)
		if callErr != nil {
			r.log.Warn("Contract call failed", "method", method, "attempt", attempt, "err", callErr)
			imetrics.App().WarningsTotal.WithLabelValues(imetrics.ComponentContract, "call").Inc()
			return callErr
		}
		raw = res
		return nil
	}, r.retryOpts...)
	imetrics.Contract().CallLatencyMS.WithLabelValues(method).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		imetrics.Contract().CallsTotal.WithLabelValues(method, "call_error").Inc()
		return nil, apperr.NewContractCallErr("call to "+method+" failed", err)
	}

	out, err := r.info.ABI.Unpack(method, raw)
	if err != nil {
		imetrics.Contract().CallsTotal.WithLabelValues(method, "unpack_error").Inc()
		return nil, apperr.NewContractCallErr("failed to decode result of "+method, err)
	}
	if len(out) == 0 {
		imetrics.Contract().CallsTotal.WithLabelValues(method, "unpack_error").Inc()
		return nil, apperr.NewContractCallErr(method+" returned no values", nil)
	}

	imetrics.Contract().CallsTotal.WithLabelValues(method, "ok").Inc()
	return out, nil
}
