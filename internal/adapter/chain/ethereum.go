package chain

import (
	"context"
	"errors"
	"math/big"
	"net"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-playground/validator/v10"

	"github.com/bowenxiang/blockorder-bsc-service/internal/core/entity"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
	imetrics "github.com/bowenxiang/blockorder-bsc-service/internal/pkg/metrics"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/pattern"
)

const defaultFetchTimeout = 10 * time.Second

// EthereumReader reads blocks and transactions from an Ethereum-compatible
// JSON-RPC node. It dials lazily with backoff, drops the client on read
// failures so the next call reconnects, and maps go-ethereum types to the
// internal entities.
//
// Use NewEthereumReader to construct an instance. EthereumReader is safe
// for concurrent use.
type EthereumReader struct {
	log           applog.AppLogger
	config        *Config
	mu            sync.Mutex
	client        ethereumClient
	newClient     func(context.Context) (ethereumClient, error)
	dialRetryOpts []pattern.RetryOption
}

// NewEthereumReader validates the configuration and returns a reader bound
// to the configured RPC endpoint. No connection is made until the first
// read.
func NewEthereumReader(log applog.AppLogger, cfg *Config, v *validator.Validate) (*EthereumReader, error) {
	if err := v.Struct(cfg); err != nil {
		log.Error("invalid chain config", "err", err)
		return nil, apperr.NewChainReadErr("invalid chain config", err)
	}

	r := &EthereumReader{
		log:    log,
		config: cfg,
	}
	r.newClient = func(ctx context.Context) (ethereumClient, error) {
		return ethclient.DialContext(ctx, cfg.RPCURL)
	}
	r.dialRetryOpts = dialRetryOptionsFromConfig(cfg)

	return r, nil
}

func dialRetryOptionsFromConfig(cfg *Config) []pattern.RetryOption {
	var opts []pattern.RetryOption
	if cfg.DialMaxRetryAttempts > 0 {
		opts = append(opts, pattern.WithMaxAttempts(cfg.DialMaxRetryAttempts))
	} else {
		opts = append(opts, pattern.WithMaxAttempts(5))
	}
	if cfg.DialRetryInitialBackoffMS > 0 {
		opts = append(opts, pattern.WithInitialDelay(time.Duration(cfg.DialRetryInitialBackoffMS)*time.Millisecond))
	}
	if cfg.DialRetryMaxBackoffMS > 0 {
		opts = append(opts, pattern.WithMaxDelay(time.Duration(cfg.DialRetryMaxBackoffMS)*time.Millisecond))
	}
	if cfg.DialRetryJitter > 0 {
		opts = append(opts, pattern.WithJitter(cfg.DialRetryJitter))
	}
	return opts
}

// BlockByNumber fetches the block at the given height and returns its base
// fee and transaction hashes in canonical inclusion order. Blocks without a
// base fee (pre-fee-market) report a nil BaseFee.
func (r *EthereumReader) BlockByNumber(ctx context.Context, number uint64) (*entity.Block, error) {
	client, err := r.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := r.withFetchTimeout(ctx)
	defer cancel()

	start := time.Now()
	blk, err := client.BlockByNumber(fetchCtx, new(big.Int).SetUint64(number))
	imetrics.Chain().FetchLatencyMS.WithLabelValues("block").Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		imetrics.Chain().FetchErrorsTotal.WithLabelValues("block", classifyReadError(err)).Inc()
		r.dropClient()
		r.log.Warn("Failed to fetch block", "number", number, "err", err)
		return nil, apperr.NewChainReadErr("failed to fetch block", err)
	}

	return mapBlock(blk), nil
}

// TransactionByHash fetches a single transaction and maps its fee fields.
func (r *EthereumReader) TransactionByHash(ctx context.Context, hash common.Hash) (*entity.Transaction, error) {
	client, err := r.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := r.withFetchTimeout(ctx)
	defer cancel()

	start := time.Now()
	tx, _, err := client.TransactionByHash(fetchCtx, hash)
	imetrics.Chain().FetchLatencyMS.WithLabelValues("transaction").Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		imetrics.Chain().FetchErrorsTotal.WithLabelValues("transaction", classifyReadError(err)).Inc()
		r.log.Warn("Failed to fetch transaction", "hash", hash.Hex(), "err", err)
		return nil, apperr.NewChainReadErr("failed to fetch transaction", err)
	}

	return mapTransaction(tx), nil
}

// Close releases the underlying RPC client, if connected.
func (r *EthereumReader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		r.client.Close()
		r.client = nil
		imetrics.Chain().Connected.Set(0)
	}
}

func (r *EthereumReader) ensureClient(ctx context.Context) (ethereumClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return r.client, nil
	}

	var client ethereumClient
	opts := []pattern.RetryOption{
		pattern.WithInitialDelay(500 * time.Millisecond),
		pattern.WithMaxDelay(10 * time.Second),
		pattern.WithMultiplier(2.0),
		pattern.WithJitter(0.2),
	}
	opts = append(opts, r.dialRetryOpts...)

	err := pattern.Retry(
		ctx,
		func(attempt int) error {
			if r.newClient == nil {
				return apperr.NewChainReadErr("client factory not configured", nil)
			}
			c, err := r.newClient(ctx)
			if err != nil {
				imetrics.Chain().ReconnectsTotal.WithLabelValues("dial").Inc()
				r.log.Warn("Ethereum dial failed", "attempt", attempt, "err", err)
				imetrics.App().WarningsTotal.WithLabelValues(imetrics.ComponentChain, "dial").Inc()
				return err
			}
			client = c
			return nil
		},
		opts...,
	)
	if err != nil {
		imetrics.App().ErrorsTotal.WithLabelValues(imetrics.ComponentChain, classifyReadError(err)).Inc()
		return nil, apperr.NewChainReadErr("failed to connect to RPC node", err)
	}

	r.client = client
	imetrics.Chain().Connected.Set(1)
	return client, nil
}

func (r *EthereumReader) dropClient() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		r.client.Close()
		r.client = nil
	}
	imetrics.Chain().Connected.Set(0)
	imetrics.Chain().ReconnectsTotal.WithLabelValues("fetch").Inc()
}

func (r *EthereumReader) withFetchTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := defaultFetchTimeout
	if r.config.FetchTimeoutSeconds > 0 {
		timeout = time.Duration(r.config.FetchTimeoutSeconds) * time.Second
	}
	return context.WithTimeout(parent, timeout)
}

func mapBlock(blk *types.Block) *entity.Block {
	txs := blk.Transactions()
	hashes := make([]common.Hash, len(txs))
	for i, tx := range txs {
		hashes[i] = tx.Hash()
	}
	return &entity.Block{
		Hash:     blk.Hash(),
		Number:   blk.NumberU64(),
		BaseFee:  blk.BaseFee(),
		TxHashes: hashes,
	}
}

func mapTransaction(tx *types.Transaction) *entity.Transaction {
	return &entity.Transaction{
		Hash:                 tx.Hash(),
		Type:                 tx.Type(),
		GasPrice:             tx.GasPrice(),
		MaxFeePerGas:         tx.GasFeeCap(),
		MaxPriorityFeePerGas: tx.GasTipCap(),
	}
}

func classifyReadError(err error) string {
	var netErr net.Error

	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr):
		return "network"
	default:
		return "rpc"
	}
}

type ethereumClient interface {
	BlockByNumber(context.Context, *big.Int) (*types.Block, error)
	TransactionByHash(context.Context, common.Hash) (*types.Transaction, bool, error)
	Close()
}
