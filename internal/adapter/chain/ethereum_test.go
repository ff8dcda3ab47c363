package chain

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/pattern"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

type fakeEthereumClient struct {
	blockByNumberFn func(context.Context, *big.Int) (*types.Block, error)
	txByHashFn      func(context.Context, common.Hash) (*types.Transaction, bool, error)
	closeFn         func()
}

func (f *fakeEthereumClient) BlockByNumber(ctx context.Context, n *big.Int) (*types.Block, error) {
	return f.blockByNumberFn(ctx, n)
}

func (f *fakeEthereumClient) TransactionByHash(ctx context.Context, h common.Hash) (*types.Transaction, bool, error) {
	return f.txByHashFn(ctx, h)
}

func (f *fakeEthereumClient) Close() {
	if f.closeFn != nil {
		f.closeFn()
	}
}

func TestNewEthereumReader_InvalidConfig(t *testing.T) {
	_, err := NewEthereumReader(noopLogger{}, &Config{}, validator.New())
	var ce *apperr.ChainReadErr
	require.ErrorAs(t, err, &ce)
}

func TestEthereumReader_ensureClient(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                  string
		attemptsBeforeSuccess int
		ctxTimeout            time.Duration
		wantErr               bool
	}{
		{
			name:                  "succeeds_after_retries",
			attemptsBeforeSuccess: 3,
			ctxTimeout:            3 * time.Second,
			wantErr:               false,
		},
		{
			name:                  "context_deadline",
			attemptsBeforeSuccess: 100,
			ctxTimeout:            50 * time.Millisecond,
			wantErr:               true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			reader := &EthereumReader{
				log:           noopLogger{},
				config:        &Config{RPCURL: "http://ignored"},
				dialRetryOpts: []pattern.RetryOption{pattern.WithInfiniteAttempts(), pattern.WithInitialDelay(time.Millisecond)},
			}

			var attempts int32
			client := &fakeEthereumClient{}
			reader.newClient = func(ctx context.Context) (ethereumClient, error) {
				if atomic.AddInt32(&attempts, 1) < int32(tc.attemptsBeforeSuccess) {
					return nil, errors.New("dial failed")
				}
				return client, nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), tc.ctxTimeout)
			defer cancel()

			got, err := reader.ensureClient(ctx)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, client, got)
			require.Equal(t, int32(tc.attemptsBeforeSuccess), attempts)
		})
	}
}

func TestEthereumReader_BlockByNumberMapsFields(t *testing.T) {
	txs := []*types.Transaction{
		types.NewTx(&types.LegacyTx{Nonce: 0, GasPrice: big.NewInt(50), Gas: 21000}),
		types.NewTx(&types.DynamicFeeTx{Nonce: 1, GasTipCap: big.NewInt(5), GasFeeCap: big.NewInt(120), Gas: 21000}),
	}
	blk := types.NewBlockWithHeader(&types.Header{
		Number:  big.NewInt(7),
		BaseFee: big.NewInt(100),
	}).WithBody(types.Body{Transactions: txs})

	reader := newTestReader(&fakeEthereumClient{
		blockByNumberFn: func(_ context.Context, n *big.Int) (*types.Block, error) {
			require.Equal(t, uint64(7), n.Uint64())
			return blk, nil
		},
	})

	got, err := reader.BlockByNumber(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, uint64(7), got.Number)
	require.Equal(t, int64(100), got.BaseFee.Int64())
	require.Len(t, got.TxHashes, 2)
	require.Equal(t, txs[0].Hash(), got.TxHashes[0])
	require.Equal(t, txs[1].Hash(), got.TxHashes[1])
}

func TestEthereumReader_BlockByNumberErrorDropsClient(t *testing.T) {
	var dials atomic.Int32
	var closed atomic.Bool
	reader := &EthereumReader{
		log:           noopLogger{},
		config:        &Config{RPCURL: "http://ignored"},
		dialRetryOpts: []pattern.RetryOption{pattern.WithMaxAttempts(1)},
	}
	reader.newClient = func(ctx context.Context) (ethereumClient, error) {
		dials.Add(1)
		return &fakeEthereumClient{
			blockByNumberFn: func(context.Context, *big.Int) (*types.Block, error) {
				return nil, errors.New("fetch err")
			},
			closeFn: func() { closed.Store(true) },
		}, nil
	}

	_, err := reader.BlockByNumber(context.Background(), 1)
	var ce *apperr.ChainReadErr
	require.ErrorAs(t, err, &ce)
	require.True(t, closed.Load())

	// the next read dials again
	_, _ = reader.BlockByNumber(context.Background(), 1)
	require.Equal(t, int32(2), dials.Load())
}

func TestEthereumReader_TransactionByHashMapsFeeFields(t *testing.T) {
	dynTx := types.NewTx(&types.DynamicFeeTx{
		Nonce:     3,
		GasTipCap: big.NewInt(5),
		GasFeeCap: big.NewInt(120),
		Gas:       21000,
	})

	reader := newTestReader(&fakeEthereumClient{
		txByHashFn: func(_ context.Context, h common.Hash) (*types.Transaction, bool, error) {
			require.Equal(t, dynTx.Hash(), h)
			return dynTx, false, nil
		},
	})

	got, err := reader.TransactionByHash(context.Background(), dynTx.Hash())
	require.NoError(t, err)
	require.Equal(t, uint8(2), got.Type)
	require.Equal(t, int64(5), got.MaxPriorityFeePerGas.Int64())
	require.Equal(t, int64(120), got.MaxFeePerGas.Int64())

	legacyTx := types.NewTx(&types.LegacyTx{GasPrice: big.NewInt(90), Gas: 21000})
	reader = newTestReader(&fakeEthereumClient{
		txByHashFn: func(context.Context, common.Hash) (*types.Transaction, bool, error) {
			return legacyTx, false, nil
		},
	})

	got, err = reader.TransactionByHash(context.Background(), legacyTx.Hash())
	require.NoError(t, err)
	require.Equal(t, uint8(0), got.Type)
	require.Equal(t, int64(90), got.GasPrice.Int64())
}

func newTestReader(client *fakeEthereumClient) *EthereumReader {
	r := &EthereumReader{
		log:    noopLogger{},
		config: &Config{RPCURL: "http://ignored"},
	}
	r.newClient = func(context.Context) (ethereumClient, error) { return client, nil }
	return r
}
