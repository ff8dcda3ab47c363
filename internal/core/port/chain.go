package port

import (
	"context"

	"github.com/bowenxiang/blockorder-bsc-service/internal/core/entity"
	"github.com/ethereum/go-ethereum/common"
)

// ChainReader abstracts the RPC node the service reads blocks and
// transactions from. Implementations must be safe for concurrent use.
type ChainReader interface {
	BlockByNumber(ctx context.Context, number uint64) (*entity.Block, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*entity.Transaction, error)
}
