package port

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ContractReader exposes the read-only calls of the Merkle contract.
type ContractReader interface {
	MerkleRoot(ctx context.Context) ([32]byte, error)
	HasRole(ctx context.Context, role [32]byte, account common.Address) (bool, error)
	PrimeByOwner(ctx context.Context, owner common.Address) (*big.Int, error)
}
