package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Transaction type identifiers as they appear on the wire.
const (
	TxTypeLegacy     uint8 = 0
	TxTypeAccessList uint8 = 1
	TxTypeFeeMarket  uint8 = 2
)

// Block is the subset of an Ethereum block needed for ordering checks:
// the base fee and the transaction hashes in canonical inclusion order.
type Block struct {
	Hash     common.Hash `validate:"required"`
	Number   uint64
	BaseFee  *big.Int
	TxHashes []common.Hash
}

// Transaction captures the fee-relevant fields of a transaction. Pointer
// fields are nil when the node omits them; consumers treat nil as zero.
type Transaction struct {
	Hash                 common.Hash
	Type                 uint8
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}
