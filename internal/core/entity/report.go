package entity

import "math/big"

// OrderingReport is the outcome of one block ordering check. A report is
// only produced when the block itself could be fetched; infrastructure
// failures surface as errors instead of a report.
type OrderingReport struct {
	Number  uint64
	BaseFee *big.Int
	// Ordered is true when the priority-fee sequence is non-increasing in
	// canonical block order (vacuously true for empty blocks).
	Ordered bool
	// Fees holds the computed priority fee per compared transaction, in
	// block order. Skipped transactions leave no placeholder.
	Fees []*big.Int
	// CheckedTxs and SkippedTxs partition the block's transaction list.
	CheckedTxs int
	SkippedTxs int
	// ViolationIndex is the index into Fees of the first fee that exceeds
	// its predecessor, or -1 when Ordered.
	ViolationIndex int
}

// ContractValues bundles the three read-only values exposed by the Merkle
// contract.
type ContractValues struct {
	MerkleRoot   [32]byte
	AdminHasRole bool
	OwnerPrime   *big.Int
}
