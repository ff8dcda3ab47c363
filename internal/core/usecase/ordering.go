package usecase

import (
	"context"
	"math/big"

	"github.com/bowenxiang/blockorder-bsc-service/internal/core/entity"
	"github.com/bowenxiang/blockorder-bsc-service/internal/core/port"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
	imetrics "github.com/bowenxiang/blockorder-bsc-service/internal/pkg/metrics"
)

// OrderingService verifies that the transactions of a block are sorted in
// non-increasing order of their effective priority fee. It performs no I/O
// of its own beyond reads through the injected ChainReader and holds no
// mutable state, so it is safe for concurrent use.
type OrderingService struct {
	log   applog.AppLogger
	chain port.ChainReader
	cache port.ReportCache
}

// NewOrderingService builds an OrderingService. The cache is optional; pass
// nil to check every block against the chain.
func NewOrderingService(log applog.AppLogger, chain port.ChainReader, cache port.ReportCache) *OrderingService {
	return &OrderingService{log: log, chain: chain, cache: cache}
}

// CheckBlock fetches the block, computes each transaction's priority fee in
// canonical inclusion order, and reports whether the sequence is
// non-increasing. Transactions that cannot be resolved are skipped and
// excluded from the comparison; a block that cannot be fetched is an error,
// not a negative result.
func (s *OrderingService) CheckBlock(ctx context.Context, number uint64) (*entity.OrderingReport, error) {
	if s.cache != nil {
		cached, err := s.cache.GetReport(ctx, number)
		switch {
		case err != nil:
			imetrics.Ordering().CacheLookupTotal.WithLabelValues("error").Inc()
			s.log.Warn("Report cache lookup failed; checking against chain", "number", number, "err", err)
		case cached != nil:
			imetrics.Ordering().CacheLookupTotal.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			imetrics.Ordering().CacheLookupTotal.WithLabelValues("miss").Inc()
		}
	}

	block, err := s.chain.BlockByNumber(ctx, number)
	if err != nil {
		imetrics.Ordering().ChecksTotal.WithLabelValues("failed").Inc()
		imetrics.App().ErrorsTotal.WithLabelValues(imetrics.ComponentOrdering, "block_fetch").Inc()
		s.log.Error("Failed to fetch block for ordering check", "number", number, "err", err)
		return nil, apperr.NewOrderCheckErr("failed to fetch block", err)
	}

	fees := make([]*big.Int, 0, len(block.TxHashes))
	skipped := 0
	for _, hash := range block.TxHashes {
		tx, err := s.chain.TransactionByHash(ctx, hash)
		if err != nil {
			skipped++
			imetrics.Ordering().SkippedTxsTotal.Inc()
			s.log.Warn("Skipping unresolvable transaction", "number", number, "hash", hash.Hex(), "err", err)
			continue
		}
		fees = append(fees, priorityFee(block.BaseFee, tx))
	}

	ordered, violation := nonIncreasing(fees)
	report := &entity.OrderingReport{
		Number:         number,
		BaseFee:        block.BaseFee,
		Ordered:        ordered,
		Fees:           fees,
		CheckedTxs:     len(fees),
		SkippedTxs:     skipped,
		ViolationIndex: violation,
	}

	imetrics.Ordering().CheckedTxs.Observe(float64(len(fees)))
	if ordered {
		imetrics.Ordering().ChecksTotal.WithLabelValues("ordered").Inc()
	} else {
		imetrics.Ordering().ChecksTotal.WithLabelValues("unordered").Inc()
	}

	if s.cache != nil {
		if err := s.cache.PutReport(ctx, report); err != nil {
			s.log.Warn("Failed to cache ordering report", "number", number, "err", err)
		}
	}

	s.log.Trace("Checked block ordering", "number", number, "ordered", ordered, "checked", len(fees), "skipped", skipped)
	return report, nil
}

// IsOrderedBlock collapses CheckBlock into a single boolean, treating fetch
// failures as false. Callers that need to tell "not ordered" apart from
// "could not verify" should use CheckBlock.
func (s *OrderingService) IsOrderedBlock(ctx context.Context, number uint64) bool {
	report, err := s.CheckBlock(ctx, number)
	if err != nil {
		return false
	}
	return report.Ordered
}

// priorityFee applies the per-transaction fee policy. Fee-market (type 2)
// transactions pay min(maxPriorityFeePerGas, maxFeePerGas - baseFeePerGas);
// legacy and access-list transactions pay gasPrice - baseFeePerGas. Absent
// fields count as zero, so the result can be negative.
func priorityFee(baseFee *big.Int, tx *entity.Transaction) *big.Int {
	base := bigOrZero(baseFee)
	if tx.Type == entity.TxTypeFeeMarket {
		tip := bigOrZero(tx.MaxPriorityFeePerGas)
		headroom := new(big.Int).Sub(bigOrZero(tx.MaxFeePerGas), base)
		if tip.Cmp(headroom) <= 0 {
			return new(big.Int).Set(tip)
		}
		return headroom
	}
	return new(big.Int).Sub(bigOrZero(tx.GasPrice), base)
}

// nonIncreasing walks the fee sequence in block order and returns the index
// of the first fee that exceeds its predecessor, or (true, -1) when no pair
// violates. Ties are permitted.
func nonIncreasing(fees []*big.Int) (bool, int) {
	for i := 1; i < len(fees); i++ {
		if fees[i-1].Cmp(fees[i]) < 0 {
			return false, i
		}
	}
	return true, -1
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
