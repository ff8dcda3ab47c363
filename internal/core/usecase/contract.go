package usecase

import (
	"context"

	"github.com/bowenxiang/blockorder-bsc-service/internal/core/entity"
	"github.com/bowenxiang/blockorder-bsc-service/internal/core/port"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultAdminRole is the zero bytes32 role identifier used by
// AccessControl-style contracts for the default admin.
var DefaultAdminRole [32]byte

// ContractService reads the three well-known values from the Merkle
// contract: the on-chain Merkle root, whether the configured admin address
// holds the default admin role, and the prime owned by the configured owner
// address.
type ContractService struct {
	log    applog.AppLogger
	reader port.ContractReader
	admin  common.Address
	owner  common.Address
}

func NewContractService(log applog.AppLogger, reader port.ContractReader, admin, owner common.Address) *ContractService {
	return &ContractService{log: log, reader: reader, admin: admin, owner: owner}
}

// Values performs the three view calls in sequence and fails on the first
// error, naming the call that failed.
func (s *ContractService) Values(ctx context.Context) (*entity.ContractValues, error) {
	root, err := s.reader.MerkleRoot(ctx)
	if err != nil {
		s.log.Error("merkleRoot call failed", "err", err)
		return nil, apperr.NewContractCallErr("merkleRoot call failed", err)
	}

	hasRole, err := s.reader.HasRole(ctx, DefaultAdminRole, s.admin)
	if err != nil {
		s.log.Error("hasRole call failed", "account", s.admin.Hex(), "err", err)
		return nil, apperr.NewContractCallErr("hasRole call failed", err)
	}

	prime, err := s.reader.PrimeByOwner(ctx, s.owner)
	if err != nil {
		s.log.Error("getPrimeByOwner call failed", "owner", s.owner.Hex(), "err", err)
		return nil, apperr.NewContractCallErr("getPrimeByOwner call failed", err)
	}

	return &entity.ContractValues{
		MerkleRoot:   root,
		AdminHasRole: hasRole,
		OwnerPrime:   prime,
	}, nil
}
