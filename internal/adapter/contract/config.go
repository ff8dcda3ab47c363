package contract

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
)

// Config ties the reader to one deployed contract described by an info file
// keyed by network name.
type Config struct {
	InfoPath             string `validate:"required"`
	Network              string `validate:"required"`
	CallTimeoutSeconds   int    `validate:"gte=0,lte=300"`
	CallMaxRetryAttempts int    `validate:"gte=0"`
}

// Info is the parsed contract entry for one network: the deployed address
// and its ABI.
type Info struct {
	Address common.Address
	ABI     abi.ABI
}

type infoFileEntry struct {
	Address string          `json:"address"`
	ABI     json.RawMessage `json:"abi"`
}

// LoadInfo reads the contract info file and returns the entry for the given
// network. Any problem with the file is a fatal configuration error: a
// missing file, malformed JSON, an unknown network key, a bad address, or
// an ABI that does not parse.
func LoadInfo(path, network string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.NewConfigErr("failed to read contract info file", err)
	}

	var entries map[string]infoFileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperr.NewConfigErr("malformed contract info file", err)
	}

	entry, ok := entries[network]
	if !ok {
		return nil, apperr.NewConfigErr("contract info has no entry for network "+network, nil)
	}
	if !common.IsHexAddress(entry.Address) {
		return nil, apperr.NewConfigErr("invalid contract address for network "+network, nil)
	}
	if len(entry.ABI) == 0 {
		return nil, apperr.NewConfigErr("contract info is missing the abi for network "+network, nil)
	}

	parsed, err := abi.JSON(bytes.NewReader(entry.ABI))
	if err != nil {
		return nil, apperr.NewConfigErr("failed to parse contract abi", err)
	}

	return &Info{
		Address: common.HexToAddress(entry.Address),
		ABI:     parsed,
	}, nil
}
