package contract

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

const testInfoJSON = `{
  "bsc": {
    "address": "0xaA7CAaDA823300D18D3c43f65569a47e78220073",
    "abi": [
      {"inputs":[],"name":"merkleRoot","outputs":[{"type":"bytes32"}],"stateMutability":"view","type":"function"},
      {"inputs":[{"type":"bytes32"},{"type":"address"}],"name":"hasRole","outputs":[{"type":"bool"}],"stateMutability":"view","type":"function"},
      {"inputs":[{"type":"address"}],"name":"getPrimeByOwner","outputs":[{"type":"uint256"}],"stateMutability":"view","type":"function"}
    ]
  }
}`

func writeInfoFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract_info.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadInfo(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		info, err := LoadInfo(writeInfoFile(t, testInfoJSON), "bsc")
		require.NoError(t, err)
		require.Equal(t, common.HexToAddress("0xaA7CAaDA823300D18D3c43f65569a47e78220073"), info.Address)
		require.Contains(t, info.ABI.Methods, "merkleRoot")
		require.Contains(t, info.ABI.Methods, "hasRole")
		require.Contains(t, info.ABI.Methods, "getPrimeByOwner")
	})

	cases := []struct {
		name    string
		content string
		network string
	}{
		{name: "missing_network", content: testInfoJSON, network: "mainnet"},
		{name: "malformed_json", content: "{", network: "bsc"},
		{name: "bad_address", content: `{"bsc":{"address":"nope","abi":[]}}`, network: "bsc"},
		{name: "missing_abi", content: `{"bsc":{"address":"0xaA7CAaDA823300D18D3c43f65569a47e78220073"}}`, network: "bsc"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadInfo(writeInfoFile(t, tc.content), tc.network)
			var ce *apperr.ConfigErr
			require.ErrorAs(t, err, &ce)
		})
	}

	t.Run("missing_file", func(t *testing.T) {
		_, err := LoadInfo(filepath.Join(t.TempDir(), "absent.json"), "bsc")
		var ce *apperr.ConfigErr
		require.ErrorAs(t, err, &ce)
	})
}

type fakeCaller struct {
	fn      func(ethereum.CallMsg) ([]byte, error)
	lastMsg ethereum.CallMsg
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.lastMsg = msg
	return f.fn(msg)
}

func newTestReader(t *testing.T, caller *fakeCaller) (*MerkleReader, *Info) {
	t.Helper()
	info, err := LoadInfo(writeInfoFile(t, testInfoJSON), "bsc")
	require.NoError(t, err)
	cfg := &Config{InfoPath: "unused", Network: "bsc", CallMaxRetryAttempts: 1}
	r, err := NewMerkleReader(noopLogger{}, caller, info, cfg, validator.New())
	require.NoError(t, err)
	return r, info
}

func TestMerkleReader_MerkleRoot(t *testing.T) {
	root := [32]byte{0xde, 0xad, 0xbe, 0xef}
	var info *Info
	caller := &fakeCaller{}
	caller.fn = func(msg ethereum.CallMsg) ([]byte, error) {
		return info.ABI.Methods["merkleRoot"].Outputs.Pack(root)
	}
	r, loaded := newTestReader(t, caller)
	info = loaded

	got, err := r.MerkleRoot(context.Background())
	require.NoError(t, err)
	require.Equal(t, root, got)

	// the call targets the configured address with the method selector
	require.Equal(t, info.Address, *caller.lastMsg.To)
	require.Equal(t, info.ABI.Methods["merkleRoot"].ID, caller.lastMsg.Data[:4])
}

func TestMerkleReader_HasRole(t *testing.T) {
	account := common.HexToAddress("0xAC55e7d73A792fE1A9e051BDF4A010c33962809A")
	var info *Info
	caller := &fakeCaller{}
	caller.fn = func(msg ethereum.CallMsg) ([]byte, error) {
		return info.ABI.Methods["hasRole"].Outputs.Pack(true)
	}
	r, loaded := newTestReader(t, caller)
	info = loaded

	got, err := r.HasRole(context.Background(), [32]byte{}, account)
	require.NoError(t, err)
	require.True(t, got)

	// calldata carries the packed role and account
	args, err := info.ABI.Methods["hasRole"].Inputs.Unpack(caller.lastMsg.Data[4:])
	require.NoError(t, err)
	require.Equal(t, [32]byte{}, args[0])
	require.Equal(t, account, args[1])
}

func TestMerkleReader_PrimeByOwner(t *testing.T) {
	owner := common.HexToAddress("0x793A37a85964D96ACD6368777c7C7050F05b11dE")
	var info *Info
	caller := &fakeCaller{}
	caller.fn = func(msg ethereum.CallMsg) ([]byte, error) {
		return info.ABI.Methods["getPrimeByOwner"].Outputs.Pack(big.NewInt(104729))
	}
	r, loaded := newTestReader(t, caller)
	info = loaded

	got, err := r.PrimeByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Equal(t, int64(104729), got.Int64())
}

func TestMerkleReader_CallFailure(t *testing.T) {
	caller := &fakeCaller{fn: func(ethereum.CallMsg) ([]byte, error) {
		return nil, errors.New("execution reverted")
	}}
	r, _ := newTestReader(t, caller)

	_, err := r.MerkleRoot(context.Background())
	var ce *apperr.ContractCallErr
	require.ErrorAs(t, err, &ce)
}

func TestNewMerkleReader_Validation(t *testing.T) {
	info := &Info{}
	v := validator.New()

	_, err := NewMerkleReader(noopLogger{}, &fakeCaller{fn: nil}, info, &Config{}, v)
	var ce *apperr.ContractCallErr
	require.ErrorAs(t, err, &ce)

	cfg := &Config{InfoPath: "x", Network: "bsc"}
	_, err = NewMerkleReader(noopLogger{}, nil, info, cfg, v)
	require.ErrorAs(t, err, &ce)
}
