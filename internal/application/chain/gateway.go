package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"aquafund-backend/internal/pkg/apperr"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ErrContractRevert marks a call the contract rejected, as opposed to a transport failure.
var ErrContractRevert = errors.New("contract call reverted")

// revertMarkers are matched case-insensitively against RPC error text.
var revertMarkers = []string{"execution reverted", "reverted", "revert", "call_exception"}

// Caller is the read half of an RPC client. *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type blockNumberer interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Gateway performs read-only calls against the AquaFund contracts on one chain.
// It does not retry, batch or cache.
type Gateway struct {
	caller    Caller
	contracts map[Name]*Contract
}

// New builds a gateway over any Caller (tests pass a fake).
func New(caller Caller, addrs Addresses) (*Gateway, error) {
	contracts, err := loadContracts(addrs)
	if err != nil {
		return nil, err
	}
	return &Gateway{caller: caller, contracts: contracts}, nil
}

// Dial connects to rpcURL and builds a gateway on the resulting client.
func Dial(ctx context.Context, rpcURL string, addrs Addresses) (*Gateway, error) {
	if rpcURL == "" {
		return nil, apperr.ErrRPCNotConfigured
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", rpcURL, err)
	}
	return New(client, addrs)
}

// Contract returns the parsed contract for name.
func (g *Gateway) Contract(name Name) (*Contract, bool) {
	c, ok := g.contracts[name]
	return c, ok
}

// Call packs method with args, calls it on contract name at the given address (or the
// configured one when at is zero) and returns the decoded outputs.
func (g *Gateway) Call(ctx context.Context, name Name, at common.Address, method string, args ...interface{}) ([]interface{}, error) {
	if g == nil || g.caller == nil {
		return nil, apperr.ErrRPCNotConfigured
	}
	contract, ok := g.contracts[name]
	if !ok {
		return nil, fmt.Errorf("chain: unknown contract %q", name)
	}
	if at == (common.Address{}) {
		at = contract.Address
	}
	if at == (common.Address{}) {
		return nil, &apperr.ConfigError{Message: fmt.Sprintf("%s contract address not configured", name)}
	}

	data, err := contract.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("chain: pack %s.%s: %w", name, method, err)
	}
	out, err := g.caller.CallContract(ctx, ethereum.CallMsg{To: &at, Data: data}, nil)
	if err != nil {
		if IsRevert(err) {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrContractRevert, name, method, err)
		}
		return nil, fmt.Errorf("chain: call %s.%s: %w", name, method, err)
	}
	values, err := contract.ABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("chain: unpack %s.%s: %w", name, method, err)
	}
	return values, nil
}

// BlockNumber reports the chain head, used by the health check.
func (g *Gateway) BlockNumber(ctx context.Context) (uint64, error) {
	if g == nil || g.caller == nil {
		return 0, apperr.ErrRPCNotConfigured
	}
	bn, ok := g.caller.(blockNumberer)
	if !ok {
		return 0, errors.New("chain: caller cannot report block number")
	}
	return bn.BlockNumber(ctx)
}

// IsRevert reports whether err text carries a revert marker.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrContractRevert) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range revertMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
