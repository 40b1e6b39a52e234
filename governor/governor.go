// Package governor binds the three Governor contract operations the voting
// layer depends on: getVotes, hasVoted, and castVote, plus the confirmation
// wait that turns a broadcast transaction into a settled vote.
package governor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Standard Governor ABI fragment (OpenZeppelin/Compound convention).
const governorABIJSON = `[
  {"type":"function","name":"getVotes","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"hasVoted","stateMutability":"view","inputs":[{"name":"proposalId","type":"uint256"},{"name":"account","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"castVote","stateMutability":"nonpayable","inputs":[{"name":"proposalId","type":"uint256"},{"name":"support","type":"uint8"}],"outputs":[{"name":"","type":"uint256"}]}
]`

// Backend is the subset of the Ethereum RPC surface the contract needs.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractCaller
	bind.ContractTransactor
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
}

// Contract is a bound Governor instance.
type Contract struct {
	address      common.Address
	bound        *bind.BoundContract
	backend      Backend
	pollInterval time.Duration
	log          *slog.Logger
}

// New binds the Governor at the given hex address over the backend.
func New(address string, backend Backend, log *slog.Logger) (*Contract, error) {
	trimmed := strings.TrimSpace(address)
	if !common.IsHexAddress(trimmed) {
		return nil, fmt.Errorf("invalid governor address %q", address)
	}
	if backend == nil {
		return nil, fmt.Errorf("governor backend required")
	}
	if log == nil {
		log = slog.Default()
	}
	parsed, err := abi.JSON(strings.NewReader(governorABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse governor abi: %w", err)
	}
	addr := common.HexToAddress(trimmed)
	return &Contract{
		address:      addr,
		bound:        bind.NewBoundContract(addr, parsed, backend, backend, nil),
		backend:      backend,
		pollInterval: 2 * time.Second,
		log:          log,
	}, nil
}

// Address returns the bound contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// GetVotes reads the account's live vote weight in token base units. This is
// a current-state read, unlike the snapshot hub's historical balance query.
func (c *Contract) GetVotes(ctx context.Context, account common.Address) (*big.Int, error) {
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, "getVotes", account); err != nil {
		return nil, fmt.Errorf("getVotes: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("getVotes returned no value")
	}
	weight, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getVotes returned unexpected type %T", out[0])
	}
	return weight, nil
}

// HasVoted reads the duplicate-vote flag for (proposal, account).
func (c *Contract) HasVoted(ctx context.Context, proposalID *big.Int, account common.Address) (bool, error) {
	if proposalID == nil {
		return false, fmt.Errorf("proposal id required")
	}
	var out []interface{}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &out, "hasVoted", proposalID, account); err != nil {
		return false, fmt.Errorf("hasVoted: %w", err)
	}
	if len(out) == 0 {
		return false, fmt.Errorf("hasVoted returned no value")
	}
	voted, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("hasVoted returned unexpected type %T", out[0])
	}
	return voted, nil
}

// CastVote broadcasts the vote transaction. The returned transaction is only
// a broadcast acknowledgement; callers must WaitConfirmed before treating
// the vote as final.
func (c *Contract) CastVote(opts *bind.TransactOpts, proposalID *big.Int, support uint8) (*gethtypes.Transaction, error) {
	if opts == nil {
		return nil, fmt.Errorf("transact opts required")
	}
	if proposalID == nil {
		return nil, fmt.Errorf("proposal id required")
	}
	tx, err := c.bound.Transact(opts, "castVote", proposalID, support)
	if err != nil {
		return nil, fmt.Errorf("castVote: %w", err)
	}
	return tx, nil
}

// WaitConfirmed polls for the transaction receipt until the transaction is
// mined. A mined-but-reverted execution is an error: the broadcast hash alone
// never counts as a successful vote.
func (c *Contract) WaitConfirmed(ctx context.Context, txHash common.Hash) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status != gethtypes.ReceiptStatusSuccessful {
				return fmt.Errorf("transaction %s reverted", txHash.Hex())
			}
			return nil
		case err != nil && !errors.Is(err, ethereum.NotFound):
			return fmt.Errorf("fetch receipt: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
