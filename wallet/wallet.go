// Package wallet defines the capability surface the voting layer expects
// from a connected wallet. Key management and the signing implementation
// itself belong to the wallet provider; this package only names the
// operations and the sentinel error for user-declined requests.
package wallet

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// ErrRejected is returned when the user declines a signature or transaction
// prompt in the wallet. Callers map it to a retryable user-facing error.
var ErrRejected = errors.New("wallet: request rejected by user")

// Capability exposes the wallet state and primitives the vote engines need.
type Capability interface {
	// Address returns the active account. The boolean mirrors Connected.
	Address() (common.Address, bool)
	// Connected reports whether a wallet session is established.
	Connected() bool
	// ChainID is the network the wallet is currently attached to.
	ChainID() uint64
	// Connect starts the wallet connection flow.
	Connect(ctx context.Context) error
	// SignTypedData signs an EIP-712 payload with the active account.
	SignTypedData(ctx context.Context, data apitypes.TypedData) ([]byte, error)
	// Transactor yields signing options for contract-call submission.
	Transactor(ctx context.Context) (*bind.TransactOpts, error)
}

// IsRejected reports whether err represents a user-declined wallet prompt.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
