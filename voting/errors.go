package voting

import (
	"fmt"

	"votenow/registry"
	"votenow/wallet"
)

// Reason classifies a terminal submission failure.
type Reason string

const (
	// ReasonUserRejected covers a signature or transaction declined in the
	// wallet. Always recoverable; the UI offers retry.
	ReasonUserRejected Reason = "user_rejected"
	// ReasonConfigurationMissing covers absent DAO/proposal wiring. Not user
	// recoverable; retry must not be offered.
	ReasonConfigurationMissing Reason = "configuration_missing"
	// ReasonChainMismatch covers a wallet attached to the wrong network for
	// on-chain voting. Recoverable by switching networks manually.
	ReasonChainMismatch Reason = "chain_mismatch"
	// ReasonNetwork covers fetch/RPC failures. Recoverable via retry.
	ReasonNetwork Reason = "network"
)

// VoteError is the single error type stored as engine state. It is never
// allowed to escape as an unhandled failure.
type VoteError struct {
	Reason        Reason
	RequiredChain uint64
	Err           error
}

func (e *VoteError) Error() string {
	switch e.Reason {
	case ReasonUserRejected:
		return "signature rejected by user"
	case ReasonConfigurationMissing:
		if e.Err != nil {
			return fmt.Sprintf("missing configuration: %v", e.Err)
		}
		return "missing configuration"
	case ReasonChainMismatch:
		return fmt.Sprintf("please switch to %s", registry.ChainName(e.RequiredChain))
	default:
		if e.Err != nil {
			return fmt.Sprintf("vote failed: %v", e.Err)
		}
		return "vote failed"
	}
}

func (e *VoteError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether the UI should offer a retry affordance.
func (e *VoteError) Recoverable() bool {
	return e.Reason != ReasonConfigurationMissing
}

func errConfigMissing(what string) *VoteError {
	return &VoteError{Reason: ReasonConfigurationMissing, Err: fmt.Errorf("%s", what)}
}

func errChainMismatch(required uint64) *VoteError {
	return &VoteError{Reason: ReasonChainMismatch, RequiredChain: required}
}

// classifySubmitError maps wallet rejections to UserRejected and everything
// else to a retryable network/service failure.
func classifySubmitError(err error) *VoteError {
	if wallet.IsRejected(err) {
		return &VoteError{Reason: ReasonUserRejected, Err: err}
	}
	return &VoteError{Reason: ReasonNetwork, Err: err}
}
