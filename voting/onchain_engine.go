package voting

import (
	"context"
	"sync"

	"votenow/governance"
	"votenow/rewards"
)

// onChainEngine submits ballots as Governor contract transactions. Weight is
// the live token balance and can change until the transaction lands, which
// is the defining behavioral difference from snapshot voting.
type onChainEngine struct {
	engineCore
}

func newOnChainEngine(cfg Config) *onChainEngine {
	power := NewPowerResolver(cfg.Proposal, nil, cfg.Governor, cfg.Log)
	return &onChainEngine{engineCore: newEngineCore(cfg, power)}
}

// rightChain reports whether the wallet's active chain matches the
// proposal's target chain. Reads are gated on it; Submit fails on it.
func (e *onChainEngine) rightChain() bool {
	details := e.cfg.Proposal.OnChain
	return details != nil && e.cfg.Wallet.ChainID() == details.ChainID
}

func (e *onChainEngine) Prepare(ctx context.Context) {
	addr, ok := e.cfg.Wallet.Address()
	if !ok || !e.rightChain() {
		return
	}
	details := e.cfg.Proposal.OnChain
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.power.Refresh(ctx, addr)
	}()
	if details.ProposalID != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.mu.Lock()
			e.existingLoading = true
			e.mu.Unlock()
			voted, err := e.cfg.Governor.HasVoted(ctx, details.ProposalID, addr)
			e.mu.Lock()
			e.existingLoading = false
			e.mu.Unlock()
			if err != nil {
				e.log.Warn("hasVoted lookup failed", "proposal", e.cfg.Proposal.ID, "err", err)
				return
			}
			if voted {
				// The contract confirms participation but not the choice.
				e.adoptExisting(&ExistingVote{Choice: 0})
			}
		}()
	}
	wg.Wait()
}

func (e *onChainEngine) RefreshVotingPower(ctx context.Context) {
	addr, ok := e.cfg.Wallet.Address()
	if !ok || !e.rightChain() {
		return
	}
	e.power.Refresh(ctx, addr)
}

func (e *onChainEngine) Submit(ctx context.Context, choice int, reason string) {
	if e.Status().Voted() {
		return
	}
	if !e.cfg.Wallet.Connected() {
		e.connectRedirect(ctx)
		return
	}
	if !e.beginSubmit() {
		return
	}

	addr, _ := e.cfg.Wallet.Address()
	p := e.cfg.Proposal
	details := p.OnChain
	e.metrics.ObserveSubmission(string(governance.ModeOnChain))

	if details == nil || details.Governor == "" {
		e.fail(governance.ModeOnChain, errConfigMissing("governor contract address not configured"))
		return
	}
	if details.ProposalID == nil {
		e.fail(governance.ModeOnChain, errConfigMissing("on-chain proposal id not set"))
		return
	}
	// The engine never switches chains on the user's behalf.
	if !e.rightChain() {
		e.fail(governance.ModeOnChain, errChainMismatch(details.ChainID))
		return
	}

	voted, err := e.cfg.Governor.HasVoted(ctx, details.ProposalID, addr)
	if err != nil {
		e.log.Warn("hasVoted lookup failed", "proposal", p.ID, "err", err)
	}
	if voted {
		e.adoptExisting(&ExistingVote{Choice: 0})
		return
	}

	direction := governance.DirectionForChoice(choice)
	support, ok := governance.SupportCode(direction)
	if !ok {
		e.fail(governance.ModeOnChain, errConfigMissing("unsupported ballot choice"))
		return
	}

	e.setPhase(PhaseSubmitting)
	opts, err := e.cfg.Wallet.Transactor(ctx)
	if err != nil {
		e.fail(governance.ModeOnChain, classifySubmitError(err))
		return
	}
	tx, err := e.cfg.Governor.CastVote(opts, details.ProposalID, support)
	if err != nil {
		e.fail(governance.ModeOnChain, classifySubmitError(err))
		return
	}

	// A broadcast hash is not a vote: the transaction can still revert at
	// execution, so hold in AwaitingConfirmation until it is mined clean.
	e.setPhase(PhaseAwaitingConfirmation)
	txHash := tx.Hash()
	if err := e.cfg.Governor.WaitConfirmed(ctx, txHash); err != nil {
		e.fail(governance.ModeOnChain, classifySubmitError(err))
		return
	}

	e.confirm(governance.ModeOnChain,
		&Receipt{TxHash: txHash.Hex()},
		&ExistingVote{
			ID:      txHash.Hex(),
			Choice:  choice,
			Created: e.cfg.Now().Unix(),
		})

	e.notifyReward(ctx, rewards.VoteRecord{
		ProposalID:    p.ID,
		WalletAddress: addr.Hex(),
		Direction:     string(direction),
		Type:          string(governance.ModeOnChain),
		TxHash:        txHash.Hex(),
	})
}
