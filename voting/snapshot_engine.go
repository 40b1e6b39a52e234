package voting

import (
	"context"
	"sync"

	"votenow/governance"
	"votenow/rewards"
	"votenow/snapshot"
)

// snapshotEngine submits ballots as EIP-712 signed messages relayed to the
// Snapshot sequencer. Weight is fixed at the proposal's snapshot block.
type snapshotEngine struct {
	engineCore
}

func newSnapshotEngine(cfg Config) *snapshotEngine {
	power := NewPowerResolver(cfg.Proposal, cfg.Snapshots, nil, cfg.Log)
	return &snapshotEngine{engineCore: newEngineCore(cfg, power)}
}

func (e *snapshotEngine) Prepare(ctx context.Context) {
	addr, ok := e.cfg.Wallet.Address()
	if !ok {
		return
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.power.Refresh(ctx, addr)
	}()
	go func() {
		defer wg.Done()
		e.mu.Lock()
		e.existingLoading = true
		e.mu.Unlock()
		rec, err := e.cfg.Snapshots.ExistingVote(ctx, e.cfg.Proposal.ID, addr.Hex())
		e.mu.Lock()
		e.existingLoading = false
		e.mu.Unlock()
		if err != nil {
			e.log.Warn("existing vote lookup failed", "proposal", e.cfg.Proposal.ID, "err", err)
			return
		}
		if rec != nil {
			// A fresh remote answer supersedes any optimistic local record.
			e.adoptExisting(&ExistingVote{
				ID:      rec.ID,
				Choice:  rec.Choice,
				Created: rec.Created,
				Weight:  rec.VP,
			})
		}
	}()
	wg.Wait()
}

func (e *snapshotEngine) RefreshVotingPower(ctx context.Context) {
	if addr, ok := e.cfg.Wallet.Address(); ok {
		e.power.Refresh(ctx, addr)
	}
}

func (e *snapshotEngine) Submit(ctx context.Context, choice int, reason string) {
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
	e.metrics.ObserveSubmission(string(governance.ModeSnapshot))

	if p.Snapshot == nil || p.Snapshot.Space == "" {
		e.fail(governance.ModeSnapshot, errConfigMissing("snapshot space not configured"))
		return
	}
	if p.ID == "" {
		e.fail(governance.ModeSnapshot, errConfigMissing("proposal id not set"))
		return
	}

	// Query-before-write duplicate prevention. A lookup failure is logged
	// and submission proceeds; the sequencer remains the authoritative
	// enforcement point.
	rec, err := e.cfg.Snapshots.ExistingVote(ctx, p.ID, addr.Hex())
	if err != nil {
		e.log.Warn("existing vote lookup failed", "proposal", p.ID, "err", err)
	}
	if rec != nil {
		e.adoptExisting(&ExistingVote{
			ID:      rec.ID,
			Choice:  rec.Choice,
			Created: rec.Created,
			Weight:  rec.VP,
		})
		return
	}

	e.setPhase(PhaseSubmitting)
	ballot := snapshot.Ballot{
		Space:      p.Snapshot.Space,
		Proposal:   p.ID,
		BallotType: p.Snapshot.BallotType,
		Choice:     choice,
		Reason:     reason,
		From:       addr,
		Timestamp:  e.cfg.Now().Unix(),
	}
	data := ballot.TypedData()
	sig, err := e.cfg.Wallet.SignTypedData(ctx, data)
	if err != nil {
		e.fail(governance.ModeSnapshot, classifySubmitError(err))
		return
	}
	receipt, err := e.cfg.Snapshots.CastVote(ctx, data, addr, sig)
	if err != nil {
		e.fail(governance.ModeSnapshot, classifySubmitError(err))
		return
	}

	weight := 0.0
	if w, ok := e.power.Current(); ok {
		weight = w.Score
	}
	e.confirm(governance.ModeSnapshot,
		&Receipt{ID: receipt.ID, IPFS: receipt.IPFS},
		&ExistingVote{
			ID:      receipt.ID,
			Choice:  choice,
			Created: e.cfg.Now().Unix(),
			Weight:  weight,
		})

	e.notifyReward(ctx, rewards.VoteRecord{
		ProposalID:      p.ID,
		WalletAddress:   addr.Hex(),
		Direction:       string(governance.DirectionForChoice(choice)),
		Type:            string(governance.ModeSnapshot),
		SnapshotReceipt: &rewards.ReceiptRef{ID: receipt.ID, IPFS: receipt.IPFS},
	})
}
