// Package voting implements the vote submission engine: one state machine
// per (proposal, voter) pair that unifies signed-message voting through the
// Snapshot sequencer and transaction voting through a Governor contract
// behind a single contract of states, errors, and idempotency guarantees.
package voting

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"votenow/governance"
	"votenow/observability/metrics"
	"votenow/rewards"
	"votenow/snapshot"
	"votenow/wallet"
)

// Phase is the engine's lifecycle position. Confirmed and a detected prior
// vote are equivalent from the UI's perspective: both suppress the ballot
// and show the recorded choice.
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseCheckingEligibility  Phase = "checking_eligibility"
	PhaseSubmitting           Phase = "submitting"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	PhaseConfirmed            Phase = "confirmed"
	PhaseFailed               Phase = "failed"
)

// Receipt is the proof of a confirmed submission: sequencer id plus IPFS
// pointer off-chain, transaction hash on-chain.
type Receipt struct {
	ID     string
	IPFS   string
	TxHash string
}

// ExistingVote is the recorded prior ballot for (proposal, voter). It is
// queried from the remote source, or written optimistically immediately
// after a successful submission. A zero Choice means the remote source
// confirmed participation without revealing the choice.
type ExistingVote struct {
	ID      string
	Choice  int
	Created int64
	Weight  float64
}

// Status is a point-in-time snapshot of engine state for rendering.
type Status struct {
	Phase           Phase
	Err             *VoteError
	Receipt         *Receipt
	Existing        *ExistingVote
	PointsEarned    int
	Power           *Weight
	PowerLoading    bool
	ExistingLoading bool
}

// Voted reports the Confirmed-equivalent condition: either this session
// confirmed a submission or a prior vote was detected remotely.
func (s Status) Voted() bool {
	return s.Phase == PhaseConfirmed || s.Existing != nil
}

// SnapshotService is the slice of the hub/sequencer client the off-chain
// engine consumes.
type SnapshotService interface {
	VotingPower(ctx context.Context, voter, space, proposal string) (float64, error)
	ExistingVote(ctx context.Context, proposal, voter string) (*snapshot.VoteRecord, error)
	CastVote(ctx context.Context, data apitypes.TypedData, from common.Address, signature []byte) (*snapshot.Receipt, error)
}

// GovernorGateway is the Governor contract surface the on-chain engine
// consumes.
type GovernorGateway interface {
	GetVotes(ctx context.Context, account common.Address) (*big.Int, error)
	HasVoted(ctx context.Context, proposalID *big.Int, account common.Address) (bool, error)
	CastVote(opts *bind.TransactOpts, proposalID *big.Int, support uint8) (*gethtypes.Transaction, error)
	WaitConfirmed(ctx context.Context, txHash common.Hash) error
}

// RewardNotifier records a confirmed vote for point accrual. The engine
// swallows every error it returns.
type RewardNotifier interface {
	RecordVote(ctx context.Context, rec rewards.VoteRecord) (int, error)
}

// Engine is the polymorphic submission contract. Callers select the variant
// at construction via the proposal's mode and never branch on mode again.
type Engine interface {
	// Prepare resolves voting power and looks up any existing vote; the two
	// loads are tracked independently so the UI can show partial progress.
	Prepare(ctx context.Context)
	// Submit runs the full lifecycle for the 1-based ballot choice. All
	// failures land in engine state; Submit never panics or leaks an error.
	Submit(ctx context.Context, choice int, reason string)
	// RefreshVotingPower re-resolves weight on demand, superseding any
	// resolution still in flight.
	RefreshVotingPower(ctx context.Context)
	// Reset returns a Failed engine to Idle for retry. Confirmed state is
	// never reset.
	Reset()
	// Status snapshots the current state.
	Status() Status
}

// Config wires an engine's collaborators.
type Config struct {
	Proposal  *governance.Proposal
	Wallet    wallet.Capability
	Snapshots SnapshotService
	Governor  GovernorGateway
	Rewards   RewardNotifier
	Log       *slog.Logger
	Now       func() time.Time
}

// NewEngine selects the engine variant for the proposal's voting mode.
func NewEngine(cfg Config) (Engine, error) {
	if cfg.Proposal == nil {
		return nil, fmt.Errorf("proposal required")
	}
	if cfg.Wallet == nil {
		return nil, fmt.Errorf("wallet capability required")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	switch cfg.Proposal.Mode {
	case governance.ModeSnapshot:
		if cfg.Snapshots == nil {
			return nil, fmt.Errorf("snapshot service required for off-chain voting")
		}
		return newSnapshotEngine(cfg), nil
	case governance.ModeOnChain:
		if cfg.Governor == nil {
			return nil, fmt.Errorf("governor gateway required for on-chain voting")
		}
		return newOnChainEngine(cfg), nil
	default:
		return nil, fmt.Errorf("unknown voting mode %q", cfg.Proposal.Mode)
	}
}

// engineCore holds the state shared by both variants. One logical submission
// flow runs at a time per engine; the phase value is the serialization
// guard.
type engineCore struct {
	cfg     Config
	power   *PowerResolver
	metrics *metrics.VotingMetrics
	log     *slog.Logger

	mu              sync.Mutex
	phase           Phase
	err             *VoteError
	receipt         *Receipt
	existing        *ExistingVote
	points          int
	existingLoading bool
}

func newEngineCore(cfg Config, power *PowerResolver) engineCore {
	return engineCore{
		cfg:     cfg,
		power:   power,
		metrics: metrics.Voting(),
		log:     cfg.Log,
		phase:   PhaseIdle,
	}
}

func (e *engineCore) Status() Status {
	e.mu.Lock()
	st := Status{
		Phase:           e.phase,
		Err:             e.err,
		Receipt:         e.receipt,
		Existing:        e.existing,
		PointsEarned:    e.points,
		ExistingLoading: e.existingLoading,
	}
	e.mu.Unlock()
	if w, ok := e.power.Current(); ok {
		st.Power = &w
	}
	st.PowerLoading = e.power.Loading()
	return st
}

func (e *engineCore) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseFailed {
		return
	}
	e.phase = PhaseIdle
	e.err = nil
}

// beginSubmit transitions Idle/Failed into CheckingEligibility. It returns
// false when a submission is already running or the vote is settled, making
// duplicate UI triggers a no-op.
func (e *engineCore) beginSubmit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case PhaseCheckingEligibility, PhaseSubmitting, PhaseAwaitingConfirmation, PhaseConfirmed:
		return false
	}
	if e.existing != nil {
		return false
	}
	e.phase = PhaseCheckingEligibility
	e.err = nil
	return true
}

func (e *engineCore) setPhase(p Phase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
}

func (e *engineCore) fail(mode governance.Mode, verr *VoteError) {
	e.mu.Lock()
	e.phase = PhaseFailed
	e.err = verr
	e.mu.Unlock()
	e.metrics.ObserveFailure(string(mode), string(verr.Reason))
	e.log.Warn("vote submission failed",
		"proposal", e.cfg.Proposal.ID,
		"mode", mode,
		"reason", verr.Reason,
		"err", verr.Err)
}

// confirm records the optimistic local vote and the receipt in one step, so
// repeated submissions are blocked before any reward round-trip happens.
func (e *engineCore) confirm(mode governance.Mode, receipt *Receipt, vote *ExistingVote) {
	e.mu.Lock()
	e.phase = PhaseConfirmed
	e.receipt = receipt
	e.existing = vote
	e.mu.Unlock()
	e.metrics.ObserveConfirmation(string(mode))
}

// adoptExisting records a remotely detected prior vote; the engine renders
// Confirmed-equivalent without a new submission.
func (e *engineCore) adoptExisting(vote *ExistingVote) {
	e.mu.Lock()
	e.existing = vote
	if e.phase != PhaseConfirmed {
		e.phase = PhaseConfirmed
	}
	e.mu.Unlock()
}

// notifyReward reports the confirmed vote to the ledger. Failures are logged
// and counted but never alter engine state: the vote already succeeded and
// that is the authoritative outcome.
func (e *engineCore) notifyReward(ctx context.Context, rec rewards.VoteRecord) {
	if e.cfg.Rewards == nil {
		return
	}
	points, err := e.cfg.Rewards.RecordVote(ctx, rec)
	if err != nil {
		e.metrics.IncRewardFailure()
		e.log.Warn("reward recording failed",
			"proposal", rec.ProposalID,
			"voter", rec.WalletAddress,
			"err", err)
		return
	}
	e.mu.Lock()
	e.points = points
	e.mu.Unlock()
}

// connectRedirect triggers the wallet connect flow when Submit is pressed
// while disconnected. This is a UX redirect, not an error: the engine stays
// Idle.
func (e *engineCore) connectRedirect(ctx context.Context) {
	if err := e.cfg.Wallet.Connect(ctx); err != nil {
		e.log.Warn("wallet connect failed", "err", err)
	}
}
