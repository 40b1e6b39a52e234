package voting

import (
	"context"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"votenow/governance"
	"votenow/observability/metrics"
)

// Weight is a resolved voting weight. Off-chain weights are floating
// governance-token units fixed at the proposal's snapshot block; on-chain
// weights are live token base units that can still change before submission.
type Weight struct {
	Mode  governance.Mode
	Score float64
	Units *big.Int
}

// IsZero reports a genuine "no voting power" result, which is a valid state
// distinct from "not yet resolved" and from "resolution failed".
func (w Weight) IsZero() bool {
	if w.Mode == governance.ModeOnChain {
		return w.Units == nil || w.Units.Sign() == 0
	}
	return w.Score == 0
}

func zeroWeight(mode governance.Mode) Weight {
	w := Weight{Mode: mode}
	if mode == governance.ModeOnChain {
		w.Units = big.NewInt(0)
	}
	return w
}

// SnapshotPowerSource is the historical-balance query (off-chain mode).
type SnapshotPowerSource interface {
	VotingPower(ctx context.Context, voter, space, proposal string) (float64, error)
}

// ChainPowerSource is the live contract vote-weight read (on-chain mode).
type ChainPowerSource interface {
	GetVotes(ctx context.Context, account common.Address) (*big.Int, error)
}

// PowerResolver resolves voting weight for one (voter, proposal) pair. It is
// re-invocable on demand; concurrent refreshes collapse to the latest result
// via a monotonic sequence number, so a late-arriving stale response never
// overwrites a newer one. Failures degrade to a zero weight with a logged
// error instead of propagating.
type PowerResolver struct {
	proposal *governance.Proposal
	hub      SnapshotPowerSource
	chain    ChainPowerSource
	metrics  *metrics.VotingMetrics
	log      *slog.Logger

	mu       sync.Mutex
	seq      uint64
	applied  uint64
	inflight int
	weight   *Weight
}

// NewPowerResolver builds a resolver for the proposal's voting mode. Only
// the source matching the mode is consulted.
func NewPowerResolver(p *governance.Proposal, hub SnapshotPowerSource, chain ChainPowerSource, log *slog.Logger) *PowerResolver {
	if log == nil {
		log = slog.Default()
	}
	return &PowerResolver{
		proposal: p,
		hub:      hub,
		chain:    chain,
		metrics:  metrics.Voting(),
		log:      log,
	}
}

// Refresh resolves the voter's weight and applies it unless a later refresh
// has already landed. The returned weight is the freshly queried value even
// when it loses the last-write-wins race.
func (r *PowerResolver) Refresh(ctx context.Context, voter common.Address) Weight {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.inflight++
	r.mu.Unlock()

	weight, err := r.query(ctx, voter)
	outcome := "ok"
	if err != nil {
		// Degrade to zero so the UI always has a displayable weight state.
		r.log.Warn("voting power resolution failed",
			"proposal", r.proposal.ID,
			"voter", voter.Hex(),
			"err", err)
		weight = zeroWeight(r.proposal.Mode)
		outcome = "error"
	}
	r.metrics.ObservePowerRefresh(string(r.proposal.Mode), outcome)

	r.mu.Lock()
	r.inflight--
	if seq > r.applied {
		r.applied = seq
		applied := weight
		r.weight = &applied
	}
	r.mu.Unlock()
	return weight
}

func (r *PowerResolver) query(ctx context.Context, voter common.Address) (Weight, error) {
	if r.proposal.Mode == governance.ModeOnChain {
		units, err := r.chain.GetVotes(ctx, voter)
		if err != nil {
			return Weight{}, err
		}
		if units == nil {
			units = big.NewInt(0)
		}
		return Weight{Mode: governance.ModeOnChain, Units: units}, nil
	}
	space := ""
	if r.proposal.Snapshot != nil {
		space = r.proposal.Snapshot.Space
	}
	score, err := r.hub.VotingPower(ctx, voter.Hex(), space, r.proposal.ID)
	if err != nil {
		return Weight{}, err
	}
	if score < 0 {
		score = 0
	}
	return Weight{Mode: governance.ModeSnapshot, Score: score}, nil
}

// Current returns the last applied weight. The boolean is false while no
// resolution has completed yet.
func (r *PowerResolver) Current() (Weight, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.weight == nil {
		return Weight{}, false
	}
	return *r.weight, true
}

// Loading reports whether any resolution is still in flight.
func (r *PowerResolver) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inflight > 0
}
