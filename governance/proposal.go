package governance

import "math/big"

// Mode selects how a proposal is voted on: by signed message relayed to the
// Snapshot hub, or by transaction against an on-chain Governor contract.
type Mode string

const (
	ModeSnapshot Mode = "snapshot"
	ModeOnChain  Mode = "onchain"
)

// State is the lifecycle state reported by the upstream governance source.
type State string

const (
	StateActive   State = "active"
	StateClosed   State = "closed"
	StatePending  State = "pending"
	StateExecuted State = "executed"
	StateDefeated State = "defeated"
	StateQueued   State = "queued"
)

// Status is the coarser display status derived from State plus score tallies.
type Status string

const (
	StatusActive   Status = "active"
	StatusPassed   Status = "passed"
	StatusRejected Status = "rejected"
	StatusPending  Status = "pending"
)

// SnapshotDetails carries the fields specific to hub-tallied proposals.
type SnapshotDetails struct {
	Space       string    `json:"space"`
	Block       string    `json:"snapshot"`
	Network     string    `json:"network"`
	Choices     []string  `json:"choices"`
	BallotType  string    `json:"type"`
	Scores      []float64 `json:"scores"`
	ScoresTotal float64   `json:"scoresTotal"`
	VoteCount   int       `json:"votes"`
}

// OnChainDetails carries the fields specific to Governor-contract proposals.
type OnChainDetails struct {
	Governor      string   `json:"governor"`
	ProposalID    *big.Int `json:"proposalId"`
	ChainID       uint64   `json:"chainId"`
	Quorum        *big.Int `json:"quorum,omitempty"`
	QuorumReached bool     `json:"quorumReached"`
	ForVotes      *big.Int `json:"forVotes,omitempty"`
	AgainstVotes  *big.Int `json:"againstVotes,omitempty"`
	AbstainVotes  *big.Int `json:"abstainVotes,omitempty"`
}

// Proposal is the normalized shape consumed by the dashboard. Exactly one of
// Snapshot or OnChain is set, matching Mode; the proposal is immutable after
// normalization and only replaced wholesale by a fresh fetch.
type Proposal struct {
	ID           string   `json:"id"`
	DisplayID    string   `json:"displayId"`
	DAOName      string   `json:"daoName"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	FullContent  string   `json:"fullContent"`
	Created      int64    `json:"created,omitempty"`
	Start        int64    `json:"start,omitempty"`
	End          int64    `json:"end,omitempty"`
	State        State    `json:"state"`
	Status       Status   `json:"status"`
	Tags         []string `json:"tags"`
	VotesFor     float64  `json:"votesFor"`
	VotesAgainst float64  `json:"votesAgainst"`
	VoteCount    int      `json:"participationRate"`

	Mode     Mode             `json:"mode"`
	Snapshot *SnapshotDetails `json:"snapshotDetails,omitempty"`
	OnChain  *OnChainDetails  `json:"onchainDetails,omitempty"`
}

// Choices returns the ballot labels for the proposal, falling back to the
// standard For/Against pair when the source supplied none.
func (p *Proposal) Choices() []string {
	if p.Snapshot != nil && len(p.Snapshot.Choices) > 0 {
		return p.Snapshot.Choices
	}
	return []string{"For", "Against"}
}
