package governance

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// RawProposal mirrors the heterogeneous JSON returned by the governance-data
// aggregator. Snapshot hub responses populate the space/choices/scores block;
// on-chain indexer responses populate the governor block. Fields the upstream
// omits stay zero-valued and Normalize substitutes documented fallbacks.
type RawProposal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Description string     `json:"description"`
	Choices     []string   `json:"choices"`
	Created     int64      `json:"created"`
	Start       int64      `json:"start"`
	End         int64      `json:"end"`
	State       string     `json:"state"`
	Scores      []float64  `json:"scores"`
	ScoresTotal float64    `json:"scores_total"`
	Votes       int        `json:"votes"`
	Space       *RawSpace  `json:"space"`
	Network     string     `json:"network"`
	Snapshot    FlexString `json:"snapshot"`
	Type        string     `json:"type"`
	Tags        []string   `json:"tags"`

	Source        string `json:"source"`
	DAOName       string `json:"daoName"`
	Governor      string `json:"governor"`
	OnChainID     string `json:"onchainId"`
	ChainID       uint64 `json:"chainId"`
	Quorum        string `json:"quorum"`
	QuorumReached bool   `json:"quorumReached"`
	ForVotes      string `json:"forVotes"`
	AgainstVotes  string `json:"againstVotes"`
	AbstainVotes  string `json:"abstainVotes"`
}

// RawSpace identifies the Snapshot space a proposal belongs to.
type RawSpace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FlexString tolerates upstream fields that arrive as either a JSON string or
// a number (the hub reports snapshot block heights both ways).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	// Unrecognized shapes degrade to empty rather than failing the fetch.
	*f = ""
	return nil
}

// Normalize converts a raw fetch record into the tagged-union Proposal. The
// function is total: any missing or malformed field falls back to a defined
// default and no input causes a panic.
func Normalize(raw RawProposal) Proposal {
	title := raw.Title
	if title == "" {
		title = "Untitled"
	}
	full := raw.Description
	if full == "" {
		full = raw.Body
	}
	state := deriveState(raw.State)

	p := Proposal{
		ID:           raw.ID,
		DisplayID:    shortID(raw.ID),
		DAOName:      daoName(raw),
		Title:        title,
		Description:  truncate(full, 200),
		FullContent:  full,
		Created:      raw.Created,
		Start:        raw.Start,
		End:          raw.End,
		State:        state,
		Status:       deriveStatus(state, raw.Scores),
		Tags:         normalizeTags(raw.Tags, title),
		VotesFor:     scoreAt(raw.Scores, 0),
		VotesAgainst: scoreAt(raw.Scores, 1),
		VoteCount:    raw.Votes,
	}

	if raw.Governor != "" || strings.EqualFold(raw.Source, string(ModeOnChain)) {
		p.Mode = ModeOnChain
		p.OnChain = &OnChainDetails{
			Governor:      raw.Governor,
			ProposalID:    parseBig(raw.OnChainID),
			ChainID:       raw.ChainID,
			Quorum:        parseBig(raw.Quorum),
			QuorumReached: raw.QuorumReached,
			ForVotes:      parseBig(raw.ForVotes),
			AgainstVotes:  parseBig(raw.AgainstVotes),
			AbstainVotes:  parseBig(raw.AbstainVotes),
		}
		return p
	}

	p.Mode = ModeSnapshot
	details := &SnapshotDetails{
		Block:       string(raw.Snapshot),
		Network:     raw.Network,
		Choices:     raw.Choices,
		BallotType:  raw.Type,
		Scores:      raw.Scores,
		ScoresTotal: raw.ScoresTotal,
		VoteCount:   raw.Votes,
	}
	if raw.Space != nil {
		details.Space = raw.Space.ID
	}
	if details.BallotType == "" {
		details.BallotType = "single-choice"
	}
	p.Snapshot = details
	return p
}

// stateNames is the explicit finite mapping from upstream status strings;
// anything unrecognized is treated as pending.
var stateNames = map[string]State{
	"active":   StateActive,
	"closed":   StateClosed,
	"pending":  StatePending,
	"executed": StateExecuted,
	"defeated": StateDefeated,
	"queued":   StateQueued,
}

func deriveState(raw string) State {
	if state, ok := stateNames[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return state
	}
	return StatePending
}

// deriveStatus collapses lifecycle state into the display status. A closed
// proposal counts as passed only when the first tallied score strictly
// exceeds the second; a tie is rejected.
func deriveStatus(state State, scores []float64) Status {
	switch state {
	case StateActive:
		return StatusActive
	case StateExecuted:
		return StatusPassed
	case StateDefeated:
		return StatusRejected
	case StateClosed:
		if scoreAt(scores, 0) > scoreAt(scores, 1) {
			return StatusPassed
		}
		return StatusRejected
	default:
		return StatusPending
	}
}

// tagKeywords is the ordered keyword-to-tag table matched case-insensitively
// against the title. At most three tags are derived.
var tagKeywords = []struct {
	keyword string
	tag     string
}{
	{"treasury", "Treasury"},
	{"fund", "Treasury"},
	{"security", "Security"},
	{"upgrade", "Security"},
	{"fee", "Finance"},
	{"reward", "Finance"},
	{"governance", "Governance"},
	{"vote", "Governance"},
}

// ExtractTags derives up to three topical tags from a title, defaulting to a
// single generic tag when nothing matches.
func ExtractTags(title string) []string {
	lower := strings.ToLower(title)
	tags := make([]string, 0, 3)
	for _, entry := range tagKeywords {
		if len(tags) == 3 {
			break
		}
		if !strings.Contains(lower, entry.keyword) {
			continue
		}
		if containsString(tags, entry.tag) {
			continue
		}
		tags = append(tags, entry.tag)
	}
	if len(tags) == 0 {
		tags = append(tags, "Proposal")
	}
	return tags
}

func normalizeTags(existing []string, title string) []string {
	if len(existing) > 0 {
		if len(existing) > 3 {
			return existing[:3]
		}
		return existing
	}
	return ExtractTags(title)
}

func daoName(raw RawProposal) string {
	if raw.Space != nil && raw.Space.Name != "" {
		return raw.Space.Name
	}
	if raw.DAOName != "" {
		return raw.DAOName
	}
	return "Unknown"
}

// shortID derives the 8-character display identifier. It is used purely for
// UI labels, never for lookups.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func scoreAt(scores []float64, i int) float64 {
	if i < 0 || i >= len(scores) {
		return 0
	}
	return scores[i]
}

func parseBig(s string) *big.Int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		if v, ok := new(big.Int).SetString(trimmed[2:], 16); ok {
			return v
		}
		return nil
	}
	if v, ok := new(big.Int).SetString(trimmed, 10); ok {
		return v
	}
	// Some indexers emit float-formatted integers.
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f >= 0 {
		v, _ := big.NewFloat(f).Int(nil)
		return v
	}
	return nil
}

func containsString(values []string, v string) bool {
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}
