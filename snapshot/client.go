// Package snapshot talks to the Snapshot governance-data service: the
// GraphQL hub for proposal listings, historical voting power, and
// existing-vote lookups, and the sequencer for signed ballot submission.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"votenow/governance"
)

const (
	// DefaultHubURL is the public Snapshot GraphQL endpoint.
	DefaultHubURL = "https://hub.snapshot.org/graphql"
	// DefaultSequencerURL is the public Snapshot vote relay.
	DefaultSequencerURL = "https://seq.snapshot.org"
)

// Client issues hub queries and sequencer submissions.
type Client struct {
	hubURL       string
	sequencerURL string
	http         *http.Client
	log          *slog.Logger
}

// New constructs a client. Empty URLs fall back to the public endpoints.
func New(hubURL, sequencerURL string, log *slog.Logger) *Client {
	if strings.TrimSpace(hubURL) == "" {
		hubURL = DefaultHubURL
	}
	if strings.TrimSpace(sequencerURL) == "" {
		sequencerURL = DefaultSequencerURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		hubURL:       hubURL,
		sequencerURL: sequencerURL,
		http:         &http.Client{Timeout: 15 * time.Second},
		log:          log,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any, out any) error {
	buf, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.hubURL, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("snapshot hub query failed: status=%d body=%s", resp.StatusCode, string(body))
	}
	var gql graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gql); err != nil {
		return err
	}
	if len(gql.Errors) > 0 {
		return fmt.Errorf("snapshot hub error: %s", gql.Errors[0].Message)
	}
	if len(gql.Data) == 0 {
		return fmt.Errorf("snapshot hub returned empty data")
	}
	return json.Unmarshal(gql.Data, out)
}

const proposalsQuery = `query Proposals($spaces: [String!], $state: String!, $first: Int!) {
  proposals(first: $first, skip: 0, where: { space_in: $spaces, state: $state }, orderBy: "created", orderDirection: desc) {
    id title body choices created start end state scores scores_total votes type network snapshot
    space { id name }
  }
}`

// Proposals fetches up to first proposals in the given lifecycle state from
// the tracked spaces.
func (c *Client) Proposals(ctx context.Context, spaces []string, state string, first int) ([]governance.RawProposal, error) {
	if first <= 0 {
		first = 20
	}
	if strings.TrimSpace(state) == "" {
		state = "active"
	}
	var result struct {
		Proposals []governance.RawProposal `json:"proposals"`
	}
	err := c.query(ctx, proposalsQuery, map[string]any{
		"spaces": spaces,
		"state":  state,
		"first":  first,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("fetch proposals: %w", err)
	}
	return result.Proposals, nil
}

const votingPowerQuery = `query VotingPower($voter: String!, $space: String!, $proposal: String!) {
  vp(voter: $voter, space: $space, proposal: $proposal) { vp }
}`

// VotingPower resolves the voter's weight as of the proposal's snapshot
// block. A zero result means the voter genuinely held no weight at that
// height; it is not an error.
func (c *Client) VotingPower(ctx context.Context, voter, space, proposal string) (float64, error) {
	var result struct {
		VP *struct {
			VP float64 `json:"vp"`
		} `json:"vp"`
	}
	err := c.query(ctx, votingPowerQuery, map[string]any{
		"voter":    voter,
		"space":    space,
		"proposal": proposal,
	}, &result)
	if err != nil {
		return 0, fmt.Errorf("fetch voting power: %w", err)
	}
	if result.VP == nil {
		return 0, nil
	}
	return result.VP.VP, nil
}

const existingVoteQuery = `query ExistingVote($proposal: String!, $voter: String!) {
  votes(first: 1, where: { proposal: $proposal, voter: $voter }) { id choice created vp }
}`

// VoteRecord is an existing ballot found on the hub for (proposal, voter).
type VoteRecord struct {
	ID      string  `json:"id"`
	Choice  int     `json:"choice"`
	Created int64   `json:"created"`
	VP      float64 `json:"vp"`
}

// ExistingVote looks up a prior ballot. It returns nil when the voter has
// not voted on the proposal.
func (c *Client) ExistingVote(ctx context.Context, proposal, voter string) (*VoteRecord, error) {
	var result struct {
		Votes []VoteRecord `json:"votes"`
	}
	err := c.query(ctx, existingVoteQuery, map[string]any{
		"proposal": proposal,
		"voter":    voter,
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("fetch existing vote: %w", err)
	}
	if len(result.Votes) == 0 {
		return nil, nil
	}
	vote := result.Votes[0]
	return &vote, nil
}
