package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Receipt identifies an accepted sequencer submission: the vote id plus the
// content-addressed pointer where the signed envelope is stored.
type Receipt struct {
	ID   string `json:"id"`
	IPFS string `json:"ipfs"`
}

// Ballot captures everything the sequencer needs to tally one vote.
type Ballot struct {
	Space      string
	Proposal   string
	BallotType string
	Choice     int
	Reason     string
	From       common.Address
	Timestamp  int64
}

// TypedData builds the EIP-712 payload the wallet must sign for the ballot.
// Proposals with 0x-prefixed identifiers are signed as bytes32, legacy ids as
// plain strings, matching the hub's two envelope flavors.
func (b Ballot) TypedData() apitypes.TypedData {
	proposalType := "string"
	var proposalValue any = b.Proposal
	if strings.HasPrefix(b.Proposal, "0x") {
		proposalType = "bytes32"
	}
	ts := b.Timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}
	return apitypes.TypedData{
		Domain: apitypes.TypedDataDomain{
			Name:    "snapshot",
			Version: "0.1.4",
		},
		PrimaryType: "Vote",
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
			},
			"Vote": []apitypes.Type{
				{Name: "from", Type: "address"},
				{Name: "space", Type: "string"},
				{Name: "timestamp", Type: "uint64"},
				{Name: "proposal", Type: proposalType},
				{Name: "choice", Type: "uint32"},
				{Name: "reason", Type: "string"},
				{Name: "app", Type: "string"},
				{Name: "metadata", Type: "string"},
			},
		},
		Message: apitypes.TypedDataMessage{
			"from":      b.From.Hex(),
			"space":     b.Space,
			"timestamp": new(big.Int).SetInt64(ts),
			"proposal":  proposalValue,
			"choice":    new(big.Int).SetInt64(int64(b.Choice)),
			"reason":    b.Reason,
			"app":       "votenow",
			"metadata":  "{}",
		},
	}
}

type envelope struct {
	Address string       `json:"address"`
	Sig     string       `json:"sig"`
	Data    envelopeData `json:"data"`
}

type envelopeData struct {
	Domain  apitypes.TypedDataDomain  `json:"domain"`
	Types   apitypes.Types            `json:"types"`
	Message apitypes.TypedDataMessage `json:"message"`
}

// CastVote relays a signed ballot envelope to the sequencer and returns the
// receipt it issues.
func (c *Client) CastVote(ctx context.Context, data apitypes.TypedData, from common.Address, signature []byte) (*Receipt, error) {
	env := envelope{
		Address: from.Hex(),
		Sig:     hexutil.Encode(signature),
		Data: envelopeData{
			Domain:  data.Domain,
			Types:   data.Types,
			Message: data.Message,
		},
	}
	buf, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sequencerURL, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sequencer rejected vote: status=%d body=%s", resp.StatusCode, string(body))
	}
	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("decode sequencer receipt: %w", err)
	}
	if receipt.ID == "" {
		return nil, fmt.Errorf("sequencer returned empty receipt")
	}
	return &receipt, nil
}
