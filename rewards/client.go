// Package rewards is the thin HTTP client for the point-accrual backend.
// Recording a vote here is a best-effort side channel: the vote itself has
// already succeeded by the time this client is called, and callers swallow
// every failure.
package rewards

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
)

// Client talks to the rewards API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New constructs a rewards client rooted at baseURL.
func New(baseURL string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// ReceiptRef points at the off-chain receipt attached to a recorded vote.
type ReceiptRef struct {
	ID   string `json:"id"`
	IPFS string `json:"ipfs,omitempty"`
}

// VoteRecord is the payload for POST /api/vote.
type VoteRecord struct {
	ProposalID      string      `json:"proposalId"`
	WalletAddress   string      `json:"walletAddress"`
	Direction       string      `json:"direction"`
	Type            string      `json:"type"`
	SnapshotReceipt *ReceiptRef `json:"snapshotReceipt,omitempty"`
	TxHash          string      `json:"txHash,omitempty"`
}

type voteResponse struct {
	Success      bool   `json:"success"`
	PointsEarned int    `json:"pointsEarned"`
	Message      string `json:"message"`
}

// RecordVote reports a confirmed vote and returns the points awarded.
func (c *Client) RecordVote(ctx context.Context, rec VoteRecord) (int, error) {
	var resp voteResponse
	if err := c.post(ctx, "/api/vote", rec, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, fmt.Errorf("vote not recorded: %s", resp.Message)
	}
	return resp.PointsEarned, nil
}

// PointBalance is the per-wallet gamification record.
type PointBalance struct {
	UserID          string `json:"userId"`
	WalletAddress   string `json:"walletAddress"`
	TotalPoints     int    `json:"totalPoints"`
	AvailablePoints int    `json:"availablePoints"`
	Level           int    `json:"level"`
	Streak          int    `json:"streak"`
}

// Points fetches the wallet's current balance record.
func (c *Client) Points(ctx context.Context, address string) (*PointBalance, error) {
	var balance PointBalance
	if err := c.get(ctx, "/api/points/"+address, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// Reward is one redeemable catalog entry.
type Reward struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	PointsCost int    `json:"pointsCost"`
	Stock      int    `json:"stock"`
}

// Rewards fetches the redeemable catalog.
func (c *Client) Rewards(ctx context.Context) ([]Reward, error) {
	var resp struct {
		Total   int      `json:"total"`
		Rewards []Reward `json:"rewards"`
	}
	if err := c.get(ctx, "/api/rewards", &resp); err != nil {
		return nil, err
	}
	return resp.Rewards, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	buf, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rewards api %s failed: status=%d body=%s", req.URL.Path, resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
