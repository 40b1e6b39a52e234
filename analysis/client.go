// Package analysis is the HTTP client for the proposal-summarization
// service. Failures degrade to a visible fallback result so the chat UI is
// never blocked on the upstream model.
package analysis

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

// Analysis is the structured risk/recommendation result for a proposal.
type Analysis struct {
	Summary            string `json:"summary"`
	RiskLevel          string `json:"riskLevel"`
	Recommendation     string `json:"recommendation"`
	StrategyMatchScore int    `json:"strategyMatchScore,omitempty"`
	StrategyReasoning  string `json:"strategyReasoning,omitempty"`
}

// Fallback is the degraded result shown when the upstream is unreachable or
// unconfigured.
func Fallback() *Analysis {
	return &Analysis{
		Summary:        "AI analysis is currently unavailable. Review the proposal text directly before voting.",
		RiskLevel:      "Medium",
		Recommendation: "Abstain",
	}
}

// Client talks to the analysis API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New constructs an analysis client rooted at baseURL.
func New(baseURL string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// Analyze summarizes the proposal text. The error is non-nil only for
// callers that want to distinguish the degraded path; AnalyzeOrFallback is
// the common entry point.
func (c *Client) Analyze(ctx context.Context, proposalText string) (*Analysis, error) {
	payload := map[string]string{"proposalText": proposalText}
	var result Analysis
	if err := c.post(ctx, "/api/analysis", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AnalyzeOrFallback never fails: upstream errors are logged and replaced by
// the fallback result.
func (c *Client) AnalyzeOrFallback(ctx context.Context, proposalText string) *Analysis {
	result, err := c.Analyze(ctx, proposalText)
	if err != nil {
		c.log.Warn("proposal analysis failed", "err", err)
		return Fallback()
	}
	return result
}

// Chat asks a free-form question about the proposal.
func (c *Client) Chat(ctx context.Context, proposalText, question string) (string, error) {
	payload := map[string]string{
		"proposalText": proposalText,
		"question":     question,
	}
	var result struct {
		Answer string `json:"answer"`
	}
	if err := c.post(ctx, "/api/chat", payload, &result); err != nil {
		return "", err
	}
	return result.Answer, nil
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
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("analysis api %s failed: status=%d body=%s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
