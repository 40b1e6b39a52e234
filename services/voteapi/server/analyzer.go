package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"votenow/analysis"
	"votenow/services/voteapi/config"
)

// Analyzer produces proposal summaries and answers follow-up questions. The
// chat-completions implementation talks to a DeepSeek-compatible upstream;
// without an API key every request resolves to the fallback result.
type Analyzer interface {
	Analyze(ctx context.Context, proposalText string) *analysis.Analysis
	Chat(ctx context.Context, proposalText, question string) string
}

type chatAnalyzer struct {
	cfg  config.AIConfig
	http *http.Client
	log  *slog.Logger
}

// NewAnalyzer builds the upstream-backed analyzer.
func NewAnalyzer(cfg config.AIConfig, log *slog.Logger) Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &chatAnalyzer{
		cfg:  cfg,
		http: &http.Client{Timeout: 60 * time.Second},
		log:  log,
	}
}

const analysisSystemPrompt = "You are a DAO governance analyst. Respond with valid JSON."

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

func (a *chatAnalyzer) Analyze(ctx context.Context, proposalText string) *analysis.Analysis {
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return analysis.Fallback()
	}
	if len(proposalText) > 2000 {
		proposalText = proposalText[:2000]
	}
	prompt := "Analyze this proposal and return JSON with: summary, riskLevel, recommendation.\n\n" + proposalText
	text, err := a.complete(ctx, prompt)
	if err != nil {
		a.log.Warn("analysis upstream failed", "err", err)
		return analysis.Fallback()
	}
	if match := jsonBlockPattern.FindString(text); match != "" {
		var result analysis.Analysis
		if err := json.Unmarshal([]byte(match), &result); err == nil && result.Summary != "" {
			return &result
		}
	}
	// The model answered in prose; surface it as the summary.
	summary := text
	if len(summary) > 200 {
		summary = summary[:200]
	}
	return &analysis.Analysis{
		Summary:        summary,
		RiskLevel:      "Medium",
		Recommendation: "Abstain",
	}
}

const chatUnavailable = "AI chat is currently unavailable. Please review the proposal text directly."

func (a *chatAnalyzer) Chat(ctx context.Context, proposalText, question string) string {
	if strings.TrimSpace(a.cfg.APIKey) == "" {
		return chatUnavailable
	}
	if len(proposalText) > 2000 {
		proposalText = proposalText[:2000]
	}
	prompt := "Answer the question about this governance proposal concisely.\n\nProposal:\n" +
		proposalText + "\n\nQuestion: " + question
	text, err := a.complete(ctx, prompt)
	if err != nil {
		a.log.Warn("chat upstream failed", "err", err)
		return chatUnavailable
	}
	return strings.TrimSpace(text)
}

func (a *chatAnalyzer) complete(ctx context.Context, prompt string) (string, error) {
	body := chatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	url := strings.TrimRight(a.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	resp, err := a.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat completion failed: status=%d body=%s", resp.StatusCode, string(raw))
	}
	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
