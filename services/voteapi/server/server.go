// Package server implements the vote aggregator API: proposal listings
// normalized from the Snapshot hub, the DAO registry, the reward ledger, and
// the AI analysis proxy.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"votenow/gateway/middleware"
	"votenow/governance"
	"votenow/registry"
	"votenow/services/voteapi/config"
)

// ProposalSource lists raw proposals for the tracked spaces. The Snapshot
// hub client satisfies it.
type ProposalSource interface {
	Proposals(ctx context.Context, spaces []string, state string, first int) ([]governance.RawProposal, error)
}

// Server holds the API's collaborators.
type Server struct {
	cfg      config.Config
	registry *registry.Registry
	hub      ProposalSource
	ledger   Ledger
	analyzer Analyzer
	log      *slog.Logger
}

// New wires a server.
func New(cfg config.Config, reg *registry.Registry, hub ProposalSource, ledger Ledger, analyzer Analyzer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		registry: reg,
		hub:      hub,
		ledger:   ledger,
		analyzer: analyzer,
		log:      log,
	}
}

// Handler builds the chi router with the middleware stack.
func (s *Server) Handler(obs *middleware.Observability, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}))
	if obs != nil {
		r.Use(obs.Middleware("voteapi"))
	}
	if limiter != nil {
		r.Use(limiter.Middleware("voteapi"))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/health", s.handleHealth)
	r.Get("/api/proposals", s.handleProposals)
	r.Get("/api/daos", s.handleDAOs)
	r.Get("/api/rewards", s.handleRewards)
	r.Get("/api/points/{address}", s.handlePoints)
	r.Get("/api/leaderboard", s.handleLeaderboard)
	r.Post("/api/vote", s.handleVote)
	r.Post("/api/analysis", s.handleAnalysis)
	r.Post("/api/chat", s.handleChat)

	if obs != nil {
		r.Handle("/metrics", obs.MetricsHandler())
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"name":    "VoteNow API",
		"version": "1.0.0",
	})
}

func (s *Server) handleProposals(w http.ResponseWriter, r *http.Request) {
	spaces := s.registry.TrackedSpaces()
	if dao := strings.TrimSpace(r.URL.Query().Get("dao")); dao != "" {
		if entry, ok := s.registry.ByID(dao); ok && entry.SnapshotSpace != "" {
			spaces = []string{entry.SnapshotSpace}
		} else {
			spaces = []string{dao}
		}
	}
	state := strings.TrimSpace(r.URL.Query().Get("state"))

	raw, err := s.hub.Proposals(r.Context(), spaces, state, s.cfg.PageSize)
	if err != nil {
		s.log.Error("proposal fetch failed", "err", err)
		writeError(w, http.StatusBadGateway, "proposal source unavailable")
		return
	}
	proposals := make([]governance.Proposal, 0, len(raw))
	for _, rp := range raw {
		proposals = append(proposals, governance.Normalize(rp))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":     len(proposals),
		"proposals": proposals,
	})
}

func (s *Server) handleDAOs(w http.ResponseWriter, r *http.Request) {
	daos := s.registry.All()
	writeJSON(w, http.StatusOK, map[string]any{
		"total": len(daos),
		"daos":  daos,
	})
}

// rewardCatalog is the static redeemable inventory.
var rewardCatalog = []map[string]any{
	{"id": "reward-usdc-10", "name": "10 USDC", "type": "token", "pointsCost": 1000, "stock": 100},
	{"id": "reward-arb-5", "name": "5 ARB Tokens", "type": "token", "pointsCost": 500, "stock": 200},
}

func (s *Server) handleRewards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   len(rewardCatalog),
		"rewards": rewardCatalog,
	})
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	account, err := s.ledger.Points(r.Context(), address)
	if err != nil {
		s.log.Error("points lookup failed", "address", address, "err", err)
		writeError(w, http.StatusInternalServerError, "points lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":          account.WalletAddress,
		"walletAddress":   address,
		"totalPoints":     account.TotalPoints,
		"availablePoints": account.AvailablePoints,
		"level":           account.Level,
		"streak":          account.Streak,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.ledger.Leaderboard(r.Context(), 10)
	if err != nil {
		s.log.Error("leaderboard lookup failed", "err", err)
		writeError(w, http.StatusInternalServerError, "leaderboard lookup failed")
		return
	}
	entries := make([]map[string]any, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, map[string]any{
			"rank":          i + 1,
			"walletAddress": account.WalletAddress,
			"totalPoints":   account.TotalPoints,
			"level":         account.Level,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

type voteRequest struct {
	ProposalID      string          `json:"proposalId"`
	WalletAddress   string          `json:"walletAddress"`
	Direction       string          `json:"direction"`
	Type            string          `json:"type"`
	SpaceID         string          `json:"spaceId"`
	SnapshotReceipt json.RawMessage `json:"snapshotReceipt,omitempty"`
	TxHash          string          `json:"txHash,omitempty"`
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.ProposalID == "" || req.WalletAddress == "" {
		writeError(w, http.StatusBadRequest, "proposalId and walletAddress required")
		return
	}
	reference := req.TxHash
	if reference == "" && len(req.SnapshotReceipt) > 0 {
		var receipt struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(req.SnapshotReceipt, &receipt); err == nil {
			reference = receipt.ID
		}
	}
	_, earned, err := s.ledger.RecordVote(r.Context(), VoteActivity{
		ProposalID:    req.ProposalID,
		WalletAddress: req.WalletAddress,
		Direction:     req.Direction,
		Mode:          req.Type,
		Reference:     reference,
		Points:        s.registry.PointsFor(req.SpaceID),
	})
	if err != nil {
		s.log.Error("vote recording failed", "proposal", req.ProposalID, "err", err)
		writeError(w, http.StatusInternalServerError, "vote recording failed")
		return
	}
	message := "Vote recorded!"
	if earned > 0 {
		message = "Vote recorded! You earned " + strconv.Itoa(earned) + " points."
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"pointsEarned": earned,
		"message":      message,
	})
}

type analysisRequest struct {
	ProposalText string `json:"proposalText"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ProposalText) == "" {
		writeError(w, http.StatusBadRequest, "proposalText required")
		return
	}
	writeJSON(w, http.StatusOK, s.analyzer.Analyze(r.Context(), req.ProposalText))
}

type chatRequest struct {
	ProposalText string `json:"proposalText"`
	Question     string `json:"question"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.ProposalText) == "" || strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "proposalText and question required")
		return
	}
	answer := s.analyzer.Chat(r.Context(), req.ProposalText, req.Question)
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
