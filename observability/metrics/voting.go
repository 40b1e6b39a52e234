package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// VotingMetrics tracks the vote submission lifecycle across both modes.
type VotingMetrics struct {
	submissions    *prometheus.CounterVec
	confirmations  *prometheus.CounterVec
	failures       *prometheus.CounterVec
	powerRefreshes *prometheus.CounterVec
	rewardFailures prometheus.Counter
}

var (
	votingOnce     sync.Once
	votingRegistry *VotingMetrics
)

// Voting returns the process-wide voting metrics, registering them on first
// use.
func Voting() *VotingMetrics {
	votingOnce.Do(func() {
		votingRegistry = &VotingMetrics{
			submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "votenow_vote_submissions_total",
				Help: "Count of vote submissions started by voting mode.",
			}, []string{"mode"}),
			confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "votenow_vote_confirmations_total",
				Help: "Count of votes confirmed by voting mode.",
			}, []string{"mode"}),
			failures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "votenow_vote_failures_total",
				Help: "Count of failed vote submissions by mode and reason.",
			}, []string{"mode", "reason"}),
			powerRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "votenow_voting_power_refreshes_total",
				Help: "Count of voting-power resolutions by mode and outcome.",
			}, []string{"mode", "outcome"}),
			rewardFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "votenow_reward_notify_failures_total",
				Help: "Count of swallowed reward-ledger notification failures.",
			}),
		}
		prometheus.MustRegister(
			votingRegistry.submissions,
			votingRegistry.confirmations,
			votingRegistry.failures,
			votingRegistry.powerRefreshes,
			votingRegistry.rewardFailures,
		)
	})
	return votingRegistry
}

func (m *VotingMetrics) ObserveSubmission(mode string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(mode).Inc()
}

func (m *VotingMetrics) ObserveConfirmation(mode string) {
	if m == nil {
		return
	}
	m.confirmations.WithLabelValues(mode).Inc()
}

func (m *VotingMetrics) ObserveFailure(mode, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.failures.WithLabelValues(mode, reason).Inc()
}

func (m *VotingMetrics) ObservePowerRefresh(mode, outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.powerRefreshes.WithLabelValues(mode, outcome).Inc()
}

func (m *VotingMetrics) IncRewardFailure() {
	if m == nil {
		return
	}
	m.rewardFailures.Inc()
}
