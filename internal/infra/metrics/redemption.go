package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		redemptionsTotal,
		redemptionDuration,
		verifyRequestsTotal,
		inviteRewardsTotal,
	)
}

var (
	redemptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_redemptions_total",
			Help: "Redemption attempts by result (ok or error kind).",
		},
		[]string{"result"},
	)

	redemptionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activation_redemption_duration_seconds",
			Help:    "Redemption latency, verification and ledger transaction included.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"result"},
	)

	verifyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_verify_requests_total",
			Help: "Inline code pre-checks by result.",
		},
		[]string{"result"},
	)

	inviteRewardsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invite_rewards_total",
			Help: "Invite reward evaluations by outcome.",
		},
		[]string{"outcome"}, // 'credited', 'zero_tier', 'self_invite', 'no_invite', 'failed'
	)
)

// ObserveRedemption records one redemption attempt. result is "ok" or an error kind.
func ObserveRedemption(result string, elapsed time.Duration) {
	redemptionsTotal.WithLabelValues(result).Inc()
	redemptionDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

func IncVerifyRequest(result string) {
	verifyRequestsTotal.WithLabelValues(result).Inc()
}

func IncInviteReward(outcome string) {
	inviteRewardsTotal.WithLabelValues(outcome).Inc()
}
