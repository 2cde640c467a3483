package service

import "github.com/prometheus/client_golang/prometheus"

var (
	pointsActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_points_actions_total",
			Help: "Points ledger entries written, by action and direction",
		},
		[]string{"action", "direction"},
	)

	milestoneAwardFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lumen_streak_milestone_award_failures_total",
			Help: "Streak milestone bonuses that could not be awarded",
		},
	)

	leaderboardGenerateSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lumen_leaderboard_generate_seconds",
			Help:    "Leaderboard snapshot generation duration",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"window", "result"},
	)
)

func init() {
	prometheus.MustRegister(pointsActionsTotal)
	prometheus.MustRegister(milestoneAwardFailuresTotal)
	prometheus.MustRegister(leaderboardGenerateSeconds)
}
