package metrics

import (
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(subscriptionsActive, dbPoolStats, buildInfo)
}

var (
	subscriptionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscriptions_active",
			Help: "Subjects whose benefit expiry lies in the future.",
		},
	)

	dbPoolStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_stats",
			Help: "Current state of the database connection pool.",
		},
		[]string{"state"}, // 'total', 'idle', 'in_use', 'max'
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "A constant metric with labels for version and commit hash.",
		},
		[]string{"version", "commit"},
	)
)

func SetSubscriptionsActive(n int) {
	subscriptionsActive.Set(float64(n))
}

// SetDBPoolStats copies a pgxpool snapshot into the pool gauge.
func SetDBPoolStats(stat *pgxpool.Stat) {
	if stat == nil {
		return
	}
	dbPoolStats.WithLabelValues("total").Set(float64(stat.TotalConns()))
	dbPoolStats.WithLabelValues("idle").Set(float64(stat.IdleConns()))
	dbPoolStats.WithLabelValues("in_use").Set(float64(stat.AcquiredConns()))
	dbPoolStats.WithLabelValues("max").Set(float64(stat.MaxConns()))
}

func SetBuildInfo(version, commit string) {
	buildInfo.WithLabelValues(version, commit).Set(1)
}
