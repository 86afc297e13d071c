package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// スイーパーの集計。sweepラベルは auto_cancel / delivery_reminder / follow_up。
var (
	SweepScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catering_sweep_scanned_total",
		Help: "Orders scanned per sweep run.",
	}, []string{"sweep"})

	SweepApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catering_sweep_applied_total",
		Help: "Orders a sweep actually acted on.",
	}, []string{"sweep"})

	SweepFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catering_sweep_failed_total",
		Help: "Per-order failures isolated during a sweep.",
	}, []string{"sweep"})

	NotificationFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catering_notification_failed_total",
		Help: "Best-effort notification sends that failed.",
	})
)
