package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Send outcomes. Dropped outcomes never reached the webhook.
const (
	outcomeSuccess     = "success"
	outcomeFailure     = "failure"
	outcomePoolFull    = "dropped_pool_full"
	outcomeShutdown    = "dropped_shutdown"
	outcomeCircuitOpen = "dropped_circuit_open"
)

var (
	sendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_sends_total",
		Help: "Incident notifications by channel and outcome",
	}, []string{"channel", "outcome"})

	sendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_send_duration_seconds",
		Help:    "Webhook round-trip time for attempted notifications",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"channel"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notification_in_flight",
		Help: "Notification goroutines currently running",
	})

	channelsEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notification_channels_enabled",
		Help: "Enabled notification channels",
	})
)

func recordOutcome(channel, outcome string) {
	sendsTotal.WithLabelValues(channel, outcome).Inc()
}

// recordAttempt covers sends that reached channel.Send.
func recordAttempt(channel string, err error, d time.Duration) {
	sendDuration.WithLabelValues(channel).Observe(d.Seconds())
	if err != nil {
		recordOutcome(channel, outcomeFailure)
		return
	}
	recordOutcome(channel, outcomeSuccess)
}
