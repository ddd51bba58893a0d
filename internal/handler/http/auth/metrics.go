package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tokenRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_requests_total",
			Help: "Token requests by result",
		},
		[]string{"result"}, // issued, bad_request, invalid_credentials, rate_limited, error
	)

	deniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_denied_total",
			Help: "Requests to protected routes rejected by reason",
		},
		[]string{"reason"}, // missing_token, invalid_token, forbidden
	)
)
