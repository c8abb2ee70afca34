package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_requests_total",
		Help: "Total control-plane API key checks by path and result",
	},
	[]string{"path", "result"}, // result: success | failure
)

// RecordAuthSuccess records an accepted API key on path.
func RecordAuthSuccess(path string) {
	authRequestsTotal.WithLabelValues(path, "success").Inc()
}

// RecordAuthFailure records a missing or mismatched API key on path.
func RecordAuthFailure(path string) {
	authRequestsTotal.WithLabelValues(path, "failure").Inc()
}
