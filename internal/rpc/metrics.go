package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circlepot_rpc_requests_total",
		Help: "Total number of RPC requests by method.",
	}, []string{"method"})

	rpcErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circlepot_rpc_errors_total",
		Help: "Total number of failed RPC requests by method.",
	}, []string{"method"})

	rpcRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circlepot_rpc_retries_total",
		Help: "Total number of RPC retry attempts by method.",
	}, []string{"method"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "circlepot_rpc_request_duration_seconds",
		Help:    "Duration of RPC requests, retries included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func RPCMethodInc(method string) {
	rpcRequests.WithLabelValues(method).Inc()
}

func RPCMethodError(method string) {
	rpcErrors.WithLabelValues(method).Inc()
}

func RPCRetryInc(method string) {
	rpcRetries.WithLabelValues(method).Inc()
}

func RPCMethodDuration(method string, duration time.Duration) {
	rpcDuration.WithLabelValues(method).Observe(duration.Seconds())
}
