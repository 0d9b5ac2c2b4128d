package transport

import prom "github.com/prometheus/client_golang/prometheus"

var defaultClientMetrics *clientMetrics

func init() {
	defaultClientMetrics = newClientMetrics()
	prom.MustRegister(defaultClientMetrics.handled)
	prom.MustRegister(defaultClientMetrics.latency)
}

// clientMetrics 后台请求指标
type clientMetrics struct {
	handled *prom.CounterVec
	latency *prom.HistogramVec
}

func newClientMetrics() *clientMetrics {
	return &clientMetrics{
		handled: prom.NewCounterVec(
			prom.CounterOpts{
				Name: "console_backend_requests_total",
				Help: "Total number of admin backend requests completed, regardless of success or failure.",
			}, []string{"method", "path", "status", "result"}),
		latency: prom.NewHistogramVec(
			prom.HistogramOpts{
				Name:    "console_backend_request_seconds",
				Help:    "Histogram of admin backend response latency (seconds).",
				Buckets: prom.DefBuckets,
			}, []string{"method", "path"}),
	}
}
