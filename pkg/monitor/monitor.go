// Package monitor Prometheus 指标：HTTP 层与 grant 业务指标，均挂在 grant_core 命名空间下
package monitor

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "grant_core"

	// UnmatchedRoute 未命中任何路由的请求统一记到这个 path 标签下，避免扫描流量撑爆标签基数
	UnmatchedRoute = "<unmatched>"
)

// distributionBuckets 覆盖从 mock 发送到等待 Base 出块确认的耗时
var distributionBuckets = []float64{0.05, 0.25, 0.5, 1, 2, 4, 8, 15, 30, 60}

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route template and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   distributionBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	initOnce sync.Once
)

// Init 注册全部指标，可重复调用
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, HTTPInFlight)
		InitBusinessMetrics()
	})
}

// PrometheusMiddleware path 标签取路由模板 (/grants/:id)，不取原始 URL
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		HTTPInFlight.Inc()
		defer HTTPInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = UnmatchedRoute
		}
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
