package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	GrantsTotal           *prometheus.CounterVec
	GrantFailuresTotal    *prometheus.CounterVec
	GrantGrossAmountTotal *prometheus.CounterVec
	GrantFeeAmountTotal   *prometheus.CounterVec
	DistributionDuration  *prometheus.HistogramVec
	WhitelistRefreshTotal *prometheus.CounterVec
	WhitelistSize         prometheus.Gauge
}

// Global Metrics Instance
// 未调用 Init 时为 nil，下方的 Record* 方法会直接跳过
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		GrantsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "grant",
			Name:      "completed_total",
			Help:      "The total number of recorded grants",
		}, []string{"mode"}),
		GrantFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "grant",
			Name:      "failed_total",
			Help:      "The total number of rejected or failed grant requests",
		}, []string{"reason"}),
		GrantGrossAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "grant",
			Name:      "gross_amount_eth_total",
			Help:      "Gross funding amount of recorded grants in ETH",
		}, []string{"mode"}),
		GrantFeeAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "grant",
			Name:      "fee_amount_eth_total",
			Help:      "Fees retained by the treasury in ETH",
		}, []string{"mode"}),
		DistributionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "grant",
			Name:      "distribution_duration_seconds",
			Help:      "Duration of outbound distribution submissions",
			Buckets:   distributionBuckets,
		}, []string{"result"}),
		WhitelistRefreshTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "whitelist",
			Name:      "refresh_total",
			Help:      "Whitelist refresh attempts by result",
		}, []string{"result"}),
		WhitelistSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "whitelist",
			Name:      "addresses",
			Help:      "Number of addresses in the cached whitelist",
		}),
	}
}

// RecordGrant 记录一笔成功的 grant
func RecordGrant(mode string, grossEth, feeEth float64) {
	if Business == nil {
		return
	}
	Business.GrantsTotal.WithLabelValues(mode).Inc()
	Business.GrantGrossAmountTotal.WithLabelValues(mode).Add(grossEth)
	Business.GrantFeeAmountTotal.WithLabelValues(mode).Add(feeEth)
}

// RecordGrantFailure reason 使用 errno 业务码，基数有限
func RecordGrantFailure(reason string) {
	if Business == nil {
		return
	}
	Business.GrantFailuresTotal.WithLabelValues(reason).Inc()
}

func ObserveDistribution(result string, started time.Time) {
	if Business == nil {
		return
	}
	Business.DistributionDuration.WithLabelValues(result).Observe(time.Since(started).Seconds())
}

func RecordWhitelistRefresh(result string, size int) {
	if Business == nil {
		return
	}
	Business.WhitelistRefreshTotal.WithLabelValues(result).Inc()
	if result == "success" {
		Business.WhitelistSize.Set(float64(size))
	}
}
