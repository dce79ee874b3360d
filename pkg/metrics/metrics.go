package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 应用 Prometheus 指标集合
// 每个实例持有独立 Registry，便于测试隔离
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	applicationDecisions *prometheus.CounterVec
	applicationsPending  prometheus.Gauge
	tokenLaunches        *prometheus.CounterVec
}

// New 创建并注册全部指标
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trends",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "trends",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms ~ 2.5s
			},
			[]string{"method", "path"},
		),
		applicationDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trends",
				Subsystem: "creator_applications",
				Name:      "decisions_total",
				Help:      "Creator application review outcomes.",
			},
			[]string{"decision", "result"},
		),
		applicationsPending: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "trends",
				Subsystem: "creator_applications",
				Name:      "pending",
				Help:      "Last observed number of pending creator applications.",
			},
		),
		tokenLaunches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trends",
				Subsystem: "creator_tokens",
				Name:      "launches_total",
				Help:      "Creator token launch attempts by result.",
			},
			[]string{"result"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.applicationDecisions,
		m.applicationsPending,
		m.tokenLaunches,
	)
	return m
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordDecision 记录一次申请审核结果；result 为 "ok" 或错误类别
func (m *Metrics) RecordDecision(decision, result string) {
	if m == nil {
		return
	}
	m.applicationDecisions.WithLabelValues(decision, result).Inc()
}

// SetPending 更新待审核申请数量
func (m *Metrics) SetPending(n int64) {
	if m == nil {
		return
	}
	m.applicationsPending.Set(float64(n))
}

// RecordLaunch 记录一次代币发行尝试
func (m *Metrics) RecordLaunch(result string) {
	if m == nil {
		return
	}
	m.tokenLaunches.WithLabelValues(result).Inc()
}
