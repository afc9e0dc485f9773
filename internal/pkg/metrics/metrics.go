package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 测试执行指标
	ExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dps_probe_executions_total",
		Help: "测试执行总次数，按终态（passed/failed/error）和认证方式统计",
	}, []string{"status", "auth_type"})

	ExecutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dps_probe_execution_duration_seconds",
		Help:    "单次测试执行的端到端耗时（含上游往返）",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"auth_type"})

	// 上游调用指标
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dps_probe_upstream_requests_total",
		Help: "向上游发起的 HTTP 请求总数，按状态码分类",
	}, []string{"status_code"})

	AuthorizationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dps_probe_authorization_failures_total",
		Help: "OAuth2 授权失败总数",
	}, []string{"reason"})

	// 数据面核验指标
	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dps_probe_verifications_total",
		Help: "核验总次数，按结果（success/mismatch/error）统计",
	}, []string{"outcome"})

	VerificationQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dps_probe_verification_query_seconds",
		Help:    "数据面查询耗时",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"kind"})
)

func RecordExecution(status, authType string, duration time.Duration) {
	ExecutionsTotal.WithLabelValues(status, authType).Inc()
	ExecutionDuration.WithLabelValues(authType).Observe(duration.Seconds())
}

func RecordVerification(outcome string) {
	VerificationsTotal.WithLabelValues(outcome).Inc()
}

// RecordUpstreamRequest 记录一次上游往返。传输层失败没有状态码，
// 按 0 归类。
func RecordUpstreamRequest(statusCode int) {
	UpstreamRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func RecordAuthorizationFailure(reason string) {
	AuthorizationFailures.WithLabelValues(reason).Inc()
}

func ObserveVerificationQuery(kind string, duration time.Duration) {
	VerificationQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
