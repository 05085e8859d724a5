// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はバックエンドAPI呼び出しのメトリクスを収集するPrometheus実装。
// backend.Recorderを満たす。
type Collector struct {
	backendStatus  *prometheus.CounterVec
	backendLatency prometheus.Histogram
	loginSuccess   prometheus.Counter
	loginFail      prometheus.Counter
	sessionExpired prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "partsdb_console_backend_status_total",
			Help: "バックエンドAPIのHTTPステータスコード別レスポンス数",
		}, []string{"status_code"}),
		backendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "partsdb_console_backend_latency_seconds",
			Help:    "バックエンドAPI呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "partsdb_console_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "partsdb_console_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		sessionExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "partsdb_console_session_expired_total",
			Help: "401によるセッション破棄の合計数",
		}),
	}

	reg.MustRegister(
		c.backendStatus,
		c.backendLatency,
		c.loginSuccess,
		c.loginFail,
		c.sessionExpired,
	)

	return c
}

// RecordBackendStatus はバックエンドのHTTPステータスコードを記録する。
func (c *Collector) RecordBackendStatus(statusCode int) {
	c.backendStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordBackendLatency はバックエンド呼び出しのレイテンシを記録する。
func (c *Collector) RecordBackendLatency(duration time.Duration) {
	c.backendLatency.Observe(duration.Seconds())
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordSessionExpired は401によるセッション破棄を記録する。
func (c *Collector) RecordSessionExpired() {
	c.sessionExpired.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
