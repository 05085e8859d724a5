package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBackendStatus_CountsByStatusCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackendStatus(200)
	c.RecordBackendStatus(200)
	c.RecordBackendStatus(401)

	if got := testutil.ToFloat64(c.backendStatus.WithLabelValues("200")); got != 2 {
		t.Errorf("status 200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.backendStatus.WithLabelValues("401")); got != 1 {
		t.Errorf("status 401 count = %v, want 1", got)
	}
}

func TestRecordLoginCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginFailure()
	c.RecordLoginFailure()
	c.RecordSessionExpired()

	if got := testutil.ToFloat64(c.loginSuccess); got != 1 {
		t.Errorf("login success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.loginFail); got != 2 {
		t.Errorf("login fail = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.sessionExpired); got != 1 {
		t.Errorf("session expired = %v, want 1", got)
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackendStatus(200)
	c.RecordBackendLatency(150 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "partsdb_console_backend_status_total") {
		t.Error("scrape output should contain backend status counter")
	}
	if !strings.Contains(body, "partsdb_console_backend_latency_seconds") {
		t.Error("scrape output should contain backend latency histogram")
	}
}
