package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxdpanic/addon-check/pkg/report"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		want    logrus.Level
		wantErr bool
	}{
		{name: "default level", cfg: LogConfig{}, want: logrus.InfoLevel},
		{name: "debug", cfg: LogConfig{Level: "debug"}, want: logrus.DebugLevel},
		{name: "warning", cfg: LogConfig{Level: "warning"}, want: logrus.WarnLevel},
		{name: "invalid", cfg: LogConfig{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, closer, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer closer.Close()
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	cfg := DefaultLogConfig()
	cfg.File = path
	cfg.Level = "debug"

	log, closer, err := NewLogger(cfg)
	require.NoError(t, err)

	log.Debug("written to file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestMetrics_Record(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.RecordCheck("leia", 2*time.Millisecond, report.Summary{report.Problem: 2, report.Warning: 1})
	metrics.RecordCheck("leia", time.Millisecond, report.Summary{})
	metrics.RecordBranchLoad("success")
	metrics.RecordCacheHit()
	metrics.RecordCacheMiss()
	metrics.RecordCacheMiss()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ChecksTotal.WithLabelValues("leia")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FindingsTotal.WithLabelValues("PROBLEM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FindingsTotal.WithLabelValues("WARNING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BranchLoadsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheHitsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CacheMissesTotal))
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	metrics := NewMetrics(nil)
	metrics.RecordCheck("krypton", time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "addon_check.prom")
	require.NoError(t, metrics.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `addon_check_checks_total{branch="krypton"} 1`)
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(metrics))
	router.HandleFunc("/v1/branches/{branch}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", metrics.Handler())

	req := httptest.NewRequest(http.MethodGet, "/v1/branches/leia", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	count := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/v1/branches/{branch}", "418"))
	assert.Equal(t, 1.0, count)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "addon_check_http_requests_total"))
}

func TestHealthChecker(t *testing.T) {
	health := NewHealthChecker("1.0.0")
	health.Register("repository", func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	health.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, "1.0.0", status.Version)

	health.Register("index", func(ctx context.Context) error { return errors.New("no branches loaded") })
	rec = httptest.NewRecorder()
	health.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, "no branches loaded", status.Checks["index"].Message)
}

func TestShutdownManager(t *testing.T) {
	log, _ := test.NewNullLogger()
	sm := NewShutdownManager(log, nil, 0)
	assert.Equal(t, 30*time.Second, sm.shutdownTimeout)

	var order []int
	sm.RegisterShutdownFunc(func(ctx context.Context) error { order = append(order, 1); return nil })
	sm.RegisterShutdownFunc(func(ctx context.Context) error { order = append(order, 2); return errors.New("boom") })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sm.Wait(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []int{1, 2}, order)
}

func TestShutdownManager_Server(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0"}
	sm := NewShutdownManager(nil, server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, sm.Wait(ctx))
}

func TestRecoveryMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()
	handler := RecoveryMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "handler exploded", hook.LastEntry().Data["panic"])
}

func TestRecoverPanic(t *testing.T) {
	log, hook := test.NewNullLogger()

	func() {
		defer RecoverPanic(log, "worker")
		panic("oops")
	}()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "worker", hook.LastEntry().Data["context"])
	assert.NoError(t, MustRecover(nil))
	assert.EqualError(t, MustRecover("bad"), "panic: bad")
}
