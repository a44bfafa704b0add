package httputil

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxdpanic/addon-check/pkg/report"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"message": "success"}

	err := WriteJSON(w, http.StatusOK, data)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "success")
}

func TestWriteErrors(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "error",
			write:      func(w http.ResponseWriter) { WriteError(w, http.StatusConflict, errors.New("test error")) },
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"test error"}`,
		},
		{
			name:       "bad request",
			write:      func(w http.ResponseWriter) { WriteBadRequest(w, "invalid input") },
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid input"}`,
		},
		{
			name:       "not found",
			write:      func(w http.ResponseWriter) { WriteNotFoundError(w, "addon not found") },
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"addon not found"}`,
		},
		{
			name:       "internal",
			write:      func(w http.ResponseWriter) { WriteInternalError(w, errors.New("boom")) },
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestParsePathStringOrError(t *testing.T) {
	router := mux.NewRouter()
	var got string
	router.HandleFunc("/branches/{branch}", func(w http.ResponseWriter, r *http.Request) {
		val, ok := ParsePathStringOrError(w, r, "branch")
		require.True(t, ok)
		got = val
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/branches/matrix", nil))
	assert.Equal(t, "matrix", got)

	w = httptest.NewRecorder()
	_, ok := ParsePathStringOrError(w, httptest.NewRequest(http.MethodGet, "/", nil), "branch")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing path parameter: branch")
}

func TestParseQuerySeverity(t *testing.T) {
	tests := []struct {
		query   string
		want    report.Severity
		wantErr bool
	}{
		{query: "", want: report.Information},
		{query: "?min_severity=warning", want: report.Warning},
		{query: "?min_severity=PROBLEM", want: report.Problem},
		{query: "?min_severity=fatal", want: report.Information, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			got, err := ParseQuerySeverity(r, "min_severity", report.Information)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggingMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	handler := LoggingMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "HTTP request", entry.Message)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/healthz", entry.Data["path"])
}

func TestMaxBytesMiddleware(t *testing.T) {
	var readErr error
	handler := MaxBytesMiddleware(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	assert.Error(t, readErr)
}
