package httputil

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/anxdpanic/addon-check/pkg/report"
)

// ParsePathString extracts a string path parameter
func ParsePathString(r *http.Request, key string) (string, error) {
	str := mux.Vars(r)[key]
	if str == "" {
		return "", fmt.Errorf("missing path parameter: %s", key)
	}
	return str, nil
}

// ParsePathStringOrError extracts a string path parameter and writes error on failure
func ParsePathStringOrError(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	val, err := ParsePathString(r, key)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return "", false
	}
	return val, true
}

// ParseQuerySeverity extracts a severity query parameter
func ParseQuerySeverity(r *http.Request, key string, defaultVal report.Severity) (report.Severity, error) {
	str := r.URL.Query().Get(key)
	if str == "" {
		return defaultVal, nil
	}
	sev, err := report.ParseSeverity(str)
	if err != nil {
		return defaultVal, fmt.Errorf("invalid severity for query param %s: %s", key, str)
	}
	return sev, nil
}
