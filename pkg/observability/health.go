package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"`
	Timestamp time.Time                  `json:"timestamp"`
	Version   string                     `json:"version,omitempty"`
	Checks    map[string]ComponentStatus `json:"checks,omitempty"`
}

// ComponentStatus represents the health of a single component
type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthCheckFunc reports an error when a component is not ready
type HealthCheckFunc func(ctx context.Context) error

// HealthChecker aggregates named component checks
type HealthChecker struct {
	version string
	mu      sync.RWMutex
	checks  map[string]HealthCheckFunc
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		version: version,
		checks:  make(map[string]HealthCheckFunc),
	}
}

// Register adds a named component check
func (h *HealthChecker) Register(name string, check HealthCheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Check runs every registered component check
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   h.version,
		Checks:    make(map[string]ComponentStatus, len(h.checks)),
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentStatus{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentStatus{Status: StatusHealthy}
	}

	return status
}

// ServeHTTP answers 200 when healthy and 503 otherwise
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if status.Status == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(status)
}
