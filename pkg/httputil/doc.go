// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteNotFoundError(w, "addon not found")
//	httputil.WriteBadRequest(w, "invalid addon.xml")
//
// # Request Parsing
//
//	branch, ok := httputil.ParsePathStringOrError(w, r, "branch")
//	if !ok {
//		return // Error response already written
//	}
//	minSeverity, err := httputil.ParseQuerySeverity(r, "min_severity", report.Information)
//
// # Middleware
//
//	router.Use(httputil.LoggingMiddleware(log), httputil.MaxBytesMiddleware(1<<20))
//
// RateLimitMiddleware keeps a token bucket per client address:
//
//	limiter := httputil.NewRateLimiter(httputil.RateLimitConfig{RequestsPerWindow: 60, WindowDuration: time.Minute})
//	router.Use(httputil.RateLimitMiddleware(limiter))
package httputil
