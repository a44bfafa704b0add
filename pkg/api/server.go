package api

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/anxdpanic/addon-check/pkg/dependencies"
	"github.com/anxdpanic/addon-check/pkg/httputil"
	"github.com/anxdpanic/addon-check/pkg/observability"
	"github.com/anxdpanic/addon-check/pkg/repository"
)

// MaxManifestBytes bounds the addon.xml accepted by the check endpoint
const MaxManifestBytes = 1 << 20

// ErrNoIndex is reported by the health check until an index is loaded
var ErrNoIndex = errors.New("no repository index loaded")

// Options configures a Server
type Options struct {
	Index     *repository.Index
	Checker   *dependencies.Checker
	Metrics   *observability.Metrics
	Health    *observability.HealthChecker
	Logger    logrus.FieldLogger
	// RateLimit applies to the check endpoint when enabled
	RateLimit httputil.RateLimitConfig
}

// Server represents our API server
type Server struct {
	router  *mux.Router
	index   atomic.Pointer[repository.Index]
	checker *dependencies.Checker
	metrics *observability.Metrics
	health  *observability.HealthChecker
	limiter *httputil.RateLimiter
	log     logrus.FieldLogger
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Checker == nil {
		opts.Checker = dependencies.NewChecker(nil, opts.Logger)
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetrics(nil)
	}
	if opts.Health == nil {
		opts.Health = observability.NewHealthChecker("")
	}

	s := &Server{
		router:  mux.NewRouter(),
		checker: opts.Checker,
		metrics: opts.Metrics,
		health:  opts.Health,
		log:     opts.Logger,
	}
	if opts.RateLimit.Enabled() {
		s.limiter = httputil.NewRateLimiter(opts.RateLimit)
	}
	if opts.Index != nil {
		s.index.Store(opts.Index)
	}

	s.health.Register("repository", s.checkIndex)
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	s.router.Use(
		observability.RecoveryMiddleware(s.log),
		httputil.LoggingMiddleware(s.log),
		observability.HTTPMetricsMiddleware(s.metrics),
	)

	s.router.Handle("/healthz", s.health).Methods("GET")
	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/branches", s.listBranches).Methods("GET")
	v1.HandleFunc("/branches/{branch}/addons/{id}", s.getAddon).Methods("GET")
	v1.HandleFunc("/branches/{branch}/addons/{id}/dependents", s.getDependents).Methods("GET")

	var check http.Handler = httputil.MaxBytesMiddleware(MaxManifestBytes)(http.HandlerFunc(s.checkAddon))
	if s.limiter != nil {
		check = httputil.RateLimitMiddleware(s.limiter)(check)
	}
	v1.Handle("/branches/{branch}/check", check).Methods("POST")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetIndex swaps the repository index served by the API
func (s *Server) SetIndex(idx *repository.Index) {
	s.index.Store(idx)
}

// Index returns the repository index currently served
func (s *Server) Index() *repository.Index {
	return s.index.Load()
}

func (s *Server) checkIndex(context.Context) error {
	if idx := s.index.Load(); idx == nil || idx.Len() == 0 {
		return ErrNoIndex
	}
	return nil
}
