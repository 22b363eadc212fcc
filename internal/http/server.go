package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"khata/internal/cache"
	"khata/internal/ledger"
	applog "khata/internal/log"
)

// ServerConfig carries the HTTP-facing settings from the application
// configuration.
type ServerConfig struct {
	Addr       string
	GatewayKey string

	// Mutating requests allowed per client IP per minute. Zero means
	// the default of 60.
	RateLimitPerMin int
}

type Server struct {
	http.Server
	svc        *ledger.Service
	gatewayKey string
	log        *applog.Logger

	rateLimiter *rateLimiter
	metrics     securityMetrics

	// Per-user dashboard cache, invalidated on every write.
	dashCache    *cache.LRUCache[ledger.Dashboard]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(cfg ServerConfig, svc *ledger.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    cfg.Addr,
			Handler: mux,
		},
		svc:          svc,
		gatewayKey:   cfg.GatewayKey,
		log:          applog.Default().WithComponent(applog.ComponentHTTP),
		dashCache:    cache.NewLRUCache[ledger.Dashboard](500, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.rateLimiter = newRateLimiter(cfg.RateLimitPerMin, time.Minute, &s.metrics)

	s.cacheManager.Register(s.dashCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /transactions", s.withSecurityHeaders(s.withIdentity(s.handleCreateTransaction)))
	mux.HandleFunc("GET /transactions", s.withSecurityHeaders(s.withIdentity(s.handleListTransactions)))
	mux.HandleFunc("GET /transactions/{id}", s.withSecurityHeaders(s.withIdentity(s.handleGetTransaction)))
	mux.HandleFunc("PUT /transactions/{id}", s.withSecurityHeaders(s.withIdentity(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /transactions/{id}", s.withSecurityHeaders(s.withIdentity(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /dashboard", s.withSecurityHeaders(s.withIdentity(s.handleDashboard)))

	mux.HandleFunc("POST /budgets", s.withSecurityHeaders(s.withIdentity(s.handleSetBudget)))
	mux.HandleFunc("GET /budgets", s.withSecurityHeaders(s.withIdentity(s.handleListBudgets)))
	mux.HandleFunc("DELETE /budgets/{id}", s.withSecurityHeaders(s.withIdentity(s.handleDeleteBudget)))

	mux.HandleFunc("DELETE /categories/{name}", s.withSecurityHeaders(s.withIdentity(s.handleRetireCategory)))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses. A request-scoped logger carrying the request id
// and client IP rides the context for everything downstream.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		reqLog := s.log.With(
			applog.FieldRequestID, requestID,
			applog.FieldClientIP, clientIP)
		r = r.WithContext(applog.NewContext(r.Context(), reqLog))

		reqLog.Info("Request started",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldUserAgent, r.Header.Get("User-Agent"))

		if !s.rateLimiter.allow(r.Method, clientIP) {
			reqLog.Warn("Rate limit exceeded",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Capture the status code for the completion log
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		reqLog.Info("Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatus, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
