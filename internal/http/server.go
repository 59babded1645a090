package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/currency"
	"cashbook/internal/ledger"
	"cashbook/internal/log"
	"cashbook/internal/report"
)

// Ledger is what the API needs from the ledger service.
type Ledger interface {
	Add(ctx context.Context, d ledger.Draft) (core.Entry, error)
	Remove(ctx context.Context, id int64) (bool, error)
	Clear(ctx context.Context, confirm func(count int) bool) error
	Dashboard(f report.Filters) report.Dashboard
	Entries(category, period string) []core.Entry
	Len() int
}

// ReadyFunc reports whether storage can serve requests.
type ReadyFunc func(ctx context.Context) error

type Server struct {
	http.Server
	ledger      Ledger
	money       *currency.Formatter
	ready       ReadyFunc
	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	started     time.Time

	rateLimit    int
	rateWindow   time.Duration
	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithReadiness sets the storage check used by /readyz.
func WithReadiness(fn ReadyFunc) Option {
	return func(s *Server) { s.ready = fn }
}

// WithLogger sets the base request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithRateLimit overrides the per-client POST budget.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimit = limit
		s.rateWindow = window
	}
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, l Ledger, money *currency.Formatter, opts ...Option) *Server {
	s := &Server{
		ledger:  l,
		money:   money,
		metrics: &securityMetrics{},
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	if s.money == nil {
		s.money = currency.MustNew(currency.DefaultCode)
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)
	s.rateLimiter = newRateLimiter(s.rateLimit, s.rateWindow)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/entries", s.handleListEntries)
	mux.HandleFunc("POST /api/entries", s.handleCreateEntry)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("POST /api/entries/clear", s.handleClearEntries)

	requestLogger := log.RequestIDMiddleware(s.logger, func(r *http.Request) string {
		return r.Header.Get("X-Request-ID")
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           withRequestID(requestLogger(s.withSecurityHeaders(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withRequestID keeps a well-formed client supplied X-Request-ID and
// assigns a fresh one otherwise.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if !validRequestID(id) {
			id = generateRequestID()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func validRequestID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := extractClientIP(r)
		logger := log.FromContext(ctx)

		log.LogHTTPStart(ctx, r, clientIP)
		if detectSuspiciousRequest(r, s.metrics) {
			logger.WithComponent(log.ComponentSecurity).WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
		}

		setSecurityHeaders(w.Header())
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Apply rate limiting to POST requests (entry creation and clear)
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP, s.metrics) {
			logger.WithComponent(log.ComponentRateLimit).WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
			TooManyRequestsError(strconv.Itoa(int(s.rateLimiter.window.Seconds()))).Write(rw)
		} else {
			next.ServeHTTP(rw, r)
		}

		log.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
