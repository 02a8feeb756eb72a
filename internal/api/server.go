// Package api is the HTTP account service the Smart Search clients register
// and log in against.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/smhrd/smartsearch/internal/serverdb"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 120 * time.Second

	limiterSweep   = 5 * time.Minute
	retentionSweep = time.Hour
)

// Server is the account service: routes, auth tokens, rate limiting and the
// background sweeps that keep the event tables bounded.
type Server struct {
	config      Config
	http        *http.Server
	store       *serverdb.ServerDB
	tokens      *Tokens
	metrics     *Metrics
	rateLimiter *RateLimiter
	addr        net.Addr

	stop context.CancelFunc
	bg   sync.WaitGroup
}

func NewServer(cfg Config, store *serverdb.ServerDB) (*Server, error) {
	tokens, err := NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token signer: %w", err)
	}
	if cfg.RateLimitAuth <= 0 {
		cfg.RateLimitAuth = DefaultConfig().RateLimitAuth
	}

	s := &Server{
		config:      cfg,
		store:       store,
		tokens:      tokens,
		metrics:     NewMetrics(),
		rateLimiter: NewRateLimiter(),
		stop:        func() {},
	}
	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s, nil
}

// Handler returns the fully wrapped handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Addr is the bound address once Start has returned
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.ListenAddr, err)
	}
	s.addr = ln.Addr()

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server", "err", err)
		}
	}()
	s.bg.Go(func() { s.rateLimiter.Run(ctx, limiterSweep) })
	s.bg.Go(func() { s.sweepLoop(ctx, retentionSweep) })
	return nil
}

// retention pairs an event table's cleanup with how long its rows live
type retention struct {
	table string
	keep  time.Duration
	clean func(time.Duration) (int64, error)
}

func (s *Server) retentions() []retention {
	return []retention{
		{"auth_events", s.config.AuthEventRetention, s.store.CleanupAuthEvents},
		{"rate_limit_events", s.config.RateLimitEventRetention, s.store.CleanupRateLimitEvents},
	}
}

func (s *Server) sweepLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep()
		}
	}
}

// sweep deletes events past their retention. Zero retention keeps forever.
func (s *Server) sweep() {
	for _, r := range s.retentions() {
		if r.keep <= 0 {
			continue
		}
		n, err := r.clean(r.keep)
		switch {
		case err != nil:
			slog.Error("sweep events", "table", r.table, "err", err)
		case n > 0:
			slog.Info("swept events", "table", r.table, "count", n)
		}
	}
}

// Shutdown stops the background sweeps, then drains open requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stop()
	s.bg.Wait()
	return s.http.Shutdown(ctx)
}

// maxBodyBytes caps request bodies; auth payloads are tiny
const maxBodyBytes = 1 << 20

// routes builds the HTTP handler with all routes and middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health & metrics
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metricz", s.handleMetrics)
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Auth (public)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))

	return chain(mux,
		recoveryMiddleware,
		withScope,
		observe(s.metrics),
		s.CORSMiddleware,
		limitBody(maxBodyBytes),
		limitAuth(s.rateLimiter, s.config.RateLimitAuth, s.store, s.metrics),
	)
}

// handleHealth returns a health check response, pinging the server DB.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "detail": "db unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics returns a snapshot of server metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}
