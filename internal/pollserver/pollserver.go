// Package pollserver implements the long-poll HTTP transport: the
// session/upload/stream/fin/close endpoints, the per-tunnel state
// machine, and the idle sweep that evicts abandoned tunnels. It is the
// transport boundary where internal error kinds become HTTP status
// codes; the tunnel core itself doesn't assume HTTP.
package pollserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/postalsys/sudotun/internal/auth"
	"github.com/postalsys/sudotun/internal/codec"
	"github.com/postalsys/sudotun/internal/logging"
	"github.com/postalsys/sudotun/internal/metrics"
	"github.com/postalsys/sudotun/internal/ratelimit"
	"github.com/postalsys/sudotun/internal/recovery"
	"github.com/postalsys/sudotun/internal/session"
)

// Config controls a Server's cryptographic parameters, upstream target,
// and timing.
type Config struct {
	MasterKey []byte
	Cipher    session.Cipher
	Layout    codec.Layout

	UpstreamAddr string
	DialTimeout  time.Duration

	SessionIdleTimeout time.Duration
	LongPollTotal      time.Duration
	LongPollHeartbeat  time.Duration

	// Authenticator, if non-nil, wraps every endpoint with HMAC request
	// authentication. Verification failures are handled outside the
	// core and map to 401, not one of the handlerError kinds.
	Authenticator *auth.Authenticator

	// RateLimiter, if non-nil, bounds /session calls per remote address
	// and upload calls per token. Stream calls are not limited.
	RateLimiter *ratelimit.Limiter

	// Metrics, if non-nil, records tunnel lifecycle, byte, and error
	// counters for this server.
	Metrics *metrics.Metrics

	Logger *slog.Logger
}

// DefaultConfig fills in the documented defaults for everything except
// the required MasterKey/UpstreamAddr.
func DefaultConfig() Config {
	return Config{
		Cipher:             session.CipherChaCha20Poly1305,
		Layout:             codec.LayoutASCII,
		DialTimeout:        10 * time.Second,
		SessionIdleTimeout: 300 * time.Second,
		LongPollTotal:      25 * time.Second,
		LongPollHeartbeat:  5 * time.Second,
	}
}

// Server hosts the five poll endpoints over net/http.
type Server struct {
	cfg    Config
	logger *slog.Logger
	reg    *registry

	httpServer *http.Server
	running    atomic.Bool
	stopOnce   sync.Once
	stopCh     chan struct{}
}

// NewServer builds a Server; call Start to begin listening.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		reg:    newRegistry(),
		stopCh: make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/session", s.handleSession)
	mux.HandleFunc("/api/v1/upload", s.handleUpload)
	mux.HandleFunc("/stream", s.handleStream)
	mux.HandleFunc("/fin", s.handleFin)
	mux.HandleFunc("/close", s.handleClose)

	var handler http.Handler = mux
	if cfg.Authenticator != nil {
		handler = cfg.Authenticator.Middleware(handler)
	}
	handler = s.recoverMiddleware(handler)

	s.httpServer = &http.Server{Handler: handler}
	return s
}

// Start begins serving on ln and starts the idle sweep. It returns
// immediately; Serve runs in a background goroutine.
func (s *Server) Start(ln net.Listener) {
	s.running.Store(true)
	go s.httpServer.Serve(ln)
	go s.sweepLoop()
}

// Stop gracefully shuts the HTTP server down and tears down every
// registered tunnel.
func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.running.Store(false)
		close(s.stopCh)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)

		for _, t := range s.reg.snapshot() {
			t.teardownWithMetrics("server_shutdown", s.cfg.Metrics)
		}
	})
	return err
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer recovery.RecoverWithLog(s.logger, "pollserver.handler")
		next.ServeHTTP(w, r)
	})
}

// sweepLoop evicts tunnels idle for longer than SessionIdleTimeout,
// checking every quarter of the timeout (every 75 seconds at the
// default 5 minute timeout; scaling the check interval with the
// configured timeout keeps the same ratio for non-default configs).
func (s *Server) sweepLoop() {
	defer recovery.RecoverWithLog(s.logger, "pollserver.sweepLoop")

	interval := s.cfg.SessionIdleTimeout / 4
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Server) sweepOnce() {
	for _, t := range s.reg.snapshot() {
		if t.idle(s.cfg.SessionIdleTimeout) {
			t.teardownWithMetrics("idle", s.cfg.Metrics)
			s.reg.remove(t.token)
			if s.cfg.RateLimiter != nil {
				s.cfg.RateLimiter.Forget(t.token)
			}
			s.logger.Info("evicted idle tunnel", logging.KeyToken, t.token)
		}
	}
}
