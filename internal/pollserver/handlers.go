package pollserver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/postalsys/sudotun/internal/logging"
	"github.com/postalsys/sudotun/internal/session"
	"github.com/postalsys/sudotun/internal/upstream"
)

// maxUploadBody bounds a single upload request body; generous enough for
// many frames batched together without letting one request exhaust
// memory.
const maxUploadBody = 1 << 20

// handleSession allocates a tunnel: dials upstream, derives the two
// per-direction sessions from the configured master key, registers the
// tunnel, and starts the upstream reader pump. A dial failure never
// registers anything and maps to 502 (TransportFailure).
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.cfg.RateLimiter != nil && !s.cfg.RateLimiter.Allow(r.RemoteAddr) {
		s.writeErr(w, errResourceExhausted(errors.New("too many session attempts")))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.DialTimeout)
	defer cancel()

	conn, err := upstream.Dial(ctx, upstream.Config{ConnectTimeout: s.cfg.DialTimeout, IdleTimeout: s.cfg.SessionIdleTimeout}, s.cfg.UpstreamAddr)
	if err != nil {
		s.logger.Error("upstream dial failed", logging.KeyUpstream, s.cfg.UpstreamAddr, logging.KeyError, err)
		s.writeErr(w, errTransport(fmt.Errorf("dial upstream: %w", err)))
		return
	}

	uploadSess, err := session.Create(s.cfg.MasterKey, s.cfg.Cipher, s.cfg.Layout, session.DirectionUpload)
	if err != nil {
		conn.Close()
		s.writeErr(w, errCrypto(err))
		return
	}
	streamSess, err := session.Create(s.cfg.MasterKey, s.cfg.Cipher, s.cfg.Layout, session.DirectionStream)
	if err != nil {
		conn.Close()
		s.writeErr(w, errCrypto(err))
		return
	}

	token, err := newToken()
	if err != nil {
		conn.Close()
		s.writeErr(w, errResourceExhausted(err))
		return
	}

	t := &tunnel{
		token:        token,
		state:        stateOpen,
		lastActivity: time.Now(),
		upload:       uploadSess,
		stream:       streamSess,
		upstream:     conn,
	}
	s.reg.put(t)
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordTunnelOpen()
	}

	go upstream.Pump(conn, streamSess, s.logger, func(pumpErr error) {
		reason := "client_close"
		if pumpErr != nil {
			reason = "upstream_error"
			s.logger.Warn("upstream pump ended with error", logging.KeyToken, token, logging.KeyError, pumpErr)
		}
		t.teardownWithMetrics(reason, s.cfg.Metrics)
	})

	s.logger.Info("session opened", logging.KeyToken, token, logging.KeyUpstream, s.cfg.UpstreamAddr)

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "token=%s\n", token)
}

// handleUpload decrypts masked bytes from the client and forwards the
// plaintext upstream. Any decode/crypto failure closes the tunnel and
// invalidates the token.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	t, ok := s.lookup(token)
	if !ok {
		s.writeErr(w, errProtocolState(fmt.Errorf("unknown token %q", token)))
		return
	}

	if s.cfg.RateLimiter != nil && !s.cfg.RateLimiter.Allow(token) {
		s.writeErr(w, errResourceExhausted(errors.New("upload rate exceeded")))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBody+1))
	if err != nil {
		s.writeErr(w, errMalformed(fmt.Errorf("read body: %w", err)))
		return
	}
	if len(body) > maxUploadBody {
		s.writeErr(w, errResourceExhausted(errors.New("upload body too large")))
		return
	}

	plaintexts, feedErr := t.upload.Feed(body)
	for _, pt := range plaintexts {
		if len(pt) == 0 {
			continue
		}
		if _, werr := t.upstream.Write(pt); werr != nil {
			t.teardownWithMetrics("upstream_error", s.cfg.Metrics)
			s.reg.remove(token)
			s.writeErr(w, errTransport(werr))
			return
		}
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.RecordFrameReceived("upload")
			s.cfg.Metrics.RecordBytesReceived("upload", len(pt))
		}
	}
	if feedErr != nil {
		t.teardownWithMetrics("upstream_error", s.cfg.Metrics)
		s.reg.remove(token)
		s.writeErr(w, classifySessionErr(feedErr))
		return
	}

	t.touch()
	t.upload.Touch()
	w.WriteHeader(http.StatusOK)
}

// handleStream is the long-poll endpoint: it drains whatever is ready
// immediately, then suspends on the stream session's waiter, re-checking
// every heartbeat interval and emitting a keepalive newline. Frames that
// arrive are written as they come; the response ends only when the
// session closes, the total poll budget elapses, or the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	t, ok := s.lookup(token)
	if !ok {
		s.writeErr(w, errProtocolState(fmt.Errorf("unknown token %q", token)))
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	flusher, _ := w.(http.Flusher)

	deadline := time.Now().Add(s.cfg.LongPollTotal)
	waiter := t.stream.Waiter()

	for {
		for _, frame := range t.stream.Drain() {
			fmt.Fprintf(w, "%s\n", base64.StdEncoding.EncodeToString(frame))
			if s.cfg.Metrics != nil {
				s.cfg.Metrics.RecordFrameSent("stream")
				s.cfg.Metrics.RecordBytesSent("stream", len(frame))
			}
		}
		if flusher != nil {
			flusher.Flush()
		}

		if t.stream.Closed() {
			return
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		wait := s.cfg.LongPollHeartbeat
		if wait > remaining {
			wait = remaining
		}

		select {
		case <-waiter.C():
			t.touch()
			continue
		case <-time.After(wait):
			if time.Until(deadline) <= 0 {
				return
			}
			fmt.Fprint(w, "\n")
			if flusher != nil {
				flusher.Flush()
			}
			t.touch()
			continue
		case <-r.Context().Done():
			return
		}
	}
}

// handleFin half-closes the upstream write side: the destination sees
// EOF on its read but the tunnel keeps delivering any reply already in
// flight.
func (s *Server) handleFin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token := r.URL.Query().Get("token")
	t, ok := s.lookup(token)
	if !ok {
		s.writeErr(w, errProtocolState(fmt.Errorf("unknown token %q", token)))
		return
	}

	if err := t.upstream.CloseWrite(); err != nil {
		s.writeErr(w, errTransport(err))
		return
	}
	t.markHalfClosed()
	t.touch()
	w.WriteHeader(http.StatusOK)
}

// handleClose tears a tunnel down immediately and removes it from the
// registry.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	token := r.URL.Query().Get("token")
	t, ok := s.lookup(token)
	if !ok {
		s.writeErr(w, errProtocolState(fmt.Errorf("unknown token %q", token)))
		return
	}

	t.teardownWithMetrics("client_close", s.cfg.Metrics)
	s.reg.remove(token)
	if s.cfg.RateLimiter != nil {
		s.cfg.RateLimiter.Forget(token)
	}
	w.WriteHeader(http.StatusOK)
}

// lookup returns a tunnel only if it is registered and not yet torn
// down; a closed-but-not-yet-swept tunnel is treated as missing, so
// subsequent calls see the session as gone rather than resurrecting it.
func (s *Server) lookup(token string) (*tunnel, bool) {
	if token == "" {
		return nil, false
	}
	t, ok := s.reg.get(token)
	if !ok || t.closed() {
		return nil, false
	}
	return t, true
}

// writeErr writes the HTTP status a handler error maps to, and records
// it by kind if metrics are configured. A ResourceExhausted error
// also counts as a rate-limit rejection, whether it came from the
// limiter itself or from another bound (e.g. the upload body size cap).
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
	if s.cfg.Metrics == nil {
		return
	}
	s.cfg.Metrics.RecordHandlerError(kindName(err))
	if statusFor(err) == http.StatusTooManyRequests {
		s.cfg.Metrics.RecordRateLimitRejection()
	}
}

// kindName returns the error-kind label writeErr's metric uses.
func kindName(err error) string {
	var he *handlerError
	if !errors.As(err, &he) {
		return "unknown"
	}
	switch he.k {
	case kindMalformedInput:
		return "malformed"
	case kindCryptoFailure:
		return "crypto"
	case kindTransportFailure:
		return "transport"
	case kindResourceExhausted:
		return "resource_exhausted"
	case kindProtocolState:
		return "protocol_state"
	default:
		return "unknown"
	}
}

// classifySessionErr maps a session.Feed error to the handler-error kind
// that determines its HTTP status.
func classifySessionErr(err error) error {
	switch {
	case errors.Is(err, session.ErrClosed):
		return errProtocolState(err)
	case errors.Is(err, session.ErrNonceExhausted):
		return errCrypto(err)
	default:
		return errCrypto(err)
	}
}
