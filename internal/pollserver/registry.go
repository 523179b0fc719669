package pollserver

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/postalsys/sudotun/internal/metrics"
	"github.com/postalsys/sudotun/internal/session"
	"github.com/postalsys/sudotun/internal/upstream"
)

// tokenState tracks a tunnel's position in the NEW -> OPEN -> HALF_CLOSED
// -> CLOSED state machine. NEW is transient: session() moves a tunnel
// straight to OPEN before it is ever registered, so the only states the
// registry observes externally are OPEN, HALF_CLOSED, and CLOSED.
type tokenState uint8

const (
	stateOpen tokenState = iota
	stateHalfClosed
	stateClosed
)

// tunnel bundles the two independently-keyed sessions that make up one
// tunnel (upload: client->upstream, stream: upstream->client) with the
// upstream connection they share and the coarse lifecycle state the poll
// endpoints observe.
type tunnel struct {
	token string

	mu           sync.Mutex
	state        tokenState
	lastActivity time.Time

	upload   *session.Session
	stream   *session.Session
	upstream *upstream.Conn

	closeMetricOnce sync.Once
}

func (t *tunnel) touch() {
	t.mu.Lock()
	t.lastActivity = time.Now()
	t.mu.Unlock()
}

func (t *tunnel) idle(timeout time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.lastActivity) > timeout
}

func (t *tunnel) markHalfClosed() {
	t.mu.Lock()
	if t.state == stateOpen {
		t.state = stateHalfClosed
	}
	t.mu.Unlock()
}

func (t *tunnel) markClosed() {
	t.mu.Lock()
	t.state = stateClosed
	t.mu.Unlock()
}

func (t *tunnel) closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == stateClosed
}

// teardown closes both sessions and the upstream connection. Safe to call
// more than once; upstream.Conn.Close and session.Close are both
// idempotent.
func (t *tunnel) teardown() {
	t.markClosed()
	t.upload.Close()
	t.stream.Close()
	t.upstream.Close()
}

// teardownWithMetrics tears the tunnel down and records its close reason
// exactly once, no matter how many of the tunnel's several possible
// closers (client /close, idle sweep, server shutdown, upstream pump
// ending on its own) reach it first.
func (t *tunnel) teardownWithMetrics(reason string, m *metrics.Metrics) {
	t.teardown()
	if m == nil {
		return
	}
	t.closeMetricOnce.Do(func() {
		m.RecordTunnelClose(reason)
	})
}

// registry is the token -> tunnel map. Mutation is exclusive; lookups may
// proceed concurrently with each other.
type registry struct {
	mu      sync.RWMutex
	tunnels map[string]*tunnel
}

func newRegistry() *registry {
	return &registry{tunnels: make(map[string]*tunnel)}
}

func (r *registry) put(t *tunnel) {
	r.mu.Lock()
	r.tunnels[t.token] = t
	r.mu.Unlock()
}

func (r *registry) get(token string) (*tunnel, bool) {
	r.mu.RLock()
	t, ok := r.tunnels[token]
	r.mu.RUnlock()
	return t, ok
}

func (r *registry) remove(token string) {
	r.mu.Lock()
	delete(r.tunnels, token)
	r.mu.Unlock()
}

// snapshot returns the tunnels currently registered, for the idle sweep
// to evaluate without holding the registry lock while it tears each one
// down.
func (r *registry) snapshot() []*tunnel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*tunnel, 0, len(r.tunnels))
	for _, t := range r.tunnels {
		out = append(out, t)
	}
	return out
}

// newToken generates a session token: 16 random bytes, lowercase hex.
func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
