// Package upstream dials and manages the plaintext TCP connection to the
// destination a session tunnels traffic to. It is the outbound half of a
// session: the poll transport (and any streaming transport) decrypts bytes
// off the wire and writes them here; this package's reader pumps whatever
// the destination sends back into the session's outbound queue.
package upstream

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls dial and idle behavior for outbound connections.
type Config struct {
	// ConnectTimeout bounds the initial TCP handshake.
	ConnectTimeout time.Duration

	// IdleTimeout resets on every successful read; exceeding it without
	// any upstream activity closes the connection.
	IdleTimeout time.Duration
}

// DefaultConfig returns the session_idle_timeout-aligned defaults.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: 10 * time.Second,
		IdleTimeout:    5 * time.Minute,
	}
}

// Conn wraps a dialed TCP connection to an upstream destination.
type Conn struct {
	conn      net.Conn
	cfg       Config
	closed    atomic.Bool
	closeOnce sync.Once
}

// Dial connects to addr (host:port) under cfg.ConnectTimeout.
func Dial(ctx context.Context, cfg Config, addr string) (*Conn, error) {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: conn, cfg: cfg}, nil
}

// Read fills buf from the upstream connection, resetting the idle deadline
// on entry so a slow-but-alive destination is not mistaken for a stall.
func (c *Conn) Read(buf []byte) (int, error) {
	if c.cfg.IdleTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.IdleTimeout))
	}
	return c.conn.Read(buf)
}

// Write sends plaintext decoded from the session's upload path.
func (c *Conn) Write(buf []byte) (int, error) {
	return c.conn.Write(buf)
}

// CloseWrite half-closes the write side, signaling the destination that no
// more data will arrive while leaving the read side open for its reply.
func (c *Conn) CloseWrite() error {
	if tcpConn, ok := c.conn.(*net.TCPConn); ok {
		return tcpConn.CloseWrite()
	}
	return c.Close()
}

// Close tears down the connection. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.conn.Close()
	})
	return err
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// IsTimeout reports whether err is a network timeout, the failure mode
// SetReadDeadline produces once IdleTimeout elapses without activity.
func IsTimeout(err error) bool {
	var netErr net.Error
	if ok := asNetError(err, &netErr); ok {
		return netErr.Timeout()
	}
	return false
}

func asNetError(err error, target *net.Error) bool {
	ne, ok := err.(net.Error)
	if !ok {
		return false
	}
	*target = ne
	return true
}
