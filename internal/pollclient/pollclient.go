// Package pollclient is the client side of the long-poll HTTP transport:
// it opens a tunnel against a relay's /session endpoint, posts masked
// upload frames, and long-polls /stream for masked download frames,
// presenting the result as a plain io.ReadWriteCloser so the rest of the
// client (the SOCKS5 front-end) can treat a tunnel like any other
// connection.
package pollclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/postalsys/sudotun/internal/codec"
	"github.com/postalsys/sudotun/internal/session"
)

// Config controls how a Conn talks to a relay.
type Config struct {
	RelayAddr string // e.g. https://relay.example.com
	MasterKey []byte
	Cipher    session.Cipher
	Layout    codec.Layout

	HTTPClient *http.Client

	// PollInterval is how long Read blocks between /stream calls when the
	// relay itself returns no data (e.g. between heartbeats).
	PollInterval time.Duration
}

// DefaultConfig mirrors the relay's documented defaults.
func DefaultConfig() Config {
	return Config{
		Cipher:       session.CipherChaCha20Poly1305,
		Layout:       codec.LayoutASCII,
		HTTPClient:   &http.Client{Timeout: 35 * time.Second},
		PollInterval: 200 * time.Millisecond,
	}
}

// Conn is one client-side tunnel: an upload-direction session for bytes
// going to the relay and a stream-direction session for bytes coming
// back, bridged over repeated HTTP calls.
type Conn struct {
	cfg   Config
	token string

	upload *session.Session
	stream *session.Session

	mu       sync.Mutex
	pending  []byte // decoded plaintext not yet consumed by Read
	closed   bool
}

// Dial opens a tunnel on the relay, requesting it connect upstream.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	upload, err := session.Create(cfg.MasterKey, cfg.Cipher, cfg.Layout, session.DirectionUpload)
	if err != nil {
		return nil, fmt.Errorf("pollclient: create upload session: %w", err)
	}
	stream, err := session.Create(cfg.MasterKey, cfg.Cipher, cfg.Layout, session.DirectionStream)
	if err != nil {
		return nil, fmt.Errorf("pollclient: create stream session: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.RelayAddr+"/session", nil)
	if err != nil {
		return nil, err
	}
	resp, err := cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pollclient: open session: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return nil, fmt.Errorf("pollclient: read session response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pollclient: open session: relay returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	token, err := parseToken(string(body))
	if err != nil {
		return nil, err
	}

	return &Conn{cfg: cfg, token: token, upload: upload, stream: stream}, nil
}

func parseToken(body string) (string, error) {
	line := strings.TrimSpace(body)
	const prefix = "token="
	if !strings.HasPrefix(line, prefix) {
		return "", fmt.Errorf("pollclient: unexpected session response %q", line)
	}
	token := strings.TrimPrefix(line, prefix)
	if token == "" {
		return "", fmt.Errorf("pollclient: empty token in session response")
	}
	return token, nil
}

// Write seals p and posts it as one upload call.
func (c *Conn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	masked, err := c.upload.Seal(p)
	if err != nil {
		return 0, fmt.Errorf("pollclient: seal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.uploadURL(), bytes.NewReader(masked))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pollclient: upload: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pollclient: upload: relay returned %d", resp.StatusCode)
	}
	return len(p), nil
}

// Read blocks until at least one byte of unmasked stream data is
// available, long-polling the relay's /stream endpoint as needed.
func (c *Conn) Read(p []byte) (int, error) {
	for {
		c.mu.Lock()
		if len(c.pending) > 0 {
			n := copy(p, c.pending)
			c.pending = c.pending[n:]
			c.mu.Unlock()
			return n, nil
		}
		if c.closed {
			c.mu.Unlock()
			return 0, io.EOF
		}
		c.mu.Unlock()

		frames, err := c.pollOnce()
		if err != nil {
			return 0, err
		}
		if len(frames) == 0 {
			if c.cfg.PollInterval > 0 {
				time.Sleep(c.cfg.PollInterval)
			}
			continue
		}
		c.mu.Lock()
		for _, f := range frames {
			c.pending = append(c.pending, f...)
		}
		c.mu.Unlock()
	}
}

func (c *Conn) pollOnce() ([][]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.streamURL(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pollclient: stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		return nil, io.EOF
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pollclient: read stream body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pollclient: stream: relay returned %d", resp.StatusCode)
	}

	var out [][]byte
	for _, line := range strings.Split(strings.TrimRight(string(body), "\n"), "\n") {
		if line == "" {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("pollclient: decode stream line: %w", err)
		}
		frames, err := c.stream.Feed(raw)
		if err != nil {
			return nil, fmt.Errorf("pollclient: feed stream frame: %w", err)
		}
		out = append(out, frames...)
	}
	return out, nil
}

// CloseWrite signals upstream half-close via the relay's /fin endpoint.
func (c *Conn) CloseWrite() error {
	req, err := http.NewRequest(http.MethodPost, c.finURL(), nil)
	if err != nil {
		return err
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("pollclient: fin: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Close tears down the tunnel on the relay and marks this Conn closed.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	req, err := http.NewRequest(http.MethodPost, c.closeURL(), nil)
	if err != nil {
		return err
	}
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("pollclient: close: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Conn) uploadURL() string {
	return c.cfg.RelayAddr + "/api/v1/upload?token=" + url.QueryEscape(c.token)
}

func (c *Conn) streamURL() string {
	return c.cfg.RelayAddr + "/stream?token=" + url.QueryEscape(c.token)
}

func (c *Conn) finURL() string {
	return c.cfg.RelayAddr + "/fin?token=" + url.QueryEscape(c.token)
}

func (c *Conn) closeURL() string {
	return c.cfg.RelayAddr + "/close?token=" + url.QueryEscape(c.token)
}
