package pollserver

import (
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/postalsys/sudotun/internal/codec"
	"github.com/postalsys/sudotun/internal/session"
)

func testKey() []byte {
	k := make([]byte, 32)
	for i := range k {
		k[i] = byte(i + 7)
	}
	return k
}

// echoUpstream starts a TCP listener that echoes back whatever it reads,
// standing in for the destination a tunnel forwards plaintext to.
func echoUpstream(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				io.Copy(c, c)
			}(conn)
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String()
}

func newTestServer(t *testing.T, upstreamAddr string) (base string, stop func()) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MasterKey = testKey()
	cfg.UpstreamAddr = upstreamAddr
	cfg.LongPollTotal = 500 * time.Millisecond
	cfg.LongPollHeartbeat = 100 * time.Millisecond

	s := NewServer(cfg)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s.Start(ln)
	return "http://" + ln.Addr().String(), func() { s.Stop() }
}

func openSession(t *testing.T, base string) string {
	t.Helper()
	resp, err := http.Post(base+"/session", "", nil)
	if err != nil {
		t.Fatalf("POST /session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("/session status = %d, body = %s", resp.StatusCode, body)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	line := strings.TrimSpace(string(body))
	const prefix = "token="
	if !strings.HasPrefix(line, prefix) {
		t.Fatalf("unexpected /session body %q", line)
	}
	return strings.TrimPrefix(line, prefix)
}

func TestSessionUploadStreamRoundTrip(t *testing.T) {
	addr := echoUpstream(t)
	base, stop := newTestServer(t, addr)
	defer stop()

	token := openSession(t, base)

	uploadSess, err := session.Create(testKey(), session.CipherChaCha20Poly1305, codec.LayoutASCII, session.DirectionUpload)
	if err != nil {
		t.Fatalf("Create upload session: %v", err)
	}
	masked, err := uploadSess.Seal([]byte("ping"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	uploadURL := base + "/api/v1/upload?token=" + url.QueryEscape(token)
	resp, err := http.Post(uploadURL, "application/octet-stream", strings.NewReader(string(masked)))
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}

	streamSess, err := session.Create(testKey(), session.CipherChaCha20Poly1305, codec.LayoutASCII, session.DirectionStream)
	if err != nil {
		t.Fatalf("Create stream session: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	var plaintext []byte
	for time.Now().Before(deadline) {
		resp, err := http.Get(base + "/stream?token=" + url.QueryEscape(token))
		if err != nil {
			t.Fatalf("GET stream: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		for _, line := range strings.Split(strings.TrimRight(string(body), "\n"), "\n") {
			if line == "" {
				continue
			}
			raw, err := base64.StdEncoding.DecodeString(line)
			if err != nil {
				t.Fatalf("decode stream line: %v", err)
			}
			frames, err := streamSess.Feed(raw)
			if err != nil {
				t.Fatalf("Feed: %v", err)
			}
			for _, f := range frames {
				plaintext = append(plaintext, f...)
			}
		}
		if len(plaintext) > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if string(plaintext) != "ping" {
		t.Fatalf("round-tripped plaintext = %q, want %q", plaintext, "ping")
	}
}

func TestUnknownTokenIsNotFound(t *testing.T) {
	addr := echoUpstream(t)
	base, stop := newTestServer(t, addr)
	defer stop()

	resp, err := http.Post(base+"/api/v1/upload?token=deadbeef", "", nil)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUpstreamDialFailureReturns502(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MasterKey = testKey()
	cfg.UpstreamAddr = "10.255.255.1:9"
	cfg.DialTimeout = 100 * time.Millisecond

	s := NewServer(cfg)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s.Start(ln)
	defer s.Stop()

	resp, err := http.Post("http://"+ln.Addr().String()+"/session", "", nil)
	if err != nil {
		t.Fatalf("POST /session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}

func TestCloseInvalidatesToken(t *testing.T) {
	addr := echoUpstream(t)
	base, stop := newTestServer(t, addr)
	defer stop()

	token := openSession(t, base)

	resp, err := http.Post(base+"/close?token="+url.QueryEscape(token), "", nil)
	if err != nil {
		t.Fatalf("POST /close: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close status = %d", resp.StatusCode)
	}

	resp, err = http.Post(base+"/fin?token="+url.QueryEscape(token), "", nil)
	if err != nil {
		t.Fatalf("POST /fin: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("fin after close status = %d, want 404", resp.StatusCode)
	}
}

func TestStreamHeartbeatWithNoData(t *testing.T) {
	addr := echoUpstream(t)
	base, stop := newTestServer(t, addr)
	defer stop()

	token := openSession(t, base)

	resp, err := http.Get(base + "/stream?token=" + url.QueryEscape(token))
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read stream body: %v", err)
	}
	if !strings.Contains(string(body), "\n") {
		t.Fatal("expected at least a heartbeat newline in the stream response")
	}
}
