// Package auth provides HMAC-SHA256 request authentication for the poll
// transport's HTTP endpoints. It is a shared-secret scheme, deliberately
// separate from the AEAD core: losing this signing key exposes metadata
// about who is talking to the relay, not the tunneled plaintext.
package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
)

const (
	// SignatureSize is the HMAC-SHA256 tag size in bytes.
	SignatureSize = 32

	// HeaderName is the HTTP header carrying the request signature, hex
	// encoded.
	HeaderName = "X-Sudotun-Signature"
)

var (
	// ErrUnauthorized is returned when a request's signature does not
	// match, or is absent or malformed.
	ErrUnauthorized = errors.New("auth: signature missing or invalid")

	// ErrKeyTooShort rejects degenerate signing keys early rather than
	// accept a weak one silently.
	ErrKeyTooShort = errors.New("auth: signing key must be at least 16 bytes")
)

// Authenticator signs and verifies requests over a shared secret. It is
// safe for concurrent use; it holds no mutable state.
type Authenticator struct {
	secret []byte
}

// New builds an Authenticator over secret. The secret is never logged
// or echoed back to a caller.
func New(secret []byte) (*Authenticator, error) {
	if len(secret) < 16 {
		return nil, ErrKeyTooShort
	}
	return &Authenticator{secret: append([]byte(nil), secret...)}, nil
}

// Sign computes the hex-encoded signature over method, path, and body.
// Peers must agree on exactly this input order; query strings are part
// of path as the caller passes it.
func (a *Authenticator) Sign(method, path string, body []byte) string {
	return hex.EncodeToString(a.tag(method, path, body))
}

func (a *Authenticator) tag(method, path string, body []byte) []byte {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(method))
	mac.Write([]byte{0})
	mac.Write([]byte(path))
	mac.Write([]byte{0})
	mac.Write(body)
	return mac.Sum(nil)
}

// Verify reports whether signature (hex-encoded) matches method/path/body
// under the authenticator's secret, in constant time.
func (a *Authenticator) Verify(method, path string, body []byte, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil || len(got) != SignatureSize {
		return false
	}
	want := a.tag(method, path, body)
	return subtle.ConstantTimeCompare(want, got) == 1
}

// Middleware wraps next, rejecting any request whose HeaderName signature
// does not verify against its method, URL path, and body. A 401 is
// returned before next ever sees the request; authenticator failure is
// handled here, outside the tunnel core.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig := r.Header.Get(HeaderName)
		if sig == "" {
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !a.Verify(r.Method, r.URL.Path, body, sig) {
			http.Error(w, ErrUnauthorized.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
