// Package session holds the per-tunnel cryptographic and framing
// state: the AEAD cipher selection, the monotonic send-nonce counter,
// the codec's masking/unmasking streams, and the buffers the poll
// transport needs to reassemble frames and queue outbound data.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/postalsys/sudotun/internal/aead"
	"github.com/postalsys/sudotun/internal/codec"
	"github.com/postalsys/sudotun/internal/frame"
)

// Cipher selects the AEAD construction a session uses.
type Cipher uint8

const (
	CipherNone Cipher = iota
	CipherAES128GCM
	CipherChaCha20Poly1305
)

// ParseCipher maps a configuration string to a Cipher.
func ParseCipher(s string) (Cipher, error) {
	switch s {
	case "none":
		return CipherNone, nil
	case "aes-128-gcm":
		return CipherAES128GCM, nil
	case "chacha20-poly1305":
		return CipherChaCha20Poly1305, nil
	default:
		return 0, ErrUnknownCipher
	}
}

// Direction distinguishes the two independently-keyed halves of one
// tunnel: bytes flowing from the client into the upstream connection,
// and bytes flowing from upstream back to the client. A session models
// one direction; a tunnel pairs two. Keeping them distinct AEAD keys
// (derived from the same master key) means the two directions' nonce
// counters can never collide on the same (key, counter) pair even
// though both start counting from zero.
type Direction uint8

const (
	DirectionUpload Direction = iota // client -> upstream
	DirectionStream                  // upstream -> client
)

var (
	ErrUnknownCipher    = errors.New("session: unknown cipher")
	ErrNonceExhausted   = errors.New("session: nonce counter exhausted")
	ErrClosed           = errors.New("session: closed")
	ErrKeySize          = errors.New("session: master key must be 32 bytes")
	ErrRandomNonce      = errors.New("session: failed to generate random nonce")
)

// ReadyQueueLimit bounds the number of already-masked outbound frames
// a session buffers before the upstream reader must suspend.
const ReadyQueueLimit = 64

// IdleTimeout is the default interval after which a session with no
// activity becomes eligible for eviction.
const IdleTimeout = 5 * time.Minute

// Session is the per-direction cryptographic and framing state for
// one tunnel. It has no hidden singletons: everything needed to seal,
// open, mask, and unmask frames lives on the value itself or on the
// process-wide, read-only codec.Tables it references.
type Session struct {
	mu sync.Mutex

	directionKey [32]byte
	cipher       Cipher

	sendCounter uint64

	tables  *codec.Tables
	encoder *codec.Encoder
	decoder *codec.Decoder

	reassembly *frame.Reader

	ready [][]byte // queue of already-masked, already-framed records ready to read, one entry per Seal call

	closed       bool
	lastActivity time.Time

	waiter *Waiter
}

// Create derives a direction-specific key from masterKey and builds a
// new Session. Codec tables are looked up (and built, if this is the
// first session seen for masterKey) from the process-wide cache.
func Create(masterKey []byte, cipher Cipher, layout codec.Layout, dir Direction) (*Session, error) {
	if len(masterKey) != 32 {
		return nil, ErrKeySize
	}
	if layout != codec.LayoutASCII {
		return nil, codec.ErrLayoutUnsupported
	}

	dirKey := deriveDirectionKey(masterKey, dir)

	tables, err := codec.TablesForKey(dirKey[:])
	if err != nil {
		return nil, err
	}
	enc, err := codec.NewEncoder(tables, dirKey[:])
	if err != nil {
		return nil, err
	}

	s := &Session{
		cipher:       cipher,
		tables:       tables,
		encoder:      enc,
		decoder:      codec.NewDecoder(tables),
		reassembly:   frame.NewReader(),
		lastActivity: time.Now(),
		waiter:       NewWaiter(),
	}
	copy(s.directionKey[:], dirKey[:])
	return s, nil
}

func deriveDirectionKey(masterKey []byte, dir Direction) [32]byte {
	h := sha256.New()
	h.Write(masterKey)
	h.Write([]byte{byte(dir)})
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Touch refreshes the session's last-activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Idle reports whether the session has been inactive for longer than
// timeout.
func (s *Session) Idle(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity) > timeout
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close drains the ready queue, marks the session closed, and wakes
// any waiter blocked on Wait so a long-poll handler can terminate its
// response cleanly.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.ready = nil
	s.mu.Unlock()
	s.waiter.Notify()
}

// Waiter returns the session's one-shot long-poll signaling handle.
func (s *Session) Waiter() *Waiter {
	return s.waiter
}

// Seal encrypts plaintext, frames it, and masks it into wire bytes
// ready for transport. The nonce counter is incremented before use;
// Seal refuses to run once the counter is exhausted rather than reuse
// a (key, nonce) pair.
func (s *Session) Seal(plaintext []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	inner, err := s.sealInner(plaintext)
	if err != nil {
		return nil, err
	}

	framed, err := frame.Encode(inner)
	if err != nil {
		return nil, err
	}

	masked, err := s.encoder.Mask(framed)
	if err != nil {
		return nil, err
	}

	s.lastActivity = time.Now()
	return masked, nil
}

// sealInner produces the AEAD-layer bytes for one frame (before
// framing/masking), dispatching on the session's cipher.
func (s *Session) sealInner(plaintext []byte) ([]byte, error) {
	switch s.cipher {
	case CipherNone:
		return append([]byte(nil), plaintext...), nil

	case CipherChaCha20Poly1305:
		counter, err := s.nextCounter()
		if err != nil {
			return nil, err
		}
		nonce := chachaNonce(s.directionKey[:], counter)
		return aead.SealChaCha20Poly1305(s.directionKey[:aead.KeySize], nonce, nil, plaintext)

	case CipherAES128GCM:
		nonce := make([]byte, aead.GCMNonceSize)
		if _, err := rand.Read(nonce); err != nil {
			return nil, ErrRandomNonce
		}
		ct, err := aead.SealAES128GCM(s.directionKey[:16], nonce, nil, plaintext)
		if err != nil {
			return nil, err
		}
		return append(nonce, ct...), nil

	default:
		return nil, ErrUnknownCipher
	}
}

func (s *Session) nextCounter() (uint64, error) {
	if s.sendCounter == math.MaxUint64 {
		return 0, ErrNonceExhausted
	}
	s.sendCounter++
	return s.sendCounter, nil
}

func chachaNonce(key []byte, counter uint64) []byte {
	nonce := make([]byte, aead.ChaChaNonceSize)
	copy(nonce[:4], key[:4])
	binary.BigEndian.PutUint64(nonce[4:], counter)
	return nonce
}

// Feed unmasks and reassembles inbound wire bytes, opening every
// complete frame it can extract and returning the decrypted
// plaintexts in order. A partial frame or partial hint quadruple at
// the end of data is buffered internally for the next Feed call.
//
// On a decode/parse/crypto failure the session is not closed by Feed
// itself — that decision belongs to the caller (the poll session
// manager or the stream transport), which has the context to map it
// to the right error kind.
func (s *Session) Feed(data []byte) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	unmasked := s.decoder.Unmask(data)
	frames := s.reassembly.Feed(unmasked)

	out := make([][]byte, 0, len(frames))
	for _, inner := range frames {
		plaintext, err := s.openInner(inner)
		if err != nil {
			return out, err
		}
		out = append(out, plaintext)
	}

	s.lastActivity = time.Now()
	return out, nil
}

func (s *Session) openInner(inner []byte) ([]byte, error) {
	switch s.cipher {
	case CipherNone:
		return append([]byte(nil), inner...), nil

	case CipherChaCha20Poly1305:
		counter, err := s.nextCounter()
		if err != nil {
			return nil, err
		}
		nonce := chachaNonce(s.directionKey[:], counter)
		return aead.OpenChaCha20Poly1305(s.directionKey[:aead.KeySize], nonce, nil, inner)

	case CipherAES128GCM:
		if len(inner) < aead.GCMNonceSize {
			return nil, aead.ErrAuthFailed
		}
		nonce := inner[:aead.GCMNonceSize]
		ct := inner[aead.GCMNonceSize:]
		return aead.OpenAES128GCM(s.directionKey[:16], nonce, nil, ct)

	default:
		return nil, ErrUnknownCipher
	}
}

// Enqueue appends an already-masked, already-framed record to the
// ready-to-read queue for the stream (long-poll) transport to drain.
// It reports false if the queue is at ReadyQueueLimit, signalling the
// caller (the upstream reader) to suspend until the queue drains.
func (s *Session) Enqueue(masked []byte) bool {
	s.mu.Lock()
	if s.closed || len(s.ready) >= ReadyQueueLimit {
		s.mu.Unlock()
		return false
	}
	s.ready = append(s.ready, masked)
	s.mu.Unlock()

	s.waiter.Notify()
	return true
}

// Drain removes and returns all records currently queued for the stream
// transport, one entry per Seal call, oldest first.
func (s *Session) Drain() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.ready
	s.ready = nil
	return out
}
