// Package aead implements the two AEAD modes the tunnel protocol can
// negotiate: ChaCha20-Poly1305 per RFC 8439, built from internal/cipher,
// and AES-128-GCM, delegated to the standard library for that
// alternative.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"

	sodacipher "github.com/postalsys/sudotun/internal/cipher"
)

// Mode selects which AEAD construction a session uses.
type Mode uint8

const (
	// ModeNone bypasses AEAD entirely: frames carry plaintext. Used only
	// when the cipher config option is "none".
	ModeNone Mode = iota
	ModeChaCha20Poly1305
	ModeAES128GCM
)

const (
	// KeySize is the symmetric key size for both modes, in bytes.
	KeySize = 32

	// ChaChaNonceSize is the ChaCha20-Poly1305 nonce size in bytes.
	ChaChaNonceSize = 12

	// GCMNonceSize is the AES-128-GCM nonce size in bytes.
	GCMNonceSize = 12

	// TagSize is the Poly1305/GCM authentication tag size in bytes.
	TagSize = 16
)

var (
	// ErrAuthFailed is returned when a tag fails to verify. The caller
	// must treat this as a crypto failure: zero the output, close the
	// session.
	ErrAuthFailed = errors.New("aead: authentication failed")

	// ErrInvalidKeySize is returned for a key that isn't KeySize bytes.
	ErrInvalidKeySize = errors.New("aead: invalid key size")

	// ErrNonceWrap is returned when the session's 64-bit nonce counter
	// is about to wrap; sending must stop rather than reuse a
	// (key, counter) pair.
	ErrNonceWrap = errors.New("aead: nonce counter exhausted")
)

// pad16 returns the zero padding needed to bring n up to the next
// 16-byte boundary (RFC 8439 §2.8.1); it is empty when n is already
// aligned.
func pad16(n int) []byte {
	rem := n % 16
	if rem == 0 {
		return nil
	}
	return make([]byte, 16-rem)
}

func le64(n uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> (8 * i))
	}
	return b
}

// SealChaCha20Poly1305 encrypts plaintext under key/nonce with associated
// data ad, per RFC 8439 §2.8.1, and returns ciphertext‖tag.
func SealChaCha20Poly1305(key, nonce, ad, plaintext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	if len(nonce) != ChaChaNonceSize {
		return nil, errors.New("aead: invalid nonce size")
	}

	polyKey, err := sodacipher.DerivePolyKey(key, nonce)
	if err != nil {
		return nil, err
	}

	c, err := sodacipher.New(key, nonce, 1)
	if err != nil {
		return nil, err
	}

	ciphertext := make([]byte, len(plaintext)+TagSize)
	c.XOR(ciphertext[:len(plaintext)], plaintext)

	mac := sodacipher.NewPoly1305(polyKey[:])
	mac.Write(ad)
	mac.Write(pad16(len(ad)))
	mac.Write(ciphertext[:len(plaintext)])
	mac.Write(pad16(len(plaintext)))
	mac.Write(le64(uint64(len(ad))))
	mac.Write(le64(uint64(len(plaintext))))

	var tag [TagSize]byte
	mac.Sum(&tag)
	copy(ciphertext[len(plaintext):], tag[:])

	return ciphertext, nil
}

// OpenChaCha20Poly1305 verifies and decrypts ciphertext (which must
// include the trailing tag) under key/nonce/ad. A short ciphertext or a
// tag mismatch returns ErrAuthFailed; a bad key or nonce size returns
// its own error. Every failure returns a nil plaintext (none is written
// on failure, so there is nothing to zero).
func OpenChaCha20Poly1305(key, nonce, ad, ciphertext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	if len(nonce) != ChaChaNonceSize {
		return nil, errors.New("aead: invalid nonce size")
	}
	if len(ciphertext) < TagSize {
		return nil, ErrAuthFailed
	}

	c := ciphertext[:len(ciphertext)-TagSize]
	gotTag := ciphertext[len(ciphertext)-TagSize:]

	polyKey, err := sodacipher.DerivePolyKey(key, nonce)
	if err != nil {
		return nil, err
	}

	mac := sodacipher.NewPoly1305(polyKey[:])
	mac.Write(ad)
	mac.Write(pad16(len(ad)))
	mac.Write(c)
	mac.Write(pad16(len(c)))
	mac.Write(le64(uint64(len(ad))))
	mac.Write(le64(uint64(len(c))))

	var wantTag [TagSize]byte
	mac.Sum(&wantTag)

	if subtle.ConstantTimeCompare(wantTag[:], gotTag) != 1 {
		return nil, ErrAuthFailed
	}

	stream, err := sodacipher.New(key, nonce, 1)
	if err != nil {
		return nil, err
	}
	plaintext := make([]byte, len(c))
	stream.XOR(plaintext, c)

	return plaintext, nil
}

// SealAES128GCM encrypts plaintext under a 16-byte AES-128 key via the
// standard library's GCM implementation. Output is ciphertext‖tag; the
// 12-byte nonce travels alongside in the frame's inner layout
// (nonce‖C‖tag) since GCM has no safe deterministic-counter convention
// shared with the peer.
func SealAES128GCM(key, nonce, ad, plaintext []byte) ([]byte, error) {
	gcm, err := newAES128GCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("aead: invalid nonce size")
	}
	return gcm.Seal(nil, nonce, plaintext, ad), nil
}

// OpenAES128GCM verifies and decrypts ciphertext under key/nonce/ad.
func OpenAES128GCM(key, nonce, ad, ciphertext []byte) ([]byte, error) {
	gcm, err := newAES128GCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("aead: invalid nonce size")
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func newAES128GCM(key []byte) (cipher.AEAD, error) {
	if len(key) != 16 {
		return nil, ErrInvalidKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
