package aead

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid hex: %v", err)
	}
	return b
}

// TestChaCha20Poly1305RFCVector is the RFC 8439 §2.8.2 AEAD test vector.
func TestChaCha20Poly1305RFCVector(t *testing.T) {
	plaintext := []byte("Ladies and Gentlemen of the class of '99: If I could offer you only one tip for the future, sunscreen would be it.")
	ad := mustHex(t, "50515253c0c1c2c3c4c5c6c7")
	key := mustHex(t, "808182838485868788898a8b8c8d8e8f909192939495969798999a9b9c9d9e9f")
	nonce := mustHex(t, "070000004041424344454647")

	want := mustHex(t, "d31a8d34648e60db7b86afbc53ef7ec2a4aded51296e08fea9e2b5a736ee62d63dbea45e8ca9671282fafb69da92728b1a71de0a9e060b2905d6a5b67ecd3b3692ddbd7f2d778b8c9803aee328091b58fab324e4fad675945585808b4831d7bc3ff4def08e4b7a9de576d26586cec64b6116")
	wantTag := mustHex(t, "1ae10b594f09e26a7e902ecbd0600691")

	out, err := SealChaCha20Poly1305(key, nonce, ad, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	gotCiphertext := out[:len(out)-TagSize]
	gotTag := out[len(out)-TagSize:]

	if !bytes.Equal(gotCiphertext, want) {
		t.Fatalf("ciphertext mismatch:\n got=%x\nwant=%x", gotCiphertext, want)
	}
	if !bytes.Equal(gotTag, wantTag) {
		t.Fatalf("tag mismatch:\n got=%x\nwant=%x", gotTag, wantTag)
	}

	opened, err := OpenChaCha20Poly1305(key, nonce, ad, out)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("opened plaintext mismatch:\n got=%q\nwant=%q", opened, plaintext)
	}
}

func TestChaCha20Poly1305RejectsTamperedCiphertext(t *testing.T) {
	key := make([]byte, KeySize)
	nonce := make([]byte, ChaChaNonceSize)
	nonce[0] = 9
	ad := []byte("header")
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	sealed, err := SealChaCha20Poly1305(key, nonce, ad, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[0] ^= 0x01

	if _, err := OpenChaCha20Poly1305(key, nonce, ad, tampered); err != ErrAuthFailed {
		t.Fatalf("expected ErrAuthFailed for tampered ciphertext, got %v", err)
	}

	tamperedTag := append([]byte(nil), sealed...)
	tamperedTag[len(tamperedTag)-1] ^= 0x01
	if _, err := OpenChaCha20Poly1305(key, nonce, ad, tamperedTag); err != ErrAuthFailed {
		t.Fatalf("expected ErrAuthFailed for tampered tag, got %v", err)
	}

	tamperedAD := append([]byte(nil), ad...)
	tamperedAD[0] ^= 0x01
	if _, err := OpenChaCha20Poly1305(key, nonce, tamperedAD, sealed); err != ErrAuthFailed {
		t.Fatalf("expected ErrAuthFailed for tampered associated data, got %v", err)
	}
}

func TestChaCha20Poly1305InvalidSizes(t *testing.T) {
	if _, err := SealChaCha20Poly1305(make([]byte, 10), make([]byte, ChaChaNonceSize), nil, nil); err != ErrInvalidKeySize {
		t.Errorf("expected ErrInvalidKeySize, got %v", err)
	}
	if _, err := OpenChaCha20Poly1305(make([]byte, 10), make([]byte, ChaChaNonceSize), nil, nil); err != ErrInvalidKeySize {
		t.Errorf("expected ErrInvalidKeySize, got %v", err)
	}
}

func TestAES128GCMRoundTrip(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	nonce := mustHex(t, "000000000000000000000000")
	ad := []byte("session-1")
	plaintext := []byte("frame payload under AES-128-GCM")

	sealed, err := SealAES128GCM(key, nonce, ad, plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	opened, err := OpenAES128GCM(key, nonce, ad, sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("plaintext mismatch: got=%q want=%q", opened, plaintext)
	}

	tampered := append([]byte(nil), sealed...)
	tampered[0] ^= 0x01
	if _, err := OpenAES128GCM(key, nonce, ad, tampered); err != ErrAuthFailed {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestAES128GCMInvalidKeySize(t *testing.T) {
	if _, err := SealAES128GCM(make([]byte, 32), make([]byte, GCMNonceSize), nil, nil); err != ErrInvalidKeySize {
		t.Errorf("expected ErrInvalidKeySize, got %v", err)
	}
}
