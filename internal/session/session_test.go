package session

import (
	"bytes"
	"testing"

	"github.com/postalsys/sudotun/internal/aead"
	"github.com/postalsys/sudotun/internal/codec"
	"github.com/postalsys/sudotun/internal/frame"
)

func testKey() []byte {
	k := make([]byte, 32)
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

// TestNonceCountersIncreaseMonotonically is scenario S6: seal four
// frames and inspect the counters are 1,2,3,4, satisfying invariant 4
// (nonces within a session are strictly increasing, never repeat).
func TestNonceCountersIncreaseMonotonically(t *testing.T) {
	s, err := Create(testKey(), CipherChaCha20Poly1305, codec.LayoutASCII, DirectionUpload)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var got []uint64
	for i := 0; i < 4; i++ {
		if _, err := s.Seal([]byte("hello")); err != nil {
			t.Fatalf("Seal %d: %v", i, err)
		}
		got = append(got, s.sendCounter)
	}

	want := []uint64{1, 2, 3, 4}
	for i, c := range got {
		if c != want[i] {
			t.Fatalf("counter[%d] = %d, want %d", i, c, want[i])
		}
	}
}

func TestSealFeedRoundTripChaCha20Poly1305(t *testing.T) {
	key := testKey()
	sender, err := Create(key, CipherChaCha20Poly1305, codec.LayoutASCII, DirectionUpload)
	if err != nil {
		t.Fatalf("Create sender: %v", err)
	}
	receiver, err := Create(key, CipherChaCha20Poly1305, codec.LayoutASCII, DirectionUpload)
	if err != nil {
		t.Fatalf("Create receiver: %v", err)
	}

	messages := [][]byte{
		[]byte("first frame"),
		[]byte(""),
		bytes.Repeat([]byte{0x7E}, 500),
	}

	var wire []byte
	for _, m := range messages {
		masked, err := sender.Seal(m)
		if err != nil {
			t.Fatalf("Seal: %v", err)
		}
		wire = append(wire, masked...)
	}

	var got [][]byte
	for i := 0; i < len(wire); i++ {
		plaintexts, err := receiver.Feed(wire[i : i+1])
		if err != nil {
			t.Fatalf("Feed: %v", err)
		}
		got = append(got, plaintexts...)
	}

	if len(got) != len(messages) {
		t.Fatalf("got %d messages, want %d", len(got), len(messages))
	}
	for i, m := range messages {
		if !bytes.Equal(got[i], m) {
			t.Fatalf("message %d mismatch: got=%q want=%q", i, got[i], m)
		}
	}
}

func TestSealFeedRoundTripAES128GCM(t *testing.T) {
	key := testKey()
	sender, err := Create(key, CipherAES128GCM, codec.LayoutASCII, DirectionStream)
	if err != nil {
		t.Fatalf("Create sender: %v", err)
	}
	receiver, err := Create(key, CipherAES128GCM, codec.LayoutASCII, DirectionStream)
	if err != nil {
		t.Fatalf("Create receiver: %v", err)
	}

	plaintext := []byte("relay traffic over a masked channel")
	wire, err := sender.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	got, err := receiver.Feed(wire)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(got) != 1 || !bytes.Equal(got[0], plaintext) {
		t.Fatalf("round trip mismatch: got=%v want=%q", got, plaintext)
	}
}

// TestFeedRejectsTamperedCiphertext corrupts one AEAD ciphertext byte
// before framing/masking, so the tamper survives the codec's lossless
// round trip intact and the AEAD layer is guaranteed to see it.
func TestFeedRejectsTamperedCiphertext(t *testing.T) {
	key := testKey()
	sender, err := Create(key, CipherChaCha20Poly1305, codec.LayoutASCII, DirectionUpload)
	if err != nil {
		t.Fatalf("Create sender: %v", err)
	}
	receiver, err := Create(key, CipherChaCha20Poly1305, codec.LayoutASCII, DirectionUpload)
	if err != nil {
		t.Fatalf("Create receiver: %v", err)
	}

	inner, err := sender.sealInner([]byte("authenticate me"))
	if err != nil {
		t.Fatalf("sealInner: %v", err)
	}
	inner[0] ^= 0x01

	framed, err := frame.Encode(inner)
	if err != nil {
		t.Fatalf("frame.Encode: %v", err)
	}
	masked, err := sender.encoder.Mask(framed)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if _, err := receiver.Feed(masked); err != aead.ErrAuthFailed {
		t.Fatalf("Feed on tampered ciphertext: got %v, want aead.ErrAuthFailed", err)
	}
}

func TestDirectionsDeriveDistinctKeys(t *testing.T) {
	key := testKey()
	upload, err := Create(key, CipherChaCha20Poly1305, codec.LayoutASCII, DirectionUpload)
	if err != nil {
		t.Fatalf("Create upload: %v", err)
	}
	stream, err := Create(key, CipherChaCha20Poly1305, codec.LayoutASCII, DirectionStream)
	if err != nil {
		t.Fatalf("Create stream: %v", err)
	}
	if upload.directionKey == stream.directionKey {
		t.Fatal("upload and stream directions derived the same key")
	}
}

func TestCloseWakesWaiter(t *testing.T) {
	s, err := Create(testKey(), CipherNone, codec.LayoutASCII, DirectionStream)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.Close()

	select {
	case <-s.Waiter().C():
	default:
		t.Fatal("expected Close to arm the waiter")
	}

	if _, err := s.Seal([]byte("x")); err != ErrClosed {
		t.Fatalf("Seal after Close: got %v, want ErrClosed", err)
	}
}

func TestEnqueueRespectsReadyQueueLimit(t *testing.T) {
	s, err := Create(testKey(), CipherNone, codec.LayoutASCII, DirectionStream)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < ReadyQueueLimit; i++ {
		if !s.Enqueue([]byte{byte(i)}) {
			t.Fatalf("Enqueue %d unexpectedly rejected", i)
		}
	}
	if s.Enqueue([]byte{0xFF}) {
		t.Fatal("expected Enqueue to reject once ReadyQueueLimit is reached")
	}

	drained := s.Drain()
	if len(drained) != ReadyQueueLimit {
		t.Fatalf("Drain() length = %d, want %d", len(drained), ReadyQueueLimit)
	}
	if !s.Enqueue([]byte{0xAA}) {
		t.Fatal("expected Enqueue to succeed again after Drain")
	}
}
