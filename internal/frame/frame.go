// Package frame implements the wire framing around one AEAD record: a
// 2-byte big-endian length prefix followed by exactly that many bytes
// of opaque payload (the AEAD engine's ciphertext‖tag, or, for
// AES-128-GCM, nonce‖ciphertext‖tag). Framing never inspects the
// payload; it only knows how to split a byte stream into records.
package frame

import (
	"encoding/binary"
	"errors"
)

// MaxPayload is the largest payload a 2-byte length prefix can address.
const MaxPayload = 0xFFFF

// HeaderSize is the length of the length prefix itself.
const HeaderSize = 2

// ErrPayloadTooLarge is returned by Encode when payload exceeds
// MaxPayload bytes.
var ErrPayloadTooLarge = errors.New("frame: payload exceeds 65535 bytes")

// Encode prepends payload with its big-endian length, in a single
// allocation.
func Encode(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	out := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint16(out[:HeaderSize], uint16(len(payload)))
	copy(out[HeaderSize:], payload)
	return out, nil
}

// Reader reassembles frames out of an arbitrarily chunked byte stream.
// It is not safe for concurrent use; a session's inbound bytes are
// always handled by one logical owner at a time.
type Reader struct {
	buf []byte
}

// NewReader returns an empty Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Feed appends chunk to the reassembly buffer and returns every
// complete frame payload it can now extract, in order. Any trailing
// partial frame (or partial length prefix) remains buffered for the
// next call.
func (r *Reader) Feed(chunk []byte) [][]byte {
	r.buf = append(r.buf, chunk...)

	var frames [][]byte
	for {
		if len(r.buf) < HeaderSize {
			break
		}
		length := int(binary.BigEndian.Uint16(r.buf[:HeaderSize]))
		total := HeaderSize + length
		if len(r.buf) < total {
			break
		}

		payload := make([]byte, length)
		copy(payload, r.buf[HeaderSize:total])
		frames = append(frames, payload)

		r.buf = r.buf[total:]
	}

	if len(r.buf) > 0 {
		// Compact so the backing array doesn't retain consumed bytes
		// across many small Feed calls.
		r.buf = append([]byte(nil), r.buf...)
	} else {
		r.buf = nil
	}

	return frames
}

// Pending reports how many bytes of an incomplete frame are currently
// buffered.
func (r *Reader) Pending() int {
	return len(r.buf)
}
