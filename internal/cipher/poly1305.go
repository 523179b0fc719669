package cipher

import (
	"crypto/subtle"
	"encoding/binary"
)

// TagSize is the size of a Poly1305 authentication tag in bytes.
const TagSize = 16

// Poly1305 is a one-time authenticator. A Poly1305 instance must be used
// with a key that is never reused across messages.
//
// The accumulator is held as five 26-bit limbs rather than the spec's
// conceptual three 64-bit limbs (h0,h1,h2): both represent the same
// 130-bit accumulator mod 2^130-5, but the 26-bit layout keeps every
// intermediate product inside a uint64 without a 128-bit widening type,
// while still reducing with the identity c*2^130+n ≡ c*5+n the spec
// describes. All arithmetic below is free of secret-dependent branches.
type Poly1305 struct {
	r [5]uint32
	h [5]uint32
	// pad is the `s` half of the key, added mod 2^128 at finalize.
	pad [4]uint32

	buffer   [TagSize]byte
	leftover int
}

// NewPoly1305 creates a Poly1305 authenticator from a 32-byte one-time
// key: the first 16 bytes are `r` (clamped per RFC 8439 §2.5.1), the
// last 16 are `s`, used unclamped in the finalize step.
func NewPoly1305(key []byte) *Poly1305 {
	p := &Poly1305{}

	t0 := binary.LittleEndian.Uint32(key[0:4])
	t1 := binary.LittleEndian.Uint32(key[4:8])
	t2 := binary.LittleEndian.Uint32(key[8:12])
	t3 := binary.LittleEndian.Uint32(key[12:16])

	// Clamping mask 0x0ffffffc0ffffffc0ffffffc0fffffff spread across
	// five 26-bit limbs.
	p.r[0] = t0 & 0x3ffffff
	p.r[1] = ((t0 >> 26) | (t1 << 6)) & 0x3ffff03
	p.r[2] = ((t1 >> 20) | (t2 << 12)) & 0x3ffc0ff
	p.r[3] = ((t2 >> 14) | (t3 << 18)) & 0x3f03fff
	p.r[4] = (t3 >> 8) & 0x00fffff

	p.pad[0] = binary.LittleEndian.Uint32(key[16:20])
	p.pad[1] = binary.LittleEndian.Uint32(key[20:24])
	p.pad[2] = binary.LittleEndian.Uint32(key[24:28])
	p.pad[3] = binary.LittleEndian.Uint32(key[28:32])

	return p
}

// blocks processes full 16-byte blocks of m, accumulating into h. hibit
// is the implicit bit set at position 128 for full blocks; the final
// short block is padded by the caller and passed with hibit=0 (the 1 bit
// is embedded in the padded buffer instead).
func (p *Poly1305) blocks(m []byte, hibit uint32) {
	r0, r1, r2, r3, r4 := p.r[0], p.r[1], p.r[2], p.r[3], p.r[4]
	s1, s2, s3, s4 := r1*5, r2*5, r3*5, r4*5
	h0, h1, h2, h3, h4 := p.h[0], p.h[1], p.h[2], p.h[3], p.h[4]

	for len(m) >= TagSize {
		t0 := binary.LittleEndian.Uint32(m[0:4])
		t1 := binary.LittleEndian.Uint32(m[4:8])
		t2 := binary.LittleEndian.Uint32(m[8:12])
		t3 := binary.LittleEndian.Uint32(m[12:16])

		h0 += t0 & 0x3ffffff
		h1 += ((t0 >> 26) | (t1 << 6)) & 0x3ffffff
		h2 += ((t1 >> 20) | (t2 << 12)) & 0x3ffffff
		h3 += ((t2 >> 14) | (t3 << 18)) & 0x3ffffff
		h4 += (t3 >> 8) | hibit

		d0 := uint64(h0)*uint64(r0) + uint64(h1)*uint64(s4) + uint64(h2)*uint64(s3) + uint64(h3)*uint64(s2) + uint64(h4)*uint64(s1)
		d1 := uint64(h0)*uint64(r1) + uint64(h1)*uint64(r0) + uint64(h2)*uint64(s4) + uint64(h3)*uint64(s3) + uint64(h4)*uint64(s2)
		d2 := uint64(h0)*uint64(r2) + uint64(h1)*uint64(r1) + uint64(h2)*uint64(r0) + uint64(h3)*uint64(s4) + uint64(h4)*uint64(s3)
		d3 := uint64(h0)*uint64(r3) + uint64(h1)*uint64(r2) + uint64(h2)*uint64(r1) + uint64(h3)*uint64(r0) + uint64(h4)*uint64(s4)
		d4 := uint64(h0)*uint64(r4) + uint64(h1)*uint64(r3) + uint64(h2)*uint64(r2) + uint64(h3)*uint64(r1) + uint64(h4)*uint64(r0)

		var c uint64
		c = d0 >> 26
		h0 = uint32(d0) & 0x3ffffff
		d1 += c
		c = d1 >> 26
		h1 = uint32(d1) & 0x3ffffff
		d2 += c
		c = d2 >> 26
		h2 = uint32(d2) & 0x3ffffff
		d3 += c
		c = d3 >> 26
		h3 = uint32(d3) & 0x3ffffff
		d4 += c
		c = d4 >> 26
		h4 = uint32(d4) & 0x3ffffff
		h0 += uint32(c) * 5
		c = uint64(h0 >> 26)
		h0 &= 0x3ffffff
		h1 += uint32(c)

		m = m[TagSize:]
	}

	p.h[0], p.h[1], p.h[2], p.h[3], p.h[4] = h0, h1, h2, h3, h4
}

// Write absorbs message bytes, buffering an incomplete final block.
func (p *Poly1305) Write(msg []byte) (int, error) {
	n := len(msg)

	if p.leftover > 0 {
		want := TagSize - p.leftover
		if want > len(msg) {
			want = len(msg)
		}
		copy(p.buffer[p.leftover:], msg[:want])
		msg = msg[want:]
		p.leftover += want
		if p.leftover < TagSize {
			return n, nil
		}
		p.blocks(p.buffer[:], 1<<24)
		p.leftover = 0
	}

	if len(msg) >= TagSize {
		full := len(msg) - (len(msg) % TagSize)
		p.blocks(msg[:full], 1<<24)
		msg = msg[full:]
	}

	if len(msg) > 0 {
		copy(p.buffer[:], msg)
		p.leftover = len(msg)
	}

	return n, nil
}

// Sum finalizes the MAC and writes the 16-byte tag into out. It does not
// mutate accumulated state in a way that matters for callers, since each
// Poly1305 instance is one-time (a fresh key per message, per RFC 8439).
func (p *Poly1305) Sum(out *[TagSize]byte) {
	if p.leftover > 0 {
		i := p.leftover
		p.buffer[i] = 1
		for i++; i < TagSize; i++ {
			p.buffer[i] = 0
		}
		p.blocks(p.buffer[:], 0)
	}

	h0, h1, h2, h3, h4 := p.h[0], p.h[1], p.h[2], p.h[3], p.h[4]

	var c uint32
	c = h1 >> 26
	h1 &= 0x3ffffff
	h2 += c
	c = h2 >> 26
	h2 &= 0x3ffffff
	h3 += c
	c = h3 >> 26
	h3 &= 0x3ffffff
	h4 += c
	c = h4 >> 26
	h4 &= 0x3ffffff
	h0 += c * 5
	c = h0 >> 26
	h0 &= 0x3ffffff
	h1 += c

	g0 := h0 + 5
	c = g0 >> 26
	g0 &= 0x3ffffff
	g1 := h1 + c
	c = g1 >> 26
	g1 &= 0x3ffffff
	g2 := h2 + c
	c = g2 >> 26
	g2 &= 0x3ffffff
	g3 := h3 + c
	c = g3 >> 26
	g3 &= 0x3ffffff
	g4 := h4 + c - (1 << 26)

	// mask is all-ones if h >= 2^130-5 (select g), else all-zero
	// (select h). g4 wraps to a very large uint32 (its top bit set)
	// exactly when the subtraction went negative, i.e. when h < p.
	mask := (g4 >> 31) - 1
	g0 &= mask
	g1 &= mask
	g2 &= mask
	g3 &= mask
	g4 &= mask
	nmask := ^mask
	h0 = (h0 & nmask) | g0
	h1 = (h1 & nmask) | g1
	h2 = (h2 & nmask) | g2
	h3 = (h3 & nmask) | g3
	h4 = (h4 & nmask) | g4

	h0 = (h0 | (h1 << 26))
	h1 = ((h1 >> 6) | (h2 << 20))
	h2 = ((h2 >> 12) | (h3 << 14))
	h3 = ((h3 >> 18) | (h4 << 8))

	var f uint64
	f = uint64(h0) + uint64(p.pad[0])
	h0 = uint32(f)
	f = uint64(h1) + uint64(p.pad[1]) + (f >> 32)
	h1 = uint32(f)
	f = uint64(h2) + uint64(p.pad[2]) + (f >> 32)
	h2 = uint32(f)
	f = uint64(h3) + uint64(p.pad[3]) + (f >> 32)
	h3 = uint32(f)

	binary.LittleEndian.PutUint32(out[0:4], h0)
	binary.LittleEndian.PutUint32(out[4:8], h1)
	binary.LittleEndian.PutUint32(out[8:12], h2)
	binary.LittleEndian.PutUint32(out[12:16], h3)
}

// Sum computes the Poly1305 tag of msg under the given 32-byte one-time
// key in a single call.
func Sum(key, msg []byte) [TagSize]byte {
	var out [TagSize]byte
	p := NewPoly1305(key)
	p.Write(msg)
	p.Sum(&out)
	return out
}

// Verify reports whether tag is the correct Poly1305 tag for msg under
// key, using a constant-time comparison so no branch depends on the
// expected tag value.
func Verify(key, msg, tag []byte) bool {
	if len(tag) != TagSize {
		return false
	}
	got := Sum(key, msg)
	return subtle.ConstantTimeCompare(got[:], tag) == 1
}
