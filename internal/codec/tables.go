// Package codec implements the Sudoku-based reversible obfuscation
// coder: each plaintext byte expands into four ASCII "hint" bytes,
// interleaved with random padding drawn from a small printable pool.
// The transformation only disguises the wire shape; it carries no
// cryptographic weight of its own, which is why AEAD sealing (see
// internal/aead) happens before masking on the send path.
package codec

import (
	"encoding/binary"
	"errors"
	"sync"
)

// HintQuadruple is four hint bytes that, once sorted, uniquely identify
// one of the 288 precomputed grids and hence one plaintext byte value.
type HintQuadruple [4]byte

// Layout selects the hint encoding space. Only ASCII is implemented;
// Entropy is accepted at the config layer but session.Create rejects it
// with ErrLayoutUnsupported, matching the source material, which never
// finished the entropy variant.
type Layout uint8

const (
	LayoutASCII Layout = iota
	LayoutEntropy
)

var (
	ErrKeyTooShort       = errors.New("codec: key must be at least 8 bytes")
	ErrLayoutUnsupported = errors.New("codec: only the ascii layout is implemented")
	ErrLayoutUnknown     = errors.New("codec: unknown layout")
)

// ParseLayout maps a configuration string to a Layout. "entropy" parses
// successfully since it's a recognized name, even though session.Create
// rejects it when a session is built.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "ascii":
		return LayoutASCII, nil
	case "entropy":
		return LayoutEntropy, nil
	default:
		return 0, ErrLayoutUnknown
	}
}

// paddingPool is the cover-traffic byte set: the sixteen ASCII bytes
// 0x30..0x3F. They sit well below the hint byte range (0x80..0xBF) so
// they can never be mistaken for a hint candidate, and 0x3F doubles as
// the ASCII layout's padding-marker byte.
var paddingPool = [16]byte{
	0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37,
	0x38, 0x39, 0x3A, 0x3B, 0x3C, 0x3D, 0x3E, 0x3F,
}

// paddingMarker is the sentinel padding byte for the ASCII layout.
const paddingMarker = 0x3F

// paddingThreshold is T scaled into the top 16 bits of a 32-bit compare
// space: 0.3 * 2^16, truncated, shifted left 16 so a raw 32-bit LCG
// draw can be compared against it directly. Pr[draw < paddingThreshold]
// = 19660/65536 ≈ 0.3.
const paddingThreshold = uint32(19660) << 16

// permutations is the 24 permutations of {0,1,2,3} in lexicographic
// order, used to pick how a hint quadruple's four bytes are ordered on
// the wire.
var permutations = [24][4]int{
	{0, 1, 2, 3}, {0, 1, 3, 2}, {0, 2, 1, 3}, {0, 2, 3, 1}, {0, 3, 1, 2}, {0, 3, 2, 1},
	{1, 0, 2, 3}, {1, 0, 3, 2}, {1, 2, 0, 3}, {1, 2, 3, 0}, {1, 3, 0, 2}, {1, 3, 2, 0},
	{2, 0, 1, 3}, {2, 0, 3, 1}, {2, 1, 0, 3}, {2, 1, 3, 0}, {2, 3, 0, 1}, {2, 3, 1, 0},
	{3, 0, 1, 2}, {3, 0, 2, 1}, {3, 1, 0, 2}, {3, 1, 2, 0}, {3, 2, 0, 1}, {3, 2, 1, 0},
}

// lcg32 is the table/masking linear congruential generator: the same
// recurrence the source uses for both table construction and the
// per-session masking stream, state*1664525+1013904223 mod 2^32.
type lcg32 struct {
	state uint32
}

func newLCG32(key []byte) (*lcg32, error) {
	if len(key) < 8 {
		return nil, ErrKeyTooShort
	}
	seed := binary.BigEndian.Uint64(key[:8])
	return &lcg32{state: uint32(seed)}, nil
}

func (l *lcg32) next() uint32 {
	l.state = l.state*1664525 + 1013904223
	return l.state
}

// encodeHintASCII packs a grid cell value (0..3) and a board position
// (0..15) into one ASCII hint byte. The high two bits are fixed at
// 0b10, matching the hint predicate `(b&0xC0)==0x80`; bits 5:4 carry v
// and bits 3:0 carry p. The result always falls in 0x80..0xBF.
func encodeHintASCII(v, p uint8) byte {
	return byte(0x80 | ((v & 0x03) << 4) | (p & 0x0F))
}

// isHintCandidate reports whether b matches the hint byte predicate:
// bits 7:6 equal 0b10. Bits 5:4 carry the packed grid value and are
// allowed to be zero — some of the 288 grids have no position
// combination that both uniquely identifies them and avoids every
// cell holding value 1, so excluding a zero value there would make
// those grids, and any byte assigned to them, unencodable.
func isHintCandidate(b byte) bool {
	return b&0xC0 == 0x80
}

// comboSignature precomputes, for one of the 1820 four-position
// combinations, the grids sharing any given value assignment at those
// positions. Built once at package init, independent of any session
// key, since it depends only on the static grid data.
type comboSignature struct {
	positions   [4]int
	bySignature map[uint32][]int
}

var combos []comboSignature

func init() {
	combos = buildCombos()
}

func buildCombos() []comboSignature {
	out := make([]comboSignature, 0, 1820)
	for a := 0; a < 16; a++ {
		for b := a + 1; b < 16; b++ {
			for c := b + 1; c < 16; c++ {
				for d := c + 1; d < 16; d++ {
					cs := comboSignature{
						positions:   [4]int{a, b, c, d},
						bySignature: make(map[uint32][]int),
					}
					for gi := range grids {
						g := &grids[gi]
						key := packNibbles(g[a]-1, g[b]-1, g[c]-1, g[d]-1)
						cs.bySignature[key] = append(cs.bySignature[key], gi)
					}
					out = append(out, cs)
				}
			}
		}
	}
	return out
}

func packNibbles(v0, v1, v2, v3 uint8) uint32 {
	return uint32(v0)<<24 | uint32(v1)<<16 | uint32(v2)<<8 | uint32(v3)
}

// sortedKey packs a hint quadruple's bytes, sorted ascending, into the
// u32 decode-table key.
func sortedKey(q HintQuadruple) uint32 {
	s := q
	// four elements: a fixed unrolled insertion sort is cheaper and
	// clearer than pulling in sort.Slice for a 4-byte array.
	if s[0] > s[1] {
		s[0], s[1] = s[1], s[0]
	}
	if s[2] > s[3] {
		s[2], s[3] = s[3], s[2]
	}
	if s[0] > s[2] {
		s[0], s[2] = s[2], s[0]
	}
	if s[1] > s[3] {
		s[1], s[3] = s[3], s[1]
	}
	if s[1] > s[2] {
		s[1], s[2] = s[2], s[1]
	}
	return uint32(s[0])<<24 | uint32(s[1])<<16 | uint32(s[2])<<8 | uint32(s[3])
}

// maxCandidatesPerByte bounds the encode table's fan-out per byte
// value, matching the "up to 50" construction rule.
const maxCandidatesPerByte = 50

// Tables is the process-wide, per-key, immutable-after-construction
// codec state: for each byte value, up to 50 candidate hint
// quadruples, and the reverse lookup from a sorted hint quadruple to
// its byte. Safe for concurrent read access once built.
type Tables struct {
	encode [256][]HintQuadruple
	decode map[uint32]byte
}

// BuildTables derives a fresh Tables from a session key: the key's
// first 8 bytes seed the Fisher-Yates shuffle (via the LCG above) that
// assigns each byte value 0..255 one of the 288 grids, then walks the
// 1820 position combinations in lexicographic order accepting any
// whose value/position facts uniquely identify that grid among all
// 288 (every grid has at least 12 such combinations).
func BuildTables(key []byte) (*Tables, error) {
	rng, err := newLCG32(key)
	if err != nil {
		return nil, err
	}

	order := shuffleGridOrder(rng)

	t := &Tables{decode: make(map[uint32]byte, 256*maxCandidatesPerByte)}
	for b := 0; b < 256; b++ {
		target := order[b]
		g := &grids[target]
		accepted := 0
		for ci := range combos {
			if accepted >= maxCandidatesPerByte {
				break
			}
			c := &combos[ci]
			v0 := g[c.positions[0]] - 1
			v1 := g[c.positions[1]] - 1
			v2 := g[c.positions[2]] - 1
			v3 := g[c.positions[3]] - 1
			sig := packNibbles(v0, v1, v2, v3)
			if len(c.bySignature[sig]) != 1 {
				continue
			}

			q := HintQuadruple{
				encodeHintASCII(v0, uint8(c.positions[0])),
				encodeHintASCII(v1, uint8(c.positions[1])),
				encodeHintASCII(v2, uint8(c.positions[2])),
				encodeHintASCII(v3, uint8(c.positions[3])),
			}
			t.encode[b] = append(t.encode[b], q)
			t.decode[sortedKey(q)] = byte(b)
			accepted++
		}
	}
	return t, nil
}

// shuffleGridOrder runs Fisher-Yates over the 288 grid indices using
// rng, returning the permutation; callers index it 0..255 to assign
// each byte value a distinct grid (the trailing 32 shuffled grids go
// unused).
func shuffleGridOrder(rng *lcg32) [288]int {
	var order [288]int
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := int(rng.next() % uint32(i+1))
		order[i], order[j] = order[j], order[i]
	}
	return order
}

var tableCache sync.Map // [32]byte -> *Tables

// TablesForKey returns the cached Tables for key, building and caching
// them on first use. Codec tables are process-wide and read-only once
// built, so every session sharing a key shares one Tables instance.
func TablesForKey(key []byte) (*Tables, error) {
	var cacheKey [32]byte
	copy(cacheKey[:], key)

	if v, ok := tableCache.Load(cacheKey); ok {
		return v.(*Tables), nil
	}
	t, err := BuildTables(key)
	if err != nil {
		return nil, err
	}
	actual, _ := tableCache.LoadOrStore(cacheKey, t)
	return actual.(*Tables), nil
}
