package codec

import "errors"

// outputCeiling bounds a single Mask call's output growth (128 KiB is
// generous for the poll transport's typical frame sizes).
const outputCeiling = 128 * 1024

// ErrOutputTooLarge is returned when a single Mask call would exceed
// outputCeiling, signalling the caller to treat this as a resource
// exhaustion failure rather than silently growing memory.
var ErrOutputTooLarge = errors.New("codec: mask output exceeds per-call ceiling")

// Encoder masks plaintext bytes into the hint-and-padding wire form.
// It owns a private LCG stream seeded from the session key; masking
// decisions are not idempotent across Encoders built from the same key
// since every draw consumes one LCG step, and no two peers ever need
// to agree on this stream (the padding/permutation choices are a
// plausibility filter, not part of the authenticated payload).
type Encoder struct {
	tables *Tables
	rng    *lcg32
}

// NewEncoder builds an Encoder bound to tables and keyed by key (only
// the key's random stream is session-specific; tables are shared).
func NewEncoder(tables *Tables, key []byte) (*Encoder, error) {
	rng, err := newLCG32(key)
	if err != nil {
		return nil, err
	}
	return &Encoder{tables: tables, rng: rng}, nil
}

// Mask expands input into hint bytes interleaved with padding. Output
// length is data-dependent (padding and the number of candidates both
// vary) but is bounded by outputCeiling.
func (e *Encoder) Mask(input []byte) ([]byte, error) {
	out := make([]byte, 0, 9*len(input)+32)

	for _, b := range input {
		e.drawPadding(&out)

		cands := e.tables.encode[b]
		if len(cands) == 0 {
			// Unreachable for a well-formed table; kept as a fallback
			// so a pathological key can never wedge the pipeline.
			out = append(out, b)
			continue
		}

		q := cands[e.rng.next()%uint32(len(cands))]
		perm := permutations[e.rng.next()%24]
		for _, idx := range perm {
			e.drawPadding(&out)
			out = append(out, q[idx])
		}

		if len(out) > outputCeiling {
			return nil, ErrOutputTooLarge
		}
	}
	e.drawPadding(&out)

	if len(out) > outputCeiling {
		return nil, ErrOutputTooLarge
	}
	return out, nil
}

// drawPadding consumes one LCG step to decide whether to emit a
// padding byte, and (reusing that same draw) which pool byte to emit.
func (e *Encoder) drawPadding(out *[]byte) {
	draw := e.rng.next()
	if draw < paddingThreshold {
		*out = append(*out, paddingPool[draw%uint32(len(paddingPool))])
	}
}

// Decoder reassembles hint-and-padding bytes back into the original
// plaintext, streaming across arbitrary call boundaries: a trailing
// partial hint quadruple at the end of one Unmask call is completed by
// bytes fed in a later call.
type Decoder struct {
	tables *Tables
	acc    []byte
}

// NewDecoder builds a Decoder bound to tables.
func NewDecoder(tables *Tables) *Decoder {
	return &Decoder{tables: tables, acc: make([]byte, 0, 4)}
}

// Unmask drops non-candidate bytes, accumulates candidates in groups
// of four, and emits the decoded byte for each group that matches the
// decode table. A group with no match is silently discarded — it is
// either a padding byte that slipped past the predicate by chance, or
// a corrupted stream, and either way there is no original byte to
// recover from it.
func (d *Decoder) Unmask(input []byte) []byte {
	out := make([]byte, 0, len(input)/6+1)

	for _, b := range input {
		if !isHintCandidate(b) {
			continue
		}
		d.acc = append(d.acc, b)
		if len(d.acc) < 4 {
			continue
		}

		var q HintQuadruple
		copy(q[:], d.acc)
		d.acc = d.acc[:0]

		if v, ok := d.tables.decode[sortedKey(q)]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Mask is a convenience wrapper that looks up (or builds) tables for
// key and masks input in one shot. Prefer a long-lived Encoder for a
// session with multiple frames, since a fresh Encoder resets the LCG
// stream.
func Mask(key, input []byte) ([]byte, error) {
	tables, err := TablesForKey(key)
	if err != nil {
		return nil, err
	}
	enc, err := NewEncoder(tables, key)
	if err != nil {
		return nil, err
	}
	return enc.Mask(input)
}

// Unmask is the one-shot counterpart to Mask.
func Unmask(key, input []byte) ([]byte, error) {
	tables, err := TablesForKey(key)
	if err != nil {
		return nil, err
	}
	return NewDecoder(tables).Unmask(input), nil
}
