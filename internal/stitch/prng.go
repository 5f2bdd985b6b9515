package stitch

import (
	"encoding/binary"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2s"
)

// rng is a counter-mode pseudo-random stream keyed by a slash-joined seed,
// typically (stitch id, purpose). Because every draw is determined by the key
// and a counter rather than shared generator state, the same stitch always
// renders identically and edits to one stitch never shift another stitch's
// rolls.
type rng struct {
	seed  string
	block uint64
	buf   []float64
	next  int
}

func newRNG(parts ...string) *rng {
	return &rng{seed: strings.Join(parts, "/")}
}

const maxUniformUint32 = float64(1<<32 - 1)

func (r *rng) refill() {
	sum := blake2s.Sum256([]byte(r.seed + "/" + strconv.FormatUint(r.block, 10)))
	r.block++
	r.buf = r.buf[:0]
	for i := 0; i < len(sum); i += 4 {
		v := binary.BigEndian.Uint32(sum[i : i+4])
		r.buf = append(r.buf, float64(v)/maxUniformUint32)
	}
	r.next = 0
}

// float returns the next uniform value in [0, 1].
func (r *rng) float() float64 {
	if r.next >= len(r.buf) {
		r.refill()
	}
	v := r.buf[r.next]
	r.next++
	return v
}

// between returns the next uniform value in [lo, hi].
func (r *rng) between(lo, hi float64) float64 {
	return lo + (hi-lo)*r.float()
}
