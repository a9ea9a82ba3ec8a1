package modem

// noiseThreshold is the minimum bin amplitude a carrier must show before
// its phase is trusted at all.
const noiseThreshold = 5.0

// DecodeResult is what DifferentialDemod.Observe returns for one window.
type DecodeResult int

const (
	// ResultNoise means either the carrier is below noiseThreshold, or this
	// is the very first above-threshold window of a new burst: a single
	// strong window alone cannot yet be distinguished from noise, so it is
	// treated the same way and arms the demodulator for the next window.
	ResultNoise DecodeResult = iota
	// ResultBucket means a bucket was decoded: this is the second
	// consecutive above-threshold window of a burst, compared against the
	// phase reference left by the previous burst's own ResultBucket window.
	ResultBucket
	// ResultSame means the carrier is still on the same burst (third and
	// later consecutive above-threshold window): no new bucket, no change
	// to the phase reference.
	ResultSame
)

// DifferentialDemod recovers phase-bucket values for a single carrier by
// comparing the second window of each above-threshold burst against the
// phase reference left by the previous burst. Only that second window
// produces a bucket; the phase reference it leaves behind survives
// untouched across the noise gap until the next burst's second window.
type DifferentialDemod struct {
	buckets int

	inARow int

	hasLastPhase bool
	lastPhase    float32
}

// NewDifferentialDemod creates a demodulator decoding into phaseBuckets
// buckets (must be a power of two, enforced by the owning ChannelPlan).
func NewDifferentialDemod(phaseBuckets int) *DifferentialDemod {
	return &DifferentialDemod{buckets: phaseBuckets}
}

// Observe feeds one window's FftPoint for this carrier and reports what
// happened. When the result is ResultBucket, bucket holds the decoded
// value in [0, phaseBuckets).
func (d *DifferentialDemod) Observe(p FftPoint) (result DecodeResult, bucket int) {
	if p.Amplitude() < noiseThreshold {
		d.inARow = 0
		return ResultNoise, 0
	}

	d.inARow++
	switch d.inARow {
	case 1:
		return ResultNoise, 0
	case 2:
		phase := p.Phase()
		var dPhi float64
		if d.hasLastPhase {
			dPhi = turnMod(float64(d.lastPhase) - float64(phase))
		}
		bucket = phaseFindBucket(dPhi, d.buckets)
		d.lastPhase = phase
		d.hasLastPhase = true
		return ResultBucket, bucket
	default:
		return ResultSame, 0
	}
}

// phaseFindBucket maps a turn-domain phase difference (already reduced to
// [0,1)) onto the nearest of phaseBuckets equally spaced slices, rounding
// rather than truncating so a bucket's exact center survives floating
// point jitter unchanged.
func phaseFindBucket(dPhi float64, buckets int) int {
	width := 1.0 / float64(buckets)
	idx := int(turnMod(dPhi+width/2) / width)
	return mod(idx, buckets)
}

// turnMod reduces x to [0,1).
func turnMod(x float64) float64 {
	x -= float64(int(x))
	if x < 0 {
		x += 1
	}
	return x
}
