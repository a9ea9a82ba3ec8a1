package modem

import (
	"math"
	"testing"
)

func point(amplitude float32, phaseTurns float64) FftPoint {
	// Build a complex value with the desired amplitude/phase directly,
	// bypassing FFT, to exercise DifferentialDemod in isolation.
	angle := phaseTurns * 2 * math.Pi
	re := float64(amplitude) * math.Cos(angle)
	im := float64(amplitude) * math.Sin(angle)
	return NewFftPoint(0, complex(float32(re), float32(im)), 0)
}

func TestDifferentialDemodFirstBurstArmsThenLocksAtBucketZero(t *testing.T) {
	d := NewDifferentialDemod(4)

	result, _ := d.Observe(point(10, 0.3))
	if result != ResultNoise {
		t.Fatalf("first above-threshold window = %v, want ResultNoise (arming)", result)
	}

	result, bucket := d.Observe(point(10, 0.3))
	if result != ResultBucket {
		t.Fatalf("second above-threshold window = %v, want ResultBucket", result)
	}
	if bucket != 0 {
		t.Errorf("bucket for the very first burst (no phase reference yet) = %d, want 0", bucket)
	}

	result, _ = d.Observe(point(10, 0.3))
	if result != ResultSame {
		t.Errorf("third above-threshold window = %v, want ResultSame", result)
	}
}

func TestDifferentialDemodNoiseResetsBurstCounter(t *testing.T) {
	d := NewDifferentialDemod(4)
	d.Observe(point(10, 0))
	d.Observe(point(10, 0))

	result, _ := d.Observe(point(1, 0)) // below noiseThreshold
	if result != ResultNoise {
		t.Fatalf("low-amplitude window = %v, want ResultNoise", result)
	}

	result, _ = d.Observe(point(10, 0))
	if result != ResultNoise {
		t.Errorf("window after noise = %v, want ResultNoise (re-arming)", result)
	}
}

// TestDifferentialDemodPhaseReferenceSurvivesNoiseGap is the cross-burst
// case: the phase reference a burst's lock window leaves behind must still
// be there, untouched, when the next burst locks, even though a noise gap
// and that burst's own arming window sit in between.
func TestDifferentialDemodPhaseReferenceSurvivesNoiseGap(t *testing.T) {
	d := NewDifferentialDemod(4)

	// First burst, phase 0: arms, then locks at bucket 0 (no reference yet)
	// and leaves phase 0 as the reference.
	d.Observe(point(10, 0))
	if _, bucket := d.Observe(point(10, 0)); bucket != 0 {
		t.Fatalf("first burst bucket = %d, want 0", bucket)
	}
	d.Observe(point(10, 0)) // ResultSame, reference untouched

	// Gap.
	d.Observe(point(1, 0))

	// Second burst, phase advanced a quarter turn. The lock window must
	// diff against the first burst's phase (0), not against this burst's
	// own arming window.
	if result, _ := d.Observe(point(10, 0.25)); result != ResultNoise {
		t.Fatalf("second burst's arming window = %v, want ResultNoise", result)
	}
	result, bucket := d.Observe(point(10, 0.25))
	if result != ResultBucket {
		t.Fatalf("second burst's lock window = %v, want ResultBucket", result)
	}
	if bucket != 3 {
		t.Errorf("bucket = %d, want 3 (dphi = turnMod(0 - 0.25) = 0.75 turns)", bucket)
	}
}
