package modem

import (
	"fmt"
	"math"
	"math/cmplx"
)

// ampPhaseFloor is the amplitude below which phase is reported as 0 to
// avoid atan2 instability near the origin.
const ampPhaseFloor = 0.01

// FftPoint is one complex DFT bin, read-only after construction.
type FftPoint struct {
	bin       int
	value     complex64
	frequency float64
}

// NewFftPoint derives amplitude and phase from a raw complex bin value.
// frequency is the bin's carrier frequency in Hz, purely informational.
func NewFftPoint(bin int, value complex64, frequency float64) FftPoint {
	return FftPoint{bin: bin, value: value, frequency: frequency}
}

// Bin returns the DFT bin index this point was taken from.
func (p FftPoint) Bin() int { return p.bin }

// Frequency returns the bin's carrier frequency in Hz.
func (p FftPoint) Frequency() float64 { return p.frequency }

// Complex returns the raw complex bin value.
func (p FftPoint) Complex() complex64 { return p.value }

// Amplitude returns |z|.
func (p FftPoint) Amplitude() float32 {
	return float32(cmplx.Abs(complex128(p.value)))
}

// Phase returns atan2(im,re) normalized to [0,1) turns of a full circle.
// Bins with amplitude below ampPhaseFloor report phase 0.
func (p FftPoint) Phase() float32 {
	if p.Amplitude() < ampPhaseFloor {
		return 0
	}
	turns := math.Atan2(float64(imag(p.value)), float64(real(p.value))) / (2 * math.Pi)
	if turns < 0 {
		turns += 1
	}
	return float32(turns)
}

func (p FftPoint) String() string {
	return fmt.Sprintf("bin=%d f=%.2fHz a=%.3f p=%.3f", p.bin, p.frequency, p.Amplitude(), p.Phase())
}
