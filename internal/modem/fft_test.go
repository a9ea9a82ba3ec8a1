package modem

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestFFTKnownValues(t *testing.T) {
	x := []complex128{1, 1, 1, 1}
	y := fft(x)

	if cmplx.Abs(y[0]-4) > 1e-10 {
		t.Errorf("fft([1,1,1,1])[0] = %v, want 4", y[0])
	}
	for i := 1; i < 4; i++ {
		if cmplx.Abs(y[i]) > 1e-10 {
			t.Errorf("fft([1,1,1,1])[%d] = %v, want 0", i, y[i])
		}
	}
}

func TestFFTParseval(t *testing.T) {
	n := 256
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(2*math.Pi*float64(i)/float64(n)), 0)
	}

	y := fft(x)

	var sumX, sumY float64
	for i := range x {
		sumX += real(x[i])*real(x[i]) + imag(x[i])*imag(x[i])
		sumY += real(y[i])*real(y[i]) + imag(y[i])*imag(y[i])
	}
	sumY /= float64(n)

	if math.Abs(sumX-sumY) > 1e-6 {
		t.Errorf("Parseval's theorem violated: sumX=%v, sumY/N=%v", sumX, sumY)
	}
}

func TestFFTAnalyzerPeakLocatesSineFrequency(t *testing.T) {
	const (
		sampleRate = 8000.0
		windowSize = 512
		binIndex   = 20
	)
	analyzer := NewFftAnalyzer(sampleRate, windowSize)
	freq := float64(binIndex) * analyzer.FBin()

	samples := make([]float32, windowSize)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
	}
	analyzer.Transform(samples)

	peak := analyzer.Peak()
	if peak.Bin() != binIndex {
		t.Errorf("Peak().Bin() = %d, want %d", peak.Bin(), binIndex)
	}
}

func TestFFTRejectsNonPowerOfTwo(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-power-of-two input length")
		}
	}()
	fft(make([]complex128, 3))
}
