package modem

// FftAnalyzer runs a forward DFT over one sample window and exposes the
// positive-frequency bins as FftPoints. The window function is rectangular
// (no tapering). The transform itself runs in double precision (complex128);
// each bin is narrowed to complex64 only when it is read out as an FftPoint.
type FftAnalyzer struct {
	sampleRate float64
	windowSize int
	bins       []complex128
}

// NewFftAnalyzer creates an analyzer for windows of windowSize samples
// captured at sampleRate Hz. windowSize must be a power of 2.
func NewFftAnalyzer(sampleRate float64, windowSize int) *FftAnalyzer {
	return &FftAnalyzer{sampleRate: sampleRate, windowSize: windowSize}
}

// FBin returns the frequency resolution sample_rate / window_size.
func (a *FftAnalyzer) FBin() float64 {
	return a.sampleRate / float64(a.windowSize)
}

// WindowSize returns the configured window size in samples.
func (a *FftAnalyzer) WindowSize() int {
	return a.windowSize
}

// Transform runs the forward DFT over samples, which must have length
// windowSize. Only the first windowSize/2 bins (positive frequencies) are
// meaningful afterward.
func (a *FftAnalyzer) Transform(samples []float32) {
	if len(samples) != a.windowSize {
		panic("modem: Transform sample count must equal window size")
	}
	cx := make([]complex128, a.windowSize)
	for i, s := range samples {
		cx[i] = complex(float64(s), 0)
	}
	a.bins = fft(cx)
}

// Point returns the FftPoint for bin k, k in [0, windowSize/2).
func (a *FftAnalyzer) Point(k int) FftPoint {
	if k < 0 || k >= a.windowSize/2 {
		panic("modem: Point bin out of positive-frequency range")
	}
	return NewFftPoint(k, complex64(a.bins[k]), float64(k)*a.FBin())
}

// Peak returns the argmax-amplitude point over the positive bins, ties
// broken by the lowest index.
func (a *FftAnalyzer) Peak() FftPoint {
	best := a.Point(0)
	bestAmp := best.Amplitude()
	for k := 1; k < a.windowSize/2; k++ {
		p := a.Point(k)
		if amp := p.Amplitude(); amp > bestAmp {
			best, bestAmp = p, amp
		}
	}
	return best
}
