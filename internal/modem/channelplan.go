package modem

import "time"

// ChannelPlan is an immutable modem configuration: which DFT bins carry
// data, how many bits each carries per symbol, and how long a symbol and
// its trailing pause last.
type ChannelPlan struct {
	Base     int // index of the lowest data carrier (DFT bin)
	Step     int // bin spacing between consecutive carriers
	Count    int // number of parallel carriers

	PhaseBits     uint // bits of phase encoded per carrier per symbol
	AmplitudeBits uint // reserved, must be 0

	SymbolDuration time.Duration
	PauseDuration  time.Duration

	Volume float64 // peak amplitude in [0,1]
}

// DefaultChannelPlan mirrors the "low-frequency happy path" configuration:
// base=14, step=2, count=4, phase_bits=2, 200ms symbol, 100ms pause.
func DefaultChannelPlan() ChannelPlan {
	return ChannelPlan{
		Base:           14,
		Step:           2,
		Count:          4,
		PhaseBits:      2,
		AmplitudeBits:  0,
		SymbolDuration: 200 * time.Millisecond,
		PauseDuration:  100 * time.Millisecond,
		Volume:         0.1,
	}
}

// Validate enforces the ChannelPlan invariants. A violation is a
// construction-time contract error (spec's ConfigContract) — callers
// should validate once at session start and treat failure as fatal.
func (c ChannelPlan) Validate(windowSize int) error {
	if !isPowerOfTwo(c.PhaseBuckets()) {
		return errConfig("phase_buckets must be a power of two")
	}
	if c.AmplitudeBits != 0 {
		return errConfig("amplitude_bits is reserved and must be 0")
	}
	if c.Count <= 0 {
		return errConfig("count must be positive")
	}
	if c.Base < 0 || c.topBin() >= windowSize/2 {
		return errConfig("carriers fall outside the positive DFT range for this window size")
	}
	if c.Volume*float64(c.Count) > 1 {
		return errConfig("volume*count must not exceed 1")
	}
	return nil
}

func (c ChannelPlan) topBin() int {
	return c.Base + c.Step*c.Count
}

// PhaseBuckets is 2^phase_bits.
func (c ChannelPlan) PhaseBuckets() int {
	return 1 << c.PhaseBits
}

// AmplitudeBuckets is 2^amplitude_bits.
func (c ChannelPlan) AmplitudeBuckets() int {
	return 1 << c.AmplitudeBits
}

// BitsPerChannel is phase_bits + amplitude_bits.
func (c ChannelPlan) BitsPerChannel() uint {
	return c.PhaseBits + c.AmplitudeBits
}

// BitsPerSymbol is bits_per_channel * count.
func (c ChannelPlan) BitsPerSymbol() uint {
	return c.BitsPerChannel() * uint(c.Count)
}

// CarrierBin returns the DFT bin for carrier i, i in [0,count).
func (c ChannelPlan) CarrierBin(i int) int {
	return c.Base + i*c.Step
}

// CarrierFrequency returns carrier i's frequency in Hz given fbin.
func (c ChannelPlan) CarrierFrequency(i int, fbin float64) float64 {
	return float64(c.CarrierBin(i)) * fbin
}

// VisualizationRange returns [max(0,base-2), min(N/2, base+count*step+1)),
// the bin range a diagnostic UI might render. It is not part of the wire
// contract — purely advisory for tooling like cmd/modemscope.
func (c ChannelPlan) VisualizationRange(windowSize int) (lo, hi int) {
	lo = c.Base - 2
	if lo < 0 {
		lo = 0
	}
	hi = c.topBin() + 1
	if max := windowSize / 2; hi > max {
		hi = max
	}
	return lo, hi
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

type configError string

func (e configError) Error() string { return "modem: config: " + string(e) }

func errConfig(msg string) error { return configError(msg) }
