package modem

import "math"

// SymbolEncoder turns a byte stream into scheduled ToneSynth commands and
// presents the result as a SampleSource. It owns the command queue, the
// TimingScheduler, and the per-carrier differential-encoding state.
//
// Phase convention: a symbol's differentially-encoded bucket d for carrier
// i is translated to a full-turn phase φ = d/phase_buckets · 2π radians
// (not the d/phase_buckets·π the original design sketch used — that half-turn
// mapping cannot round-trip against a decoder that buckets a full turn into
// phase_buckets slices; see DESIGN.md).
type SymbolEncoder struct {
	plan       ChannelPlan
	sampleRate float64
	fbin       float64

	synth *ToneSynth
	sched *TimingScheduler

	prevBucket []int
}

// NewSymbolEncoder validates plan against windowSize and creates an
// encoder emitting samples at sampleRate Hz.
func NewSymbolEncoder(plan ChannelPlan, sampleRate float64, windowSize int) (*SymbolEncoder, error) {
	if err := plan.Validate(windowSize); err != nil {
		return nil, err
	}
	return &SymbolEncoder{
		plan:       plan,
		sampleRate: sampleRate,
		fbin:       sampleRate / float64(windowSize),
		synth:      NewToneSynth(sampleRate),
		sched:      NewTimingScheduler(sampleRate),
		prevBucket: make([]int, plan.Count),
	}, nil
}

// SendCalibration schedules the one-time preamble: every carrier active at
// phase 0 for 2·symbol_duration, followed by one pause_duration of silence.
// It anchors the differential reference (prev bucket 0 on every carrier,
// matching the calibration's phase-0 transmission) that the first real
// symbol's difference is taken against.
func (e *SymbolEncoder) SendCalibration() {
	e.sched.Enqueue(Command{Kind: CmdClearTones}, 0)
	for i := 0; i < e.plan.Count; i++ {
		e.sched.Enqueue(Command{
			Kind: CmdAddTone,
			Tone: ToneComponent{
				Frequency:      e.plan.CarrierFrequency(i, e.fbin),
				Phase:          0,
				RelativeVolume: 1,
			},
		}, 0)
	}
	e.sched.Enqueue(Command{Kind: CmdTransitionVolume, Volume: e.plan.Volume}, 2*e.plan.SymbolDuration)
	e.sched.Enqueue(Command{Kind: CmdTransitionVolume, Volume: 0}, e.plan.PauseDuration)
}

// Write expands data into symbols of bits_per_symbol bits and schedules
// one tone burst (plus trailing silence) per symbol. It never blocks: by
// the time Write returns, every command is queued, whether or not the
// corresponding samples have been emitted yet.
func (e *SymbolEncoder) Write(data []byte) (int, error) {
	bitsPerSymbol := int(e.plan.BitsPerSymbol())
	bitsPerChannel := int(e.plan.BitsPerChannel())
	totalBits := len(data) * 8

	numSymbols := 0
	if bitsPerSymbol > 0 {
		numSymbols = (totalBits + bitsPerSymbol - 1) / bitsPerSymbol
	}

	for s := 0; s < numSymbols; s++ {
		bitOffset := s * bitsPerSymbol
		e.scheduleSymbol(data, bitOffset, bitsPerChannel)
	}

	return len(data), nil
}

// scheduleSymbol encodes one bits_per_symbol-wide group: carrier count-1
// holds the most-significant bitsPerChannel-bit slice, carrier 0 the
// least-significant — the mirror of SymbolDecoder's
// Σ cache[i]<<(i·bits_per_channel) recombination.
func (e *SymbolEncoder) scheduleSymbol(data []byte, bitOffset, bitsPerChannel int) {
	e.sched.Enqueue(Command{Kind: CmdClearTones}, 0)

	buckets := e.plan.PhaseBuckets()
	for i := 0; i < e.plan.Count; i++ {
		chunkOffset := bitOffset + (e.plan.Count-1-i)*bitsPerChannel
		v := int(extractBits(data, chunkOffset, bitsPerChannel))

		d := mod(e.prevBucket[i]-v, buckets)
		phi := float64(d) / float64(buckets) * 2 * math.Pi
		e.prevBucket[i] = d

		e.sched.Enqueue(Command{
			Kind: CmdAddTone,
			Tone: ToneComponent{
				Frequency:      e.plan.CarrierFrequency(i, e.fbin),
				Phase:          phi,
				RelativeVolume: 1,
			},
		}, 0)
	}

	e.sched.Enqueue(Command{Kind: CmdTransitionVolume, Volume: e.plan.Volume}, e.plan.SymbolDuration)
	e.sched.Enqueue(Command{Kind: CmdTransitionVolume, Volume: 0}, e.plan.PauseDuration)
}

// Read drives the ToneSynth forward, draining due commands as sample time
// progresses. It returns 0 once the whole scheduled timeline has elapsed.
func (e *SymbolEncoder) Read(dst []float32) (int, error) {
	n := 0
	for n < len(dst) {
		if e.sched.Done() {
			break
		}
		for {
			cmd, ok := e.sched.TryDequeue()
			if !ok {
				break
			}
			e.synth.Apply(cmd)
		}
		dst[n] = e.synth.NextSample()
		e.sched.AdvanceSample()
		n++
	}
	return n, nil
}

// Done reports whether the scheduled timeline has fully elapsed.
func (e *SymbolEncoder) Done() bool {
	return e.sched.Done()
}

// extractBits reads width bits (MSB-first) from data starting at bitOffset,
// zero-padding past the end of data.
func extractBits(data []byte, bitOffset, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		bit := bitOffset + i
		byteIdx := bit / 8
		var b byte
		if byteIdx < len(data) {
			shift := uint(7 - bit%8)
			b = (data[byteIdx] >> shift) & 1
		}
		v = (v << 1) | uint64(b)
	}
	return v
}

// mod is Euclidean modulus: always returns a value in [0,m).
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
