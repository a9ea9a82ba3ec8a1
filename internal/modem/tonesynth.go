package modem

import (
	"math"
	"time"
)

// VolumeRampDuration is the fixed linear ramp time TransitionVolume uses,
// both for the symbol attack and the trailing pause decay.
const VolumeRampDuration = 5 * time.Millisecond

// ToneComponent is one sinusoid in ToneSynth's current mix.
type ToneComponent struct {
	Frequency      float64 // Hz
	Phase          float64 // radians
	RelativeVolume float64
}

// ToneSynth is a sum-of-sinusoids sample generator with a volume envelope.
// It owns a monotonically increasing sample clock that never resets, even
// across ClearTones.
type ToneSynth struct {
	sampleRate float64
	clock      uint64

	components []ToneComponent

	volume        float64
	targetVolume  float64
	rampRemaining time.Duration
}

// NewToneSynth creates a synth emitting samples at sampleRate Hz.
func NewToneSynth(sampleRate float64) *ToneSynth {
	return &ToneSynth{sampleRate: sampleRate}
}

// ClockSamples returns the number of samples emitted so far.
func (s *ToneSynth) ClockSamples() uint64 { return s.clock }

// ClockSeconds returns ClockSamples as wall-clock-equivalent seconds.
func (s *ToneSynth) ClockSeconds() float64 { return float64(s.clock) / s.sampleRate }

// SetVolume snaps current and target volume to v, cancelling any ramp.
func (s *ToneSynth) SetVolume(v float64) {
	s.volume = v
	s.targetVolume = v
	s.rampRemaining = 0
}

// TransitionVolume sets the target volume to v with a fixed
// VolumeRampDuration linear ramp.
func (s *ToneSynth) TransitionVolume(v float64) {
	s.targetVolume = v
	s.rampRemaining = VolumeRampDuration
}

// AddTone inserts c, replacing any existing component at the same
// frequency (exact match).
func (s *ToneSynth) AddTone(c ToneComponent) {
	for i, existing := range s.components {
		if existing.Frequency == c.Frequency {
			s.components[i] = c
			return
		}
	}
	s.components = append(s.components, c)
}

// RemoveTone drops the component at the given frequency, if present.
func (s *ToneSynth) RemoveTone(freq float64) {
	out := s.components[:0]
	for _, c := range s.components {
		if c.Frequency != freq {
			out = append(out, c)
		}
	}
	s.components = out
}

// ClearTones drops all components. Output becomes 0 regardless of volume
// until new tones are added. The sample clock is unaffected.
func (s *ToneSynth) ClearTones() {
	s.components = nil
}

// Apply dispatches a single Command onto the synth.
func (s *ToneSynth) Apply(cmd Command) {
	switch cmd.Kind {
	case CmdSetVolume:
		s.SetVolume(cmd.Volume)
	case CmdTransitionVolume:
		s.TransitionVolume(cmd.Volume)
	case CmdAddTone:
		s.AddTone(cmd.Tone)
	case CmdRemoveTone:
		s.RemoveTone(cmd.Freq)
	case CmdClearTones:
		s.ClearTones()
	}
}

// NextSample advances the clock by one sample, steps the volume ramp, and
// returns the mixed output in [-volume, +volume].
func (s *ToneSynth) NextSample() float32 {
	s.clock++

	if s.rampRemaining > 0 {
		dt := time.Duration(float64(time.Second) / s.sampleRate)
		remainingSamples := s.rampRemaining.Seconds() * s.sampleRate
		if remainingSamples > 0 {
			s.volume += (s.targetVolume - s.volume) / remainingSamples
		}
		if s.rampRemaining <= dt {
			s.rampRemaining = 0
			s.volume = s.targetVolume
		} else {
			s.rampRemaining -= dt
		}
	}

	raw := s.mix()
	if raw > 1.000001 || raw < -1.000001 {
		panic("modem: tone mix exceeded unit range — encoder/config contract violated")
	}
	return float32(raw * s.volume)
}

// mix computes Σ sin(clock·2π·fᵢ/R + φᵢ)·vᵢ / Σⱼvⱼ, normalized so |raw|≤1.
func (s *ToneSynth) mix() float64 {
	var sumVol float64
	for _, c := range s.components {
		sumVol += c.RelativeVolume
	}
	if sumVol == 0 {
		return 0
	}

	var raw float64
	t := float64(s.clock)
	for _, c := range s.components {
		angle := t*2*math.Pi*c.Frequency/s.sampleRate + c.Phase
		raw += math.Sin(angle) * c.RelativeVolume
	}
	return raw / sumVol
}
