package modem

import (
	"math"
	"testing"
)

func TestToneSynthSilentWithNoComponents(t *testing.T) {
	s := NewToneSynth(8000)
	s.SetVolume(1)
	for i := 0; i < 10; i++ {
		if v := s.NextSample(); v != 0 {
			t.Fatalf("NextSample() = %v, want 0 with no tones", v)
		}
	}
}

func TestToneSynthSingleToneAmplitude(t *testing.T) {
	s := NewToneSynth(8000)
	s.SetVolume(1)
	s.AddTone(ToneComponent{Frequency: 1000, Phase: math.Pi / 2, RelativeVolume: 1})

	// sin(0*2*pi*f/sr + pi/2) = sin(pi/2) = 1 at sample index 0 (clock
	// increments to 1 before mixing, so check the closed-form value at
	// clock=1 instead of assuming sample 0 corresponds to t=0).
	v := s.NextSample()
	expected := math.Sin(1*2*math.Pi*1000/8000 + math.Pi/2)
	if math.Abs(float64(v)-expected) > 1e-5 {
		t.Errorf("NextSample() = %v, want %v", v, expected)
	}
}

func TestToneSynthClearTonesSilences(t *testing.T) {
	s := NewToneSynth(8000)
	s.SetVolume(1)
	s.AddTone(ToneComponent{Frequency: 1000, RelativeVolume: 1})
	s.NextSample()
	s.ClearTones()
	if v := s.NextSample(); v != 0 {
		t.Errorf("NextSample() after ClearTones = %v, want 0", v)
	}
}

func TestToneSynthTransitionVolumeRampsToTarget(t *testing.T) {
	s := NewToneSynth(8000)
	s.SetVolume(0)
	s.AddTone(ToneComponent{Frequency: 0, RelativeVolume: 1}) // DC-ish: sin(phase)=sin(0)=0 baseline
	s.TransitionVolume(1)

	// After VolumeRampDuration worth of samples the ramp must have
	// completed and volume settled at the target.
	rampSamples := int(VolumeRampDuration.Seconds() * 8000)
	for i := 0; i < rampSamples+1; i++ {
		s.NextSample()
	}
	if s.volume != 1 {
		t.Errorf("volume after ramp = %v, want 1", s.volume)
	}
}

func TestToneSynthApplyDispatchesCommands(t *testing.T) {
	s := NewToneSynth(8000)
	s.Apply(Command{Kind: CmdSetVolume, Volume: 0.5})
	if s.volume != 0.5 {
		t.Errorf("volume after CmdSetVolume = %v, want 0.5", s.volume)
	}
	s.Apply(Command{Kind: CmdAddTone, Tone: ToneComponent{Frequency: 440, RelativeVolume: 1}})
	if len(s.components) != 1 {
		t.Fatalf("len(components) = %d, want 1", len(s.components))
	}
	s.Apply(Command{Kind: CmdRemoveTone, Freq: 440})
	if len(s.components) != 0 {
		t.Errorf("len(components) after remove = %d, want 0", len(s.components))
	}
}
