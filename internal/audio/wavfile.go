package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitDepth = 16

// WavFile is a file-backed modem.SampleSource/SampleSink, used by
// cmd/modemctl and cmd/modemscope to write or read a session's signal
// without touching real hardware.
type WavFile struct {
	f          *os.File
	enc        *wav.Encoder
	dec        *wav.Decoder
	sampleRate float64
}

// CreateWavFile opens path for writing f32 samples at sampleRate Hz,
// encoded as 16-bit mono PCM.
func CreateWavFile(path string, sampleRate float64) (*WavFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("audio: create wav: %w", err)
	}
	enc := wav.NewEncoder(f, int(sampleRate), bitDepth, numChannels, 1)
	return &WavFile{f: f, enc: enc, sampleRate: sampleRate}, nil
}

// OpenWavFile opens path for reading. The file's own sample rate is
// reported via SampleRate, regardless of what the caller expects.
func OpenWavFile(path string) (*WavFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open wav: %w", err)
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("audio: %s is not a valid wav file", path)
	}
	return &WavFile{f: f, dec: dec, sampleRate: float64(dec.SampleRate)}, nil
}

// SampleRate returns the stream's sample rate in Hz.
func (w *WavFile) SampleRate() float64 { return w.sampleRate }

// Write implements modem.SampleSink, quantizing f32 samples in [-1,1] to
// 16-bit PCM.
func (w *WavFile) Write(src []float32) (int, error) {
	if w.enc == nil {
		return 0, fmt.Errorf("audio: wav file not open for writing")
	}

	ints := make([]int, len(src))
	for i, s := range src {
		ints[i] = int(s * 32767)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: numChannels, SampleRate: int(w.sampleRate)},
		Data:           ints,
		SourceBitDepth: bitDepth,
	}
	if err := w.enc.Write(buf); err != nil {
		return 0, fmt.Errorf("audio: wav write: %w", err)
	}
	return len(src), nil
}

// Read implements modem.SampleSource, dequantizing 16-bit PCM back to f32.
func (w *WavFile) Read(dst []float32) (int, error) {
	if w.dec == nil {
		return 0, fmt.Errorf("audio: wav file not open for reading")
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: numChannels, SampleRate: int(w.sampleRate)},
		Data:   make([]int, len(dst)),
	}
	n, err := w.dec.PCMBuffer(buf)
	if err != nil {
		return 0, fmt.Errorf("audio: wav read: %w", err)
	}
	for i := 0; i < n; i++ {
		dst[i] = float32(buf.Data[i]) / 32768
	}
	return n, nil
}

// Close flushes (if writing) and closes the underlying file.
func (w *WavFile) Close() error {
	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			w.f.Close()
			return fmt.Errorf("audio: wav close: %w", err)
		}
	}
	return w.f.Close()
}
