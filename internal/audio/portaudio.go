package audio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	// DefaultSampleRate matches the modem's default window/carrier spacing.
	DefaultSampleRate = 44100
	// FramesPerBuf is the PortAudio callback buffer size.
	FramesPerBuf = 1024
	numChannels  = 1
)

// Stream wraps a PortAudio duplex device and implements modem.SampleSource
// and modem.SampleSink, so a SymbolEncoder/SymbolDecoder can drive it
// without knowing PortAudio exists.
type Stream struct {
	sampleRate float64

	inputStream  *portaudio.Stream
	outputStream *portaudio.Stream
	inputBuf     []float32
	outputBuf    []float32

	mu sync.Mutex
}

// Init initializes the PortAudio library. Call once at process startup.
func Init() error {
	return portaudio.Initialize()
}

// Terminate releases PortAudio's resources. Call once at process shutdown.
func Terminate() error {
	return portaudio.Terminate()
}

// NewStream creates a Stream at the given sample rate. Neither direction
// is opened until OpenInput/OpenOutput is called.
func NewStream(sampleRate float64) *Stream {
	return &Stream{
		sampleRate: sampleRate,
		inputBuf:   make([]float32, FramesPerBuf),
		outputBuf:  make([]float32, FramesPerBuf),
	}
}

// OpenInput opens the default input device for reading.
func (s *Stream) OpenInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(numChannels, 0, s.sampleRate, FramesPerBuf, s.inputBuf)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	s.inputStream = stream
	return s.inputStream.Start()
}

// OpenOutput opens the default output device for writing.
func (s *Stream) OpenOutput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(0, numChannels, s.sampleRate, FramesPerBuf, s.outputBuf)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	s.outputStream = stream
	return s.outputStream.Start()
}

// Read implements modem.SampleSource, filling dst in FramesPerBuf-sized
// device reads.
func (s *Stream) Read(dst []float32) (int, error) {
	if s.inputStream == nil {
		return 0, fmt.Errorf("audio: input stream not opened")
	}

	n := 0
	for n < len(dst) {
		if err := s.inputStream.Read(); err != nil {
			return n, fmt.Errorf("audio: read: %w", err)
		}
		copied := copy(dst[n:], s.inputBuf)
		n += copied
	}
	return n, nil
}

// Write implements modem.SampleSink, writing src in FramesPerBuf-sized
// device writes, zero-padding the final partial buffer.
func (s *Stream) Write(src []float32) (int, error) {
	if s.outputStream == nil {
		return 0, fmt.Errorf("audio: output stream not opened")
	}

	n := 0
	for n < len(src) {
		end := n + FramesPerBuf
		if end > len(src) {
			clear(s.outputBuf)
			copy(s.outputBuf, src[n:])
			end = len(src)
		} else {
			copy(s.outputBuf, src[n:end])
		}
		if err := s.outputStream.Write(); err != nil {
			return n, fmt.Errorf("audio: write: %w", err)
		}
		n = end
	}
	return n, nil
}

// Close shuts down whichever streams are open.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.inputStream != nil {
		if e := s.inputStream.Close(); e != nil {
			err = e
		}
		s.inputStream = nil
	}
	if s.outputStream != nil {
		if e := s.outputStream.Close(); e != nil {
			err = e
		}
		s.outputStream = nil
	}
	return err
}
