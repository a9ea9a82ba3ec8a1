// Package session ties a ChannelPlan, a sample device, and the modem's
// SymbolEncoder/SymbolDecoder together into the send/receive lifecycle a
// CLI or HTTP handler actually drives.
package session

import (
	"fmt"
	"log"

	"github.com/jeongseonghan/acoustic-modem/internal/modem"
)

// Mode is the direction a Session was opened for.
type Mode int

const (
	ModeSend Mode = iota
	ModeReceive
)

// Status is a coarse session lifecycle state, broadcast to listeners via
// Events.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusTransferring
	StatusCompleted
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusTransferring:
		return "transferring"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is pushed to Events() on every status change.
type Event struct {
	Status  Status
	Message string
}

// WindowSize is the DFT window every ChannelPlan in this package is
// validated against. It is not itself part of ChannelPlan because several
// plans can share one capture window.
const WindowSize = 2048

// Session owns one direction of a modem conversation: a ChannelPlan, the
// matching encoder or decoder, and the device it talks to.
type Session struct {
	plan       modem.ChannelPlan
	sampleRate float64
	mode       Mode

	source modem.SampleSource
	sink   modem.SampleSink

	encoder *modem.SymbolEncoder
	decoder *modem.SymbolDecoder

	status    Status
	eventChan chan Event
}

// NewSender creates a Session that writes bytes and emits samples to sink.
func NewSender(plan modem.ChannelPlan, sampleRate float64, sink modem.SampleSink) (*Session, error) {
	enc, err := modem.NewSymbolEncoder(plan, sampleRate, WindowSize)
	if err != nil {
		return nil, fmt.Errorf("session: new encoder: %w", err)
	}
	return &Session{
		plan:       plan,
		sampleRate: sampleRate,
		mode:       ModeSend,
		sink:       sink,
		encoder:    enc,
		eventChan:  make(chan Event, 64),
	}, nil
}

// NewReceiver creates a Session that reads samples from source and
// produces decoded bytes.
func NewReceiver(plan modem.ChannelPlan, sampleRate float64, source modem.SampleSource) (*Session, error) {
	dec, err := modem.NewSymbolDecoder(plan, sampleRate, WindowSize)
	if err != nil {
		return nil, fmt.Errorf("session: new decoder: %w", err)
	}
	return &Session{
		plan:       plan,
		sampleRate: sampleRate,
		mode:       ModeReceive,
		source:     source,
		decoder:    dec,
		eventChan:  make(chan Event, 64),
	}, nil
}

// Events returns the channel status updates are published on.
func (s *Session) Events() <-chan Event { return s.eventChan }

// SendBytes schedules data for transmission and pumps samples to the sink
// until the whole scheduled timeline has drained. It sends no calibration
// preamble of its own; SendCalibration does that.
func (s *Session) SendBytes(data []byte) error {
	if s.mode != ModeSend {
		return fmt.Errorf("session: SendBytes called on a receive session")
	}
	s.setStatus(StatusTransferring, fmt.Sprintf("sending %d bytes", len(data)))

	if _, err := s.encoder.Write(data); err != nil {
		s.setStatus(StatusError, err.Error())
		return err
	}

	buf := make([]float32, 4096)
	for !s.encoder.Done() {
		n, err := s.encoder.Read(buf)
		if err != nil {
			s.setStatus(StatusError, err.Error())
			return err
		}
		if n == 0 {
			break
		}
		if _, err := s.sink.Write(buf[:n]); err != nil {
			s.setStatus(StatusError, err.Error())
			return fmt.Errorf("session: write samples: %w", err)
		}
	}

	s.setStatus(StatusCompleted, "transmission finished")
	return nil
}

// SendCalibration transmits the calibration preamble alone. The receiving
// SymbolDecoder discards the first symbol it decodes as this preamble.
func (s *Session) SendCalibration() error {
	if s.mode != ModeSend {
		return fmt.Errorf("session: SendCalibration called on a receive session")
	}
	s.setStatus(StatusConnecting, "sending calibration preamble")
	s.encoder.SendCalibration()

	buf := make([]float32, 4096)
	for !s.encoder.Done() {
		n, err := s.encoder.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		if _, err := s.sink.Write(buf[:n]); err != nil {
			return fmt.Errorf("session: write samples: %w", err)
		}
	}
	return nil
}

// ReceiveBytes pulls windows from the source, decodes them, and appends
// decoded bytes to an internal buffer until either maxBytes have been
// collected or the source reaches EOF.
func (s *Session) ReceiveBytes(maxBytes int) ([]byte, error) {
	if s.mode != ModeReceive {
		return nil, fmt.Errorf("session: ReceiveBytes called on a send session")
	}
	s.setStatus(StatusTransferring, "listening")

	window := make([]float32, WindowSize)
	out := make([]byte, 0, maxBytes)
	chunk := make([]byte, 256)

	for len(out) < maxBytes {
		n, err := s.source.Read(window)
		if err != nil {
			s.setStatus(StatusError, err.Error())
			return out, err
		}
		if n == 0 {
			break
		}
		if n < len(window) {
			for i := n; i < len(window); i++ {
				window[i] = 0
			}
		}
		s.decoder.ProcessWindow(window)

		for {
			got, _ := s.decoder.Read(chunk)
			if got == 0 {
				break
			}
			out = append(out, chunk[:got]...)
		}
	}

	s.setStatus(StatusCompleted, fmt.Sprintf("received %d bytes", len(out)))
	return out, nil
}

func (s *Session) setStatus(status Status, message string) {
	s.status = status
	select {
	case s.eventChan <- Event{Status: status, Message: message}:
	default:
		log.Printf("session: event channel full, dropping: %s - %s", status, message)
	}
}
