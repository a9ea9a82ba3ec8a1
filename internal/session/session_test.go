package session

import (
	"bytes"
	"testing"

	"github.com/jeongseonghan/acoustic-modem/internal/modem"
)

// memSignal is a SampleSink while being written and, once sealed, a
// SampleSource over the same samples — a stand-in for "record then play
// back" that keeps this test off real audio hardware.
type memSignal struct {
	samples []float32
	readPos int
}

func (m *memSignal) Write(src []float32) (int, error) {
	m.samples = append(m.samples, src...)
	return len(src), nil
}

func (m *memSignal) Read(dst []float32) (int, error) {
	n := copy(dst, m.samples[m.readPos:])
	m.readPos += n
	return n, nil
}

const testSampleRate = 44100.0

func TestSessionSendReceiveBytesRoundTrip(t *testing.T) {
	plan := modem.DefaultChannelPlan()
	sig := &memSignal{}

	sender, err := NewSender(plan, testSampleRate, sig)
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	if err := sender.SendCalibration(); err != nil {
		t.Fatalf("SendCalibration: %v", err)
	}

	payload := []byte("hello")
	if err := sender.SendBytes(payload); err != nil {
		t.Fatalf("SendBytes: %v", err)
	}

	receiver, err := NewReceiver(plan, testSampleRate, sig)
	if err != nil {
		t.Fatalf("NewReceiver: %v", err)
	}

	got, err := receiver.ReceiveBytes(len(payload))
	if err != nil {
		t.Fatalf("ReceiveBytes: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReceiveBytes() = %q, want %q", got, payload)
	}
}
