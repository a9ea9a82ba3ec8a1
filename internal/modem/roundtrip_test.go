package modem

import (
	"bytes"
	"testing"
)

const (
	roundTripSampleRate = 44100.0
	roundTripWindowSize = 2048
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	plan := DefaultChannelPlan()

	enc, err := NewSymbolEncoder(plan, roundTripSampleRate, roundTripWindowSize)
	if err != nil {
		t.Fatalf("NewSymbolEncoder: %v", err)
	}
	dec, err := NewSymbolDecoder(plan, roundTripSampleRate, roundTripWindowSize)
	if err != nil {
		t.Fatalf("NewSymbolDecoder: %v", err)
	}

	message := []byte("Hi!")
	enc.SendCalibration()
	if _, err := enc.Write(message); err != nil {
		t.Fatalf("Write: %v", err)
	}

	signal := drainEncoder(t, enc)
	feedDecoder(dec, signal)

	got := make([]byte, 0, len(message))
	chunk := make([]byte, 16)
	for {
		n, _ := dec.Read(chunk)
		if n == 0 {
			break
		}
		got = append(got, chunk[:n]...)
	}

	if !bytes.Equal(got, message) {
		t.Errorf("decoded %q, want %q", got, message)
	}
}

func TestEncodeDecodeRoundTripEmptyPayload(t *testing.T) {
	plan := DefaultChannelPlan()

	enc, err := NewSymbolEncoder(plan, roundTripSampleRate, roundTripWindowSize)
	if err != nil {
		t.Fatalf("NewSymbolEncoder: %v", err)
	}
	dec, err := NewSymbolDecoder(plan, roundTripSampleRate, roundTripWindowSize)
	if err != nil {
		t.Fatalf("NewSymbolDecoder: %v", err)
	}

	enc.SendCalibration()
	signal := drainEncoder(t, enc)
	feedDecoder(dec, signal)

	if n := dec.ReadyBytes(); n != 0 {
		t.Errorf("ReadyBytes() = %d, want 0 for a calibration-only transmission", n)
	}
}

func drainEncoder(t *testing.T, enc *SymbolEncoder) []float32 {
	t.Helper()
	var signal []float32
	buf := make([]float32, 4096)
	for !enc.Done() {
		n, err := enc.Read(buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if n == 0 {
			break
		}
		signal = append(signal, buf[:n]...)
	}
	return signal
}

func feedDecoder(dec *SymbolDecoder, signal []float32) {
	window := make([]float32, roundTripWindowSize)
	for i := 0; i < len(signal); i += roundTripWindowSize {
		end := i + roundTripWindowSize
		if end > len(signal) {
			for j := range window {
				window[j] = 0
			}
			copy(window, signal[i:])
		} else {
			copy(window, signal[i:end])
		}
		dec.ProcessWindow(window)
	}
}
