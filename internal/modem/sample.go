package modem

// SampleSource is a narrow capability interface for anything that can
// produce f32 PCM samples: a live microphone, a WAV file, or — in tests —
// another modem component. Read never blocks on the modem's behalf; the
// caller's own policy (e.g. polling a ring buffer) decides whether it
// blocks internally.
type SampleSource interface {
	// Read fills dst with up to len(dst) samples, returning the count
	// written. A return of 0 means EOF: no more samples will ever come.
	Read(dst []float32) (n int, err error)
}

// SampleSink is the write counterpart of SampleSource.
type SampleSink interface {
	// Write consumes up to len(src) samples, returning the count accepted.
	Write(src []float32) (n int, err error)
}
