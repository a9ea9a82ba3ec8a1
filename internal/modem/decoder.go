package modem

// SymbolDecoder turns a stream of sample windows into decoded bytes. Each
// call to ProcessWindow fans the window out across every carrier's
// DifferentialDemod, holds a per-carrier cache of the last decoded bucket,
// combines the cache into one symbol once every carrier holds a value, and
// feeds the result into an embedded BitPacker.
type SymbolDecoder struct {
	plan     ChannelPlan
	analyzer *FftAnalyzer
	carriers []decoderCarrier
	packer   *BitPacker

	cache []cachedBucket

	haveLastSymbol bool
	lastSymbol     int

	discardedCalibration bool
}

type decoderCarrier struct {
	bin   int
	demod *DifferentialDemod
}

// cachedBucket is one carrier's last decoded value: ResultBucket sets it,
// ResultSame leaves it unchanged, ResultNoise clears it.
type cachedBucket struct {
	value int
	valid bool
}

// NewSymbolDecoder validates plan against windowSize and creates a decoder
// consuming windows of that size captured at sampleRate Hz.
func NewSymbolDecoder(plan ChannelPlan, sampleRate float64, windowSize int) (*SymbolDecoder, error) {
	if err := plan.Validate(windowSize); err != nil {
		return nil, err
	}

	carriers := make([]decoderCarrier, plan.Count)
	for i := range carriers {
		carriers[i] = decoderCarrier{
			bin:   plan.CarrierBin(i),
			demod: NewDifferentialDemod(plan.PhaseBuckets()),
		}
	}

	return &SymbolDecoder{
		plan:     plan,
		analyzer: NewFftAnalyzer(sampleRate, windowSize),
		carriers: carriers,
		packer:   NewBitPacker(),
		cache:    make([]cachedBucket, plan.Count),
	}, nil
}

// ProcessWindow analyzes one window of windowSize samples and advances the
// decoder's state machine. It never returns decoded bytes directly — drain
// them afterward with Read.
func (d *SymbolDecoder) ProcessWindow(samples []float32) {
	d.analyzer.Transform(samples)

	for i, c := range d.carriers {
		p := d.analyzer.Point(c.bin)
		result, bucket := c.demod.Observe(p)

		switch result {
		case ResultNoise:
			d.cache[i] = cachedBucket{}
		case ResultBucket:
			d.cache[i] = cachedBucket{value: bucket, valid: true}
		case ResultSame:
			// cache already holds the value from this burst's lock window.
		}
	}

	symbolVal := 0
	allValid := true
	bitsPerChannel := int(d.plan.BitsPerChannel())
	for i, c := range d.cache {
		if !c.valid {
			allValid = false
			break
		}
		symbolVal |= c.value << uint(i*bitsPerChannel)
	}

	if !allValid {
		d.haveLastSymbol = false
		return
	}

	if d.haveLastSymbol && symbolVal == d.lastSymbol {
		return // same symbol, already accounted for
	}

	d.lastSymbol = symbolVal
	d.haveLastSymbol = true

	if !d.discardedCalibration {
		d.discardedCalibration = true
		return
	}

	d.packer.PushBits(d.plan.BitsPerSymbol(), uint64(symbolVal))
}

// Read drains up to len(dst) decoded bytes without blocking.
func (d *SymbolDecoder) Read(dst []byte) (int, error) {
	return d.packer.Read(dst), nil
}

// PendingBits reports undecoded bits sitting in the BitPacker.
func (d *SymbolDecoder) PendingBits() int {
	return d.packer.PendingBits()
}

// ReadyBytes reports decoded bytes waiting to be read.
func (d *SymbolDecoder) ReadyBytes() int {
	return d.packer.ReadyBytes()
}
