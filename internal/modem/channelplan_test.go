package modem

import "testing"

func TestChannelPlanDerivedQuantities(t *testing.T) {
	c := DefaultChannelPlan()

	if got := c.PhaseBuckets(); got != 4 {
		t.Errorf("PhaseBuckets() = %d, want 4", got)
	}
	if got := c.BitsPerChannel(); got != 2 {
		t.Errorf("BitsPerChannel() = %d, want 2", got)
	}
	if got := c.BitsPerSymbol(); got != 8 {
		t.Errorf("BitsPerSymbol() = %d, want 8", got)
	}
	if got := c.CarrierBin(0); got != 14 {
		t.Errorf("CarrierBin(0) = %d, want 14", got)
	}
	if got := c.CarrierBin(3); got != 20 {
		t.Errorf("CarrierBin(3) = %d, want 20", got)
	}
}

func TestChannelPlanValidateRejectsNonZeroAmplitudeBits(t *testing.T) {
	c := DefaultChannelPlan()
	c.PhaseBits = 0 // 2^0 = 1 bucket: not meaningfully a power-of-two phase alphabet >1
	c.AmplitudeBits = 0
	// PhaseBuckets()=1 is technically a power of two, so force an invalid
	// case via AmplitudeBits instead.
	c.AmplitudeBits = 1
	if err := c.Validate(2048); err == nil {
		t.Error("expected an error for non-zero amplitude_bits")
	}
}

func TestChannelPlanValidateRejectsCarriersOutsideWindow(t *testing.T) {
	c := DefaultChannelPlan()
	if err := c.Validate(32); err == nil {
		t.Error("expected an error when carriers exceed the positive DFT range")
	}
}

func TestChannelPlanValidateAcceptsDefault(t *testing.T) {
	c := DefaultChannelPlan()
	if err := c.Validate(2048); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestChannelPlanVisualizationRangeClampsToWindow(t *testing.T) {
	c := DefaultChannelPlan()
	lo, hi := c.VisualizationRange(32)
	if lo < 0 || hi > 16 {
		t.Errorf("VisualizationRange(32) = [%d,%d), want within [0,16)", lo, hi)
	}
}
