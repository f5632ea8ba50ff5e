package spikebeat

import (
	"math"
	"testing"
)

func TestPulse(t *testing.T) {
	p := NewPulse(0.5)
	p.UpdatePhase(0)
	if p.Value != 1 {
		t.Errorf("pulse on the beat = %v, want 1", p.Value)
	}
	p.UpdatePhase(0.9)
	if p.Value > 0.01 {
		t.Errorf("pulse late in the beat = %v", p.Value)
	}

	p.Reset()
	for i := 0; i < 50; i++ {
		p.UpdateEnergy(1)
	}
	if p.Value < 0.99 || p.Value > 1 {
		t.Errorf("saturated energy gave %v", p.Value)
	}
}

func TestPulseDisabledByBadSample(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		p := NewPulse(0.5)
		p.UpdateEnergy(0.2)
		p.UpdateEnergy(bad)
		if !p.Disabled() || p.Value != 0 {
			t.Errorf("sample %v: disabled=%v value=%v", bad, p.Disabled(), p.Value)
		}
		p.UpdateEnergy(0.3)
		p.UpdatePhase(0)
		if p.Value != 0 {
			t.Errorf("sample %v: disabled pulse moved to %v", bad, p.Value)
		}
		p.Reset()
		if p.Disabled() {
			t.Error("Reset should re-enable the pulse")
		}
	}
}
