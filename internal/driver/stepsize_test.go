package driver

import "testing"

func TestAdjust_ArtificiallyLimitedNeverGrows(t *testing.T) {
	z := stepSizer{current: 0.5, min: 1e-10, hasErrorControl: true}
	hTaken := 0.1 // forced down to hit a deadline

	// A tiny error would normally ask for a much bigger step.
	accepted := z.adjust(1e-10, 1e-3, 4, true, hTaken)
	if !accepted {
		t.Fatal("step with tiny error should be accepted")
	}
	if z.current > hTaken {
		t.Errorf("step grew to %v after artificial limiting, must stay <= %v", z.current, hTaken)
	}
}

func TestAdjust_GrowthWhenUnlimited(t *testing.T) {
	z := stepSizer{current: 0.1, min: 1e-10, hasErrorControl: true}
	accepted := z.adjust(0, 1e-3, 4, false, 0.1)
	if !accepted {
		t.Fatal("zero error should be accepted")
	}
	if z.current != maxGrow*0.1 {
		t.Errorf("zero error should grow by maxGrow, got %v", z.current)
	}
}

func TestAdjust_RejectShrinks(t *testing.T) {
	z := stepSizer{current: 0.1, min: 1e-10, hasErrorControl: true}
	accepted := z.adjust(4e-3, 1e-3, 2, false, 0.1)
	if accepted {
		t.Fatal("error above accuracy must be rejected")
	}
	if z.current >= hysteresisLow*0.1 {
		t.Errorf("rejected step should shrink below %v, got %v", hysteresisLow*0.1, z.current)
	}
	if z.current < minShrink*0.1 {
		t.Errorf("shrink clamped at %v, got %v", minShrink*0.1, z.current)
	}
}

func TestAdjust_HysteresisHoldsStep(t *testing.T) {
	z := stepSizer{current: 0.1, min: 1e-10, hasErrorControl: true}
	// Error just under accuracy asks for a marginally different step;
	// inside the hysteresis band the size should not change.
	accepted := z.adjust(0.5e-3, 1e-3, 4, false, 0.1)
	if !accepted {
		t.Fatal("error under accuracy should be accepted")
	}
	if z.current != 0.1 {
		t.Errorf("step inside hysteresis band changed to %v", z.current)
	}

	// Same from the shrink side: barely under the accuracy target.
	z = stepSizer{current: 0.1, min: 1e-10, hasErrorControl: true}
	if !z.adjust(0.9e-3, 1e-3, 4, false, 0.1) {
		t.Fatal("error under accuracy should be accepted")
	}
	if z.current != 0.1 {
		t.Errorf("step inside hysteresis band changed to %v", z.current)
	}
}

func TestAdjust_NoErrorControlAlwaysAccepts(t *testing.T) {
	z := stepSizer{current: 0.1, min: 1e-10, hasErrorControl: false}
	if !z.adjust(1e6, 1e-3, 1, false, 0.1) {
		t.Error("method without error control must accept every converged step")
	}
	if z.current != 0.1 {
		t.Errorf("step size changed without error control: %v", z.current)
	}
}

func TestAdjust_MaxStepCap(t *testing.T) {
	z := stepSizer{current: 0.1, min: 1e-10, max: 0.25, hasErrorControl: true}
	z.adjust(0, 1e-3, 4, false, 0.1)
	if z.current != 0.25 {
		t.Errorf("growth should cap at max step, got %v", z.current)
	}
}

func TestNoteAccepted_FirstStepImmutable(t *testing.T) {
	z := stepSizer{current: 0.1, min: 1e-10, hasErrorControl: true}
	z.noteAccepted(0.05)
	z.noteAccepted(0.2)
	if z.actualFirst != 0.05 {
		t.Errorf("actual initial step must stay at first value, got %v", z.actualFirst)
	}
	if z.last != 0.2 {
		t.Errorf("last step = %v, want 0.2", z.last)
	}
}
