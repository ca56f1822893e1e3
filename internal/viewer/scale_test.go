package viewer

import "testing"

func TestNextScaleStepsByTenPercentOfBase(t *testing.T) {
	t.Parallel()

	got := NextScale(1.5, 1.5, true)
	if diff := got - 1.65; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("NextScale(1.5, 1.5, true) = %v, want 1.65", got)
	}
	got = NextScale(1.5, 1.5, false)
	if diff := got - 1.35; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("NextScale(1.5, 1.5, false) = %v, want 1.35", got)
	}
}

func TestNextScaleClampsAtBounds(t *testing.T) {
	t.Parallel()

	if got := NextScale(1.5*3, 1.5, true); got != 1.5*3 {
		t.Fatalf("ceiling clamp broken: got %v", got)
	}
	if got := NextScale(1.5*0.5, 1.5, false); got != 1.5*0.5 {
		t.Fatalf("floor clamp broken: got %v", got)
	}
}

func TestNextScaleStaysInRangeForAnySequence(t *testing.T) {
	t.Parallel()

	for _, base := range []float64{0.25, 1, 1.5, 4} {
		scale := base
		for i := 0; i < 200; i++ {
			increment := (i/7)%2 == 0
			scale = NextScale(scale, base, increment)
			if scale < MinScale(base)-1e-9 || scale > MaxScale(base)+1e-9 {
				t.Fatalf("base %v step %d: scale %v escaped [%v, %v]", base, i, scale, MinScale(base), MaxScale(base))
			}
		}
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	cases := map[float64]int{1.5: 150, 1.65: 165, 0.75: 75, 4.5: 450}
	for scale, want := range cases {
		if got := Percent(scale); got != want {
			t.Fatalf("Percent(%v) = %d, want %d", scale, got, want)
		}
	}
}
