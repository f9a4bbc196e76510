package simulator_test

import (
	"testing"

	"github.com/OldStager01/cloud-autoscaler/internal/simulator"
)

func TestSteadyPattern_Apply_ReturnsBaseUnchanged(t *testing.T) {
	if got := simulator.PatternSteady.Apply(42); got != 42 {
		t.Errorf("expected steady pattern to pass base through unchanged, got %f", got)
	}
}

func TestParsePattern_KnownNames(t *testing.T) {
	cases := map[string]string{
		"daily":        "daily",
		"weekly":       "weekly",
		"random":       "random",
		"gradual_rise": "gradual_rise",
		"steady":       "steady",
		"unknown-name": "steady",
	}
	for name, wantName := range cases {
		if got := simulator.ParsePattern(name).Name(); got != wantName {
			t.Errorf("ParsePattern(%q).Name() = %q, want %q", name, got, wantName)
		}
	}
}

func TestRandomPattern_Apply_StaysWithinClampedBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		result := simulator.PatternRandom.Apply(50)
		if result < 10 || result > 100 {
			t.Fatalf("expected random pattern result within [10, 100], got %f", result)
		}
	}
}

func TestGradualRisePattern_Apply_NearStartIsApproximatelyBase(t *testing.T) {
	p := simulator.ParsePattern("gradual_rise")
	result := p.Apply(50)
	if result < 50 || result > 51 {
		t.Errorf("expected a freshly-started gradual rise pattern to be close to base, got %f", result)
	}
}
