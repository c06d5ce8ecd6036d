package internaldefs

import (
	"strings"
	"testing"
)

func TestBoundsAlign(t *testing.T) {
	if len(HistogramBounds) != len(HistogramBoundSuffix) {
		t.Fatalf("bounds %d vs suffixes %d", len(HistogramBounds), len(HistogramBoundSuffix))
	}
	if len(HistogramUpperBounds) != len(HistogramBounds)-1 {
		t.Fatalf("expected %d finite bounds, got %d", len(HistogramBounds)-1, len(HistogramUpperBounds))
	}
}

func TestCounterNamesUnique(t *testing.T) {
	seen := make(map[string]bool, len(CounterDefs))
	for _, def := range CounterDefs {
		if seen[def.Name] {
			t.Fatalf("duplicate counter %s", def.Name)
		}
		if !strings.HasPrefix(def.Name, "gosession_") || !strings.HasSuffix(def.Name, "_total") {
			t.Fatalf("unexpected counter name %s", def.Name)
		}
		seen[def.Name] = true
	}
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	want := [8]uint64{1, 3, 6, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
