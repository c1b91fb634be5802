package tablebase

import (
	"testing"

	"github.com/kestrelchess/engine/internal/board"
)

func TestNoopProber(t *testing.T) {
	prober := NoopProber{}

	if prober.Available() {
		t.Error("NoopProber should not be available")
	}

	if prober.MaxPieces() != 0 {
		t.Errorf("NoopProber MaxPieces should be 0, got %d", prober.MaxPieces())
	}

	pos := board.NewPosition()
	result := prober.Probe(pos)
	if result.Found {
		t.Error("NoopProber should not find anything")
	}

	rootResult := prober.ProbeRoot(pos)
	if rootResult.Found {
		t.Error("NoopProber ProbeRoot should not find anything")
	}
}

func TestCountPieces(t *testing.T) {
	pos := board.NewPosition()
	count := CountPieces(pos)

	// Starting position has 32 pieces
	if count != 32 {
		t.Errorf("Starting position should have 32 pieces, got %d", count)
	}
}

func TestCachedProber(t *testing.T) {
	inner := NoopProber{}
	cp := NewCachedProber(inner, 1024)

	pos := board.NewPosition()

	result := cp.Probe(pos)
	if result.Found {
		t.Error("expected NoopProber-backed cache to report not found")
	}
	if cp.HitRate() != 0 {
		t.Errorf("first probe should be a miss, got hit rate %f", cp.HitRate())
	}

	if cp.cache != nil {
		cp.cache.Wait()
	}

	cp.Probe(pos)
	if cp.HitRate() <= 0 {
		t.Errorf("second probe of same position should hit the cache, got hit rate %f", cp.HitRate())
	}

	if cp.MaxPieces() != inner.MaxPieces() {
		t.Errorf("MaxPieces should delegate to inner prober, got %d want %d", cp.MaxPieces(), inner.MaxPieces())
	}
	if cp.Available() != inner.Available() {
		t.Error("Available should delegate to inner prober")
	}

	root := cp.ProbeRoot(pos)
	if root.Found {
		t.Error("expected NoopProber-backed ProbeRoot to report not found")
	}

	cp.Clear()
	if cp.HitRate() != 0 {
		t.Errorf("HitRate should reset to 0 after Clear, got %f", cp.HitRate())
	}
}

func TestWDLToScore(t *testing.T) {
	tests := []struct {
		wdl      WDL
		ply      int
		positive bool // Should score be positive (winning)?
	}{
		{WDLWin, 0, true},
		{WDLWin, 10, true},
		{WDLCursedWin, 0, true},
		{WDLDraw, 0, false},
		{WDLBlessedLoss, 0, false},
		{WDLLoss, 0, false},
	}

	for _, tc := range tests {
		score := WDLToScore(tc.wdl, tc.ply)
		isPositive := score > 0

		if tc.positive && !isPositive {
			t.Errorf("WDL %d at ply %d should give positive score, got %d", tc.wdl, tc.ply, score)
		}
		if !tc.positive && tc.wdl != WDLDraw && isPositive {
			t.Errorf("WDL %d at ply %d should give non-positive score, got %d", tc.wdl, tc.ply, score)
		}
	}
}
