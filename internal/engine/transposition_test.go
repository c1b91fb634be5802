package engine

import (
	"testing"

	"github.com/kestrelchess/engine/internal/board"
)

func TestClusterIndexInBounds(t *testing.T) {
	tt := NewTranspositionTable(1)
	hashes := []uint64{0, 1, ^uint64(0), 0x9E3779B97F4A7C15, 0x1234567890ABCDEF}
	for _, h := range hashes {
		idx := clusterIndex(h, tt.count)
		if idx >= tt.count {
			t.Fatalf("clusterIndex(%x, %d) = %d, want < %d", h, tt.count, idx, tt.count)
		}
	}
}

func TestProbeStoreRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)

	hash := uint64(0xDEADBEEFCAFEBABE)
	if _, found := tt.Probe(hash); found {
		t.Fatalf("expected miss on empty table")
	}

	move := board.NewMove(board.E2, board.E4)
	tt.Store(hash, 8, 123, TTExact, move, true)

	entry, found := tt.Probe(hash)
	if !found {
		t.Fatalf("expected hit after store")
	}
	if entry.BestMove != move || entry.Score != 123 || entry.Depth != 8 || entry.Flag != TTExact || !entry.IsPV {
		t.Fatalf("round-trip mismatch: got %+v", entry)
	}
}

func TestProbeStoreRoundTripAtDepthZero(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0x0123456789ABCDEF)

	tt.Store(hash, 0, -42, TTUpperBound, board.NoMove, false)

	entry, found := tt.Probe(hash)
	if !found {
		t.Fatalf("quiescence (depth 0) entries must be probeable")
	}
	if entry.Depth != 0 || entry.Score != -42 || entry.Flag != TTUpperBound {
		t.Fatalf("depth-0 round-trip mismatch: got %+v", entry)
	}
}

func TestStoreDoesNotDowngradeExact(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0x1111)
	move := board.NewMove(board.D2, board.D4)

	tt.Store(hash, 10, 50, TTExact, move, true)
	tt.Store(hash, 4, -50, TTUpperBound, board.NoMove, false)

	entry, found := tt.Probe(hash)
	if !found {
		t.Fatalf("expected hit")
	}
	if entry.Flag != TTExact || entry.Score != 50 {
		t.Fatalf("exact entry was downgraded: got %+v", entry)
	}
}

func TestAgeBumpWraps(t *testing.T) {
	tt := NewTranspositionTable(1)
	for i := 0; i < ageCycle*2+3; i++ {
		tt.NewSearch()
	}
	if tt.age >= ageCycle {
		t.Fatalf("age %d did not wrap below %d", tt.age, ageCycle)
	}
}
