package nnue

import (
	"testing"

	"github.com/kestrelchess/engine/internal/board"
)

func TestComputeFullMatchesIncrementalAfterQuietMove(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(1)

	pos := board.NewPosition()
	var full Accumulator
	full.ComputeFull(pos, net)

	move := board.NewMove(board.G1, board.F3) // knight, no bucket crossing possible
	undo := pos.MakeMove(move)

	var incremental Accumulator
	incremental.ComputeFull(board.NewPosition(), net) // pre-move snapshot
	d := DirtyPieces{
		From:   board.G1,
		To:     board.F3,
		Moving: board.WhiteKnight,
	}
	incremental.ApplyDirty(d, net)

	var fresh Accumulator
	fresh.ComputeFull(pos, net)

	for i := 0; i < L1Size; i++ {
		if incremental.White[i] != fresh.White[i] {
			t.Fatalf("white lane %d mismatch: incremental=%d fresh=%d", i, incremental.White[i], fresh.White[i])
		}
		if incremental.Black[i] != fresh.Black[i] {
			t.Fatalf("black lane %d mismatch: incremental=%d fresh=%d", i, incremental.Black[i], fresh.Black[i])
		}
	}

	pos.UnmakeMove(move, undo)
}

func TestKingMoveCrossesBucketForCentralShift(t *testing.T) {
	var acc Accumulator
	acc.WhiteCtx = NewKingContext(board.White, board.E1)
	if !acc.KingMoveCrossesBucket(board.White, board.E2) {
		t.Fatalf("expected e1->e2 to cross the king bucket (rank changes)")
	}
}

func TestKingMoveToSameSquareDoesNotCrossBucket(t *testing.T) {
	var acc Accumulator
	acc.WhiteCtx = NewKingContext(board.White, board.A1)
	if acc.KingMoveCrossesBucket(board.White, board.A1) {
		t.Fatalf("expected a no-op king square to never cross its own bucket")
	}
}

func TestMarkStaleOnlyAffectsThatPerspective(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(2)
	pos := board.NewPosition()

	var acc Accumulator
	acc.ComputeFull(pos, net)
	acc.MarkStale(board.White)

	if acc.WhiteComputed {
		t.Fatalf("expected white half to be marked stale")
	}
	if !acc.BlackComputed {
		t.Fatalf("black half should be unaffected by marking white stale")
	}

	acc.EnsureComputed(pos, net)
	if !acc.WhiteComputed {
		t.Fatalf("EnsureComputed should have recomputed the white half")
	}
}
