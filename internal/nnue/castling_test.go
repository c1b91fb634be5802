package nnue

import (
	"testing"

	"github.com/kestrelchess/engine/internal/board"
)

// TestApplyDirtyCastlingMatchesFullRefresh checks that the rook half of a
// castling move flows through the incremental path. White's own king crosses
// a bucket here and is rebuilt by EnsureComputed; Black's half must reach the
// same values as a full refresh purely from the king and rook deltas.
func TestApplyDirtyCastlingMatchesFullRefresh(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(7)

	pos, err := board.ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	var acc Accumulator
	acc.ComputeFull(pos, net)

	m := board.NewCastling(board.E1, board.G1)
	rookFrom, rookTo := pos.CastleRookSquares(m)
	d := DirtyPieces{
		From:     board.E1,
		To:       board.G1,
		Moving:   board.WhiteKing,
		HasRook:  true,
		RookFrom: rookFrom,
		RookTo:   rookTo,
	}

	if acc.KingMoveCrossesBucket(board.White, board.G1) {
		acc.MarkStale(board.White)
	}
	undo := pos.MakeMove(m)
	if !undo.Valid {
		t.Fatalf("castle rejected")
	}
	acc.ApplyDirty(d, net)
	acc.EnsureComputed(pos, net)

	var fresh Accumulator
	fresh.ComputeFull(pos, net)

	for i := 0; i < L1Size; i++ {
		if acc.White[i] != fresh.White[i] {
			t.Fatalf("white lane %d: incremental=%d fresh=%d", i, acc.White[i], fresh.White[i])
		}
		if acc.Black[i] != fresh.Black[i] {
			t.Fatalf("black lane %d: incremental=%d fresh=%d", i, acc.Black[i], fresh.Black[i])
		}
	}
}
