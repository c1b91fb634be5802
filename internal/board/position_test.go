package board

import "testing"

// TestMakeUnmakeRestoresEverything plays a handful of structurally different
// moves (quiet, capture, double push, en passant, promotion, castling) and
// checks that unmake restores every field, including the incrementally
// maintained hashes and the derived check/pin state.
func TestMakeUnmakeRestoresEverything(t *testing.T) {
	cases := []struct {
		fen  string
		move Move
	}{
		{StartFEN, NewMove(G1, F3)},
		{StartFEN, NewMove(E2, E4)},
		{"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", NewMove(E4, D5)},
		{"rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3", NewEnPassant(D4, E3)},
		{"8/P7/8/8/8/8/7k/K7 w - - 0 1", NewPromotion(A7, A8, Queen)},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", NewCastling(E1, G1)},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", NewCastling(E1, C1)},
	}

	for _, tc := range cases {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
		}
		before := *pos

		undo := pos.MakeMove(tc.move)
		if !undo.Valid {
			t.Fatalf("%q: move %v rejected", tc.fen, tc.move)
		}
		if pos.Hash != pos.ComputeHash() {
			t.Fatalf("%q after %v: incremental hash %x != from-scratch %x", tc.fen, tc.move, pos.Hash, pos.ComputeHash())
		}
		if pos.PawnKey != pos.ComputePawnKey() {
			t.Fatalf("%q after %v: incremental pawn key diverged", tc.fen, tc.move)
		}

		pos.UnmakeMove(tc.move, undo)
		after := *pos

		if before != after {
			t.Fatalf("%q: position not fully restored after %v", tc.fen, tc.move)
		}
	}
}

// TestEnPassantOnlyWhenCapturable verifies a double push records the en
// passant square only when an enemy pawn can actually take, so transpositions
// with a dead ep square hash identically.
func TestEnPassantOnlyWhenCapturable(t *testing.T) {
	pos := NewPosition()
	undo := pos.MakeMove(NewMove(E2, E4))
	if pos.EnPassant != NoSquare {
		t.Fatalf("e2e4 from the start: no black pawn attacks e3, ep square should stay unset, got %s", pos.EnPassant)
	}
	pos.UnmakeMove(NewMove(E2, E4), undo)

	capturable, err := ParseFEN("rnbqkbnr/ppp1pppp/8/8/3p4/8/PPPPPPPP/RNBQKBNR w KQkq - 0 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	capturable.MakeMove(NewMove(E2, E4))
	if capturable.EnPassant != E3 {
		t.Fatalf("e2e4 next to a black d4 pawn should set ep=e3, got %s", capturable.EnPassant)
	}
}

// TestParseFENFiltersDeadEnPassant checks that a FEN carrying an en passant
// square nothing can capture on loads without it.
func TestParseFENFiltersDeadEnPassant(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.EnPassant != NoSquare {
		t.Fatalf("no black pawn attacks e3, ep should be filtered, got %s", pos.EnPassant)
	}

	live, err := ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if live.EnPassant != E3 {
		t.Fatalf("black d4 pawn attacks e3, ep should survive, got %s", live.EnPassant)
	}
}

// TestPliesFromNullTracking checks the null-move distance counter that gates
// consecutive null moves in the search.
func TestPliesFromNullTracking(t *testing.T) {
	pos := NewPosition()
	undo := pos.MakeMove(NewMove(E2, E4))
	if pos.PliesFromNull != 1 {
		t.Fatalf("PliesFromNull after one real move = %d, want 1", pos.PliesFromNull)
	}

	nullUndo := pos.MakeNullMove()
	if pos.PliesFromNull != 0 {
		t.Fatalf("PliesFromNull after a null move = %d, want 0", pos.PliesFromNull)
	}
	pos.UnmakeNullMove(nullUndo)
	if pos.PliesFromNull != 1 {
		t.Fatalf("PliesFromNull not restored by UnmakeNullMove, got %d", pos.PliesFromNull)
	}

	pos.UnmakeMove(NewMove(E2, E4), undo)
	if pos.PliesFromNull != 0 {
		t.Fatalf("PliesFromNull not restored by UnmakeMove, got %d", pos.PliesFromNull)
	}
}
