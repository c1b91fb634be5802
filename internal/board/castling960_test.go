package board

import "testing"

func findCastle(t *testing.T, pos *Position, kingTo Square) Move {
	t.Helper()
	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.IsCastling() && m.To() == kingTo {
			return m
		}
	}
	return NoMove
}

// TestShredderFENBuildsGeometry loads a Chess960 position whose castling
// field names rook files and checks the derived geometry.
func TestShredderFENBuildsGeometry(t *testing.T) {
	// White king on c1 with rooks on a1/h1; black rooks on d8/h8. All four
	// rights are given as Shredder file letters.
	pos, err := ParseFEN("3rk2r/8/8/8/8/8/8/R1K4R w HAhd - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.Chess960 {
		t.Fatalf("Shredder castling letters should mark the game as Chess960")
	}
	if pos.CastleRookFrom[White][kingSideIdx] != H1 || pos.CastleRookFrom[White][queenSideIdx] != A1 {
		t.Fatalf("white rook start squares wrong: %s %s",
			pos.CastleRookFrom[White][kingSideIdx], pos.CastleRookFrom[White][queenSideIdx])
	}
	if pos.CastleKingTo[White][kingSideIdx] != G1 || pos.CastleKingTo[White][queenSideIdx] != C1 {
		t.Fatalf("white king destinations wrong: %s %s",
			pos.CastleKingTo[White][kingSideIdx], pos.CastleKingTo[White][queenSideIdx])
	}
}

// TestChess960CastlingOverlappingSquares exercises the geometry where the
// king already stands on its queenside destination, so castling only moves
// the rook.
func TestChess960CastlingOverlappingSquares(t *testing.T) {
	pos, err := ParseFEN("3rk2r/8/8/8/8/8/8/R1K4R w HAhd - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	m := findCastle(t, pos, C1)
	if m == NoMove {
		t.Fatalf("queenside castle (king stays on c1) not generated")
	}

	before := *pos
	undo := pos.MakeMove(m)
	if !undo.Valid {
		t.Fatalf("castle rejected")
	}

	if pos.KingSquare[White] != C1 {
		t.Fatalf("king should remain on c1, got %s", pos.KingSquare[White])
	}
	if pos.Pieces[White][Rook]&SquareBB(D1) == 0 {
		t.Fatalf("rook should land on d1")
	}
	if pos.Pieces[White][Rook]&SquareBB(A1) != 0 {
		t.Fatalf("rook should have left a1")
	}
	if pos.CastlingRights&(WhiteKingSideCastle|WhiteQueenSideCastle) != 0 {
		t.Fatalf("white castling rights should be gone, got %s", pos.CastlingRights)
	}
	if pos.Hash != pos.ComputeHash() {
		t.Fatalf("incremental hash diverged after Chess960 castle")
	}

	pos.UnmakeMove(m, undo)
	if before != *pos {
		t.Fatalf("Chess960 castle not fully unmade")
	}
}

// TestChess960CastlingBlockedByXRay verifies castling is rejected when the
// castling rook is the only shield between an enemy slider and the king's
// path.
func TestChess960CastlingBlockedByXRay(t *testing.T) {
	// White king c1, queenside rook b1; the black rook on a1 attacks c1
	// only once b1 empties, which is exactly what castling would do.
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/rRK5 w B - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if m := findCastle(t, pos, C1); m != NoMove {
		t.Fatalf("castle through an x-rayed king square must not be generated")
	}
}

// TestStandardCastlingStillWorks guards the classic geometry through the
// table-driven path.
func TestStandardCastlingStillWorks(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	kingside := findCastle(t, pos, G1)
	queenside := findCastle(t, pos, C1)
	if kingside == NoMove || queenside == NoMove {
		t.Fatalf("expected both castles to be legal")
	}

	undo := pos.MakeMove(kingside)
	if pos.KingSquare[White] != G1 || pos.Pieces[White][Rook]&SquareBB(F1) == 0 {
		t.Fatalf("kingside castle landed wrong: king=%s", pos.KingSquare[White])
	}
	pos.UnmakeMove(kingside, undo)

	// Moving the h-rook must drop only the kingside right.
	undo = pos.MakeMove(NewMove(H1, H2))
	if pos.CastlingRights&WhiteKingSideCastle != 0 {
		t.Fatalf("h1 rook move should clear the white kingside right")
	}
	if pos.CastlingRights&WhiteQueenSideCastle == 0 {
		t.Fatalf("h1 rook move should keep the white queenside right")
	}
	pos.UnmakeMove(NewMove(H1, H2), undo)
}
