package board

import "testing"

// TestGenerateLoudQuietsPartitionPseudoLegal checks that Loud and Quiets
// together reproduce the full pseudo-legal move set with no overlap.
func TestGenerateLoudQuietsPartitionPseudoLegal(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6",
	}

	for _, fen := range positions {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		all := pos.GeneratePseudoLegalMoves()
		loud := pos.Generate(Loud)
		quiets := pos.Generate(Quiets)

		if loud.Len()+quiets.Len() != all.Len() {
			t.Fatalf("%s: loud(%d)+quiets(%d) != all(%d)", fen, loud.Len(), quiets.Len(), all.Len())
		}

		seen := make(map[Move]bool)
		for i := 0; i < loud.Len(); i++ {
			seen[loud.Get(i)] = true
		}
		for i := 0; i < quiets.Len(); i++ {
			m := quiets.Get(i)
			if seen[m] {
				t.Fatalf("%s: move %v appears in both Loud and Quiets", fen, m)
			}
		}
	}
}

// TestGenerateQuietChecksAreQuietsThatGiveCheck verifies QuietChecks is
// exactly the subset of Quiets for which GivesCheck holds.
func TestGenerateQuietChecksAreQuietsThatGiveCheck(t *testing.T) {
	// A position where the rook's quiet moves up the open e-file give
	// check, sitting among otherwise ordinary rook, knight and king moves.
	pos, err := ParseFEN("4k3/8/8/8/3N4/8/4R3/4K3 w - -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	quiets := pos.Generate(Quiets)
	quietChecks := pos.Generate(QuietChecks)

	wantCount := 0
	for i := 0; i < quiets.Len(); i++ {
		if pos.GivesCheck(quiets.Get(i)) {
			wantCount++
		}
	}
	if quietChecks.Len() != wantCount {
		t.Fatalf("QuietChecks returned %d moves, want %d matching GivesCheck", quietChecks.Len(), wantCount)
	}
	for i := 0; i < quietChecks.Len(); i++ {
		if !pos.GivesCheck(quietChecks.Get(i)) {
			t.Fatalf("QuietChecks move %v does not give check", quietChecks.Get(i))
		}
	}
	if wantCount == 0 {
		t.Fatalf("expected at least one quiet checking move in this position")
	}
}

// TestGivesCheckDiscovered verifies a discovered check is detected when the
// blocking piece moves off the line between a rook and the enemy king.
func TestGivesCheckDiscovered(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/4N3/4R2K w - -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	move := NewMove(E2, D4) // knight steps off the e-file, unmasking Re1+
	if !pos.GivesCheck(move) {
		t.Fatalf("expected %v to be a discovered check", move)
	}
}

func TestLegalGenTypeMatchesCheckState(t *testing.T) {
	pos := NewPosition()
	if pos.legalGenType() != NonEvasions {
		t.Fatalf("starting position should use NonEvasions")
	}

	inCheck, err := ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !inCheck.InCheck() {
		t.Fatalf("test position should be in check")
	}
	if inCheck.legalGenType() != Evasions {
		t.Fatalf("in-check position should use Evasions")
	}
}
