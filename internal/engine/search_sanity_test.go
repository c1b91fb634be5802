package engine

import (
	"sync/atomic"
	"testing"

	"github.com/kestrelchess/engine/internal/board"
)

func newTestWorker() *Worker {
	var stop atomic.Bool
	return NewWorker(0, NewTranspositionTable(8), NewPawnTable(1), NewSharedHistory(), &stop)
}

// TestSearchFindsMateInKQK checks that a well-placed king and queen against a
// bare king produces a mate score within a modest depth.
func TestSearchFindsMateInKQK(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/8/8/6K1/5Q2/7k w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	w := newTestWorker()
	w.InitSearch(pos)

	var score int
	var move board.Move
	for depth := 1; depth <= 6; depth++ {
		move, score = w.SearchDepth(depth, -Infinity, Infinity)
	}

	if score < MateScore-20 {
		t.Fatalf("expected a mate score within 10 moves, got %d", score)
	}
	if move == board.NoMove {
		t.Fatalf("mate search returned no move")
	}
}

// TestRootSearchIsExhaustive mates in one with a quiet rook lift that move
// ordering visits late, behind more than enough earlier quiet moves to trip
// the late-move-pruning threshold; the root must search every move anyway.
func TestRootSearchIsExhaustive(t *testing.T) {
	pos, err := board.ParseFEN("7k/6pp/8/8/8/8/PPP5/1N2R1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	w := newTestWorker()
	w.InitSearch(pos)
	move, score := w.SearchDepth(1, -Infinity, Infinity)

	if score < MateScore-10 {
		t.Fatalf("depth-1 root search missed the mate, score %d", score)
	}
	if move != board.NewMove(board.E1, board.E8) {
		t.Fatalf("expected the rook mate, got %v", move)
	}
}

// TestSearchReturnsDrawInStalemate checks the stalemate leaf result.
func TestSearchReturnsDrawInStalemate(t *testing.T) {
	// Black to move, completely stalemated.
	pos, err := board.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.GenerateLegalMoves().Len() != 0 || pos.InCheck() {
		t.Fatalf("test position should be stalemate")
	}

	w := newTestWorker()
	w.InitSearch(pos)
	_, score := w.SearchDepth(4, -Infinity, Infinity)
	if score != 0 {
		t.Fatalf("stalemate should score as a draw, got %d", score)
	}
}

// TestRepetitionDetectedInsideSearch plays a shuffle sequence and checks the
// third occurrence reads as a draw through the worker's history buffer.
func TestRepetitionDetectedInsideSearch(t *testing.T) {
	pos, err := board.ParseFEN("7k/8/8/8/8/8/R7/7K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	w := newTestWorker()

	// Build a game history in which the root position already occurred twice.
	hashes := []uint64{pos.Hash, 0x1111, 0x2222, 0x3333, pos.Hash, 0x4444}
	w.SetRootHistory(hashes)
	w.InitSearch(pos)

	if !w.isDraw() {
		t.Fatalf("current position seen twice before plus now should count as threefold")
	}
}

// TestSharedHistorySharedAcrossWorkers checks workers observe each other's
// updates through the shared table.
func TestSharedHistorySharedAcrossWorkers(t *testing.T) {
	sh := NewSharedHistory()
	var stop atomic.Bool
	tt := NewTranspositionTable(1)
	w1 := NewWorker(0, tt, NewPawnTable(1), sh, &stop)
	w2 := NewWorker(1, tt, NewPawnTable(1), sh, &stop)

	w1.sharedHistory.Update(int(board.E2), int(board.E4), 500)
	if got := w2.sharedHistory.Get(int(board.E2), int(board.E4)); got != 500 {
		t.Fatalf("worker 2 should see worker 1's history update, got %d", got)
	}

	sh.Clear()
	if got := w1.sharedHistory.Get(int(board.E2), int(board.E4)); got != 0 {
		t.Fatalf("Clear should zero the table, got %d", got)
	}
}

// TestHistoryBonusFormulaSaturates pins the depth-scaled bonus used for all
// history updates.
func TestHistoryBonusFormulaSaturates(t *testing.T) {
	cases := []struct{ depth, want int }{
		{1, 150},
		{2, 500},
		{5, 1550},
		{6, 1550},
		{30, 1550},
	}
	for _, tc := range cases {
		if got := historyBonus(tc.depth); got != tc.want {
			t.Fatalf("historyBonus(%d) = %d, want %d", tc.depth, got, tc.want)
		}
	}
}
