package nnue

import (
	"testing"

	"github.com/kestrelchess/engine/internal/board"
)

func TestOutputBucketMonotonicAndInRange(t *testing.T) {
	prev := -1
	for pieces := 0; pieces <= 32; pieces++ {
		b := OutputBucket(pieces)
		if b < 0 || b >= NumOutputBuckets {
			t.Fatalf("OutputBucket(%d) = %d out of range", pieces, b)
		}
		if b < prev {
			t.Fatalf("OutputBucket regressed at piece count %d: %d -> %d", pieces, prev, b)
		}
		prev = b
	}
}

func TestSquaredClippedReLUClampsAndSquares(t *testing.T) {
	if got := squaredClippedReLU(-10); got != 0 {
		t.Fatalf("negative input should clip to 0, got %d", got)
	}
	if got := squaredClippedReLU(QA + 50); got != QA*QA {
		t.Fatalf("input above QA should clip to QA before squaring, got %d want %d", got, QA*QA)
	}
	if got := squaredClippedReLU(10); got != 100 {
		t.Fatalf("squaredClippedReLU(10) = %d, want 100", got)
	}
}

func TestForwardIsDeterministicAndSwapsPerspective(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(7)

	pos := board.NewPosition()
	var acc Accumulator
	acc.ComputeFull(pos, net)

	white1 := net.Forward(&acc, board.White, 32)
	white2 := net.Forward(&acc, board.White, 32)
	if white1 != white2 {
		t.Fatalf("Forward should be deterministic for a fixed accumulator, got %d then %d", white1, white2)
	}

	black := net.Forward(&acc, board.Black, 32)
	if white1 == black && acc.White != acc.Black {
		t.Fatalf("swapping side to move should change which half feeds the output layer")
	}
}
