package nnue

import (
	"testing"

	"github.com/kestrelchess/engine/internal/board"
)

func TestKingBucketRange(t *testing.T) {
	for sq := board.Square(0); sq < 64; sq++ {
		for _, perspective := range []board.Color{board.White, board.Black} {
			transformedKing, _ := transform(perspective, sq)
			b := KingBucket(transformedKing)
			if b < 0 || b >= NumKingBuckets {
				t.Fatalf("KingBucket(%v) for perspective %v = %d, want [0,%d)", sq, perspective, b, NumKingBuckets)
			}
		}
	}
}

func TestTransformFoldsKingToQueensideFiles(t *testing.T) {
	for sq := board.Square(0); sq < 64; sq++ {
		for _, perspective := range []board.Color{board.White, board.Black} {
			transformedKing, _ := transform(perspective, sq)
			if transformedKing.File() > 3 {
				t.Fatalf("transform(%v, %v) left king on file %d, want <=3", perspective, sq, transformedKing.File())
			}
		}
	}
}

func TestMirrorHorizontalSymmetricKingsShareBucket(t *testing.T) {
	// d1 and e1 are horizontal mirrors of each other; both must fold to the
	// same king bucket even though only one of them needs the mirror flag.
	d1Ctx := NewKingContext(board.White, board.D1)
	e1Ctx := NewKingContext(board.White, board.E1)
	if d1Ctx.Bucket != e1Ctx.Bucket {
		t.Fatalf("d1 bucket %d != e1 bucket %d", d1Ctx.Bucket, e1Ctx.Bucket)
	}
	if d1Ctx.Mirror == e1Ctx.Mirror {
		t.Fatalf("d1 and e1 should require opposite mirror flags, both got %v", d1Ctx.Mirror)
	}
}

func TestFeatureIndexWithinBounds(t *testing.T) {
	for bucket := 0; bucket < NumKingBuckets; bucket++ {
		for _, mirror := range []bool{false, true} {
			for _, perspective := range []board.Color{board.White, board.Black} {
				for pt := board.Pawn; pt <= board.King; pt++ {
					for _, color := range []board.Color{board.White, board.Black} {
						for sq := board.Square(0); sq < 64; sq++ {
							idx := FeatureIndexWithBucket(bucket, mirror, perspective, pt, color, sq)
							if idx < 0 || idx >= L1InputSize {
								t.Fatalf("feature index %d out of range [0,%d)", idx, L1InputSize)
							}
						}
					}
				}
			}
		}
	}
}

func TestFeatureIndexColorSlotSeparatesOwnFromEnemy(t *testing.T) {
	own := FeatureIndexWithBucket(0, false, board.White, board.Pawn, board.White, board.E4)
	enemy := FeatureIndexWithBucket(0, false, board.White, board.Pawn, board.Black, board.E4)
	if own == enemy {
		t.Fatalf("own and enemy pawn on the same square collided: %d", own)
	}
}

func TestActiveFeaturesStartPositionSymmetric(t *testing.T) {
	pos := board.NewPosition()
	white, black := ActiveFeatures(pos)
	if len(white) != len(black) {
		t.Fatalf("expected equal feature counts from the start position, got white=%d black=%d", len(white), len(black))
	}
	// 32 pieces, one feature per piece per perspective.
	if len(white) != 32 {
		t.Fatalf("expected 32 active features per perspective, got %d", len(white))
	}
}
