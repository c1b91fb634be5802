// Package nnue implements incremental NNUE (Efficiently Updatable Neural
// Network) evaluation: a king-bucketed HalfKA-style feature transformer plus
// a squared-clipped-ReLU output stage, with accumulators updated a handful of
// features at a time instead of recomputed from scratch on every move.
package nnue

import "github.com/kestrelchess/engine/internal/board"

// Network architecture constants.
const (
	NumPieceTypes = 6  // Pawn..King, both colors folded in via color slot
	NumSquares    = 64

	// FeaturesPerBucket is one perspective's feature count for a single king
	// bucket: 2 color slots (own/enemy) * 6 piece types * 64 squares.
	FeaturesPerBucket = 2 * NumPieceTypes * NumSquares // 768

	// NumKingBuckets partitions the king's transformed square (after vertical
	// flip and the horizontal mirror that folds it into files a-d) into
	// ranks*files = 8*4 buckets, each owning its own FeaturesPerBucket slice
	// of L1Weights.
	NumKingBuckets = 32

	// L1InputSize is the total row count of L1Weights: every king bucket gets
	// its own full feature half.
	L1InputSize = NumKingBuckets * FeaturesPerBucket

	L1Size = 256 // First hidden layer, per perspective (512 total)

	// NumOutputBuckets selects a distinct output weight/bias set by material
	// count, coarsely tracking the game phase.
	NumOutputBuckets = 8

	// QA/QB are the feature-transformer and output-layer quantization
	// constants used to rescale the squared-clipped-ReLU activations back to
	// centipawns.
	QA = 255
	QB = 64

	OutputScale = 600 // Final scale to centipawns
)

// KingBucket reduces a perspective-transformed king square to one of
// NumKingBuckets partitions. The square must already have had the horizontal
// mirror applied (see transform), so its file is always in 0-3.
func KingBucket(transformedKing board.Square) int {
	return transformedKing.Rank()*4 + transformedKing.File()
}

// transform returns the king square as seen from perspective (vertical flip
// for Black) together with whether that perspective's half additionally
// needs a horizontal mirror to fold the king into files a-d.
func transform(perspective board.Color, kingSquare board.Square) (transformedKing board.Square, mirror bool) {
	k := kingSquare
	if perspective == board.Black {
		k = k.Mirror()
	}
	mirror = k.File() > 3
	if mirror {
		k = k.MirrorHorizontal()
	}
	return k, mirror
}

// transformSquare applies the same perspective flip and mirror decision used
// for the king to any other piece square, so every piece on the board shares
// one consistent coordinate system per perspective.
func transformSquare(sq board.Square, perspective board.Color, mirror bool) board.Square {
	if perspective == board.Black {
		sq = sq.Mirror()
	}
	if mirror {
		sq = sq.MirrorHorizontal()
	}
	return sq
}

// FeatureIndex computes the feature-transformer row for a piece as seen from
// perspective, whose king sits on kingSquare (untransformed).
func FeatureIndex(perspective board.Color, kingSquare board.Square, pieceType board.PieceType, pieceColor board.Color, pieceSquare board.Square) int {
	transformedKing, mirror := transform(perspective, kingSquare)
	bucket := KingBucket(transformedKing)
	return FeatureIndexWithBucket(bucket, mirror, perspective, pieceType, pieceColor, pieceSquare)
}

// FeatureIndexWithBucket computes a feature row given an already-known
// bucket/mirror pair, letting callers iterating many pieces against a single
// king compute the pair once.
func FeatureIndexWithBucket(bucket int, mirror bool, perspective board.Color, pieceType board.PieceType, pieceColor board.Color, pieceSquare board.Square) int {
	sq := transformSquare(pieceSquare, perspective, mirror)
	colorSlot := int(pieceColor) ^ int(perspective)
	return bucket*FeaturesPerBucket + colorSlot*(NumPieceTypes*NumSquares) + int(pieceType)*NumSquares + int(sq)
}

// KingContext caches the bucket/mirror pair derived from one perspective's
// king square, so a full accumulator rebuild or a king-move refresh doesn't
// recompute it per piece.
type KingContext struct {
	Bucket int
	Mirror bool
}

// NewKingContext derives the bucket/mirror pair for perspective's king.
func NewKingContext(perspective board.Color, kingSquare board.Square) KingContext {
	transformedKing, mirror := transform(perspective, kingSquare)
	return KingContext{Bucket: KingBucket(transformedKing), Mirror: mirror}
}

// ActiveFeatures returns every active feature index for a position, from
// both perspectives, for a from-scratch accumulator fill.
func ActiveFeatures(pos *board.Position) (white, black []int) {
	white = make([]int, 0, 32)
	black = make([]int, 0, 32)

	wCtx := NewKingContext(board.White, pos.KingSquare[board.White])
	bCtx := NewKingContext(board.Black, pos.KingSquare[board.Black])

	for color := board.White; color <= board.Black; color++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			pieces := pos.Pieces[color][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()
				white = append(white, FeatureIndexWithBucket(wCtx.Bucket, wCtx.Mirror, board.White, pt, color, sq))
				black = append(black, FeatureIndexWithBucket(bCtx.Bucket, bCtx.Mirror, board.Black, pt, color, sq))
			}
		}
	}

	return white, black
}

// DirtyPieces is the change set a move produces, captured before the move is
// applied to the board (so the mover's pre-move identity is still available)
// and consumed by Accumulator.ApplyDirty after MakeMove flips the side to
// move. A king move (including castling) is only safe to apply this way when
// it doesn't change the mover's own king bucket or mirror; the caller checks
// that with Accumulator.KingMoveCrossesBucket and, when it does, marks the
// affected perspective stale (MarkStale) for a full refresh.
type DirtyPieces struct {
	From, To    board.Square
	Moving      board.Piece
	IsPromotion bool
	PromotedTo  board.PieceType

	HasCapture     bool
	Captured       board.Piece
	CapturedSquare board.Square

	// Castling moves the mover's rook as well as the king.
	HasRook          bool
	RookFrom, RookTo board.Square
}
