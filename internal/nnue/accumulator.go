package nnue

import "github.com/kestrelchess/engine/internal/board"

// Accumulator holds the hidden layer 1 values for both perspectives. Each
// side keeps its own king bucket/mirror context alongside its half, since
// that context is what every feature row in that half was computed against;
// a perspective whose own king crosses into a different bucket invalidates
// its half and has to be recomputed, while the other perspective (whose king
// didn't move) keeps patching incrementally.
type Accumulator struct {
	White, Black [L1Size]int16

	WhiteCtx, BlackCtx KingContext

	WhiteComputed, BlackComputed bool
}

// AccumulatorStack gives a search thread one accumulator per ply, pushed and
// popped in lockstep with Position.MakeMove/UnmakeMove.
type AccumulatorStack struct {
	stack [board.MaxPly]Accumulator
	top   int
}

// NewAccumulatorStack creates an empty accumulator stack.
func NewAccumulatorStack() *AccumulatorStack {
	return &AccumulatorStack{}
}

// Push duplicates the current accumulator onto the next slot. The caller
// patches the new top (ApplyDirty) or marks a perspective stale for a later
// refresh via EnsureComputed.
func (s *AccumulatorStack) Push() {
	if s.top+1 < len(s.stack) {
		s.stack[s.top+1] = s.stack[s.top]
		s.top++
	}
}

// Pop discards the top accumulator, returning to the parent ply's.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Current returns the accumulator for the ply at the top of the stack.
func (s *AccumulatorStack) Current() *Accumulator {
	return &s.stack[s.top]
}

// Reset clears the stack for a new game/search.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0] = Accumulator{}
}

// computeSide recomputes one perspective's half from scratch, using the
// context already stored in acc.WhiteCtx/acc.BlackCtx for that side.
func (acc *Accumulator) computeSide(pos *board.Position, net *Network, perspective board.Color) {
	ctx := acc.WhiteCtx
	half := &acc.White
	if perspective == board.Black {
		ctx = acc.BlackCtx
		half = &acc.Black
	}

	copy(half[:], net.L1Bias[:])
	for color := board.White; color <= board.Black; color++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			pieces := pos.Pieces[color][pt]
			for pieces != 0 {
				sq := pieces.PopLSB()
				row := &net.L1Weights[FeatureIndexWithBucket(ctx.Bucket, ctx.Mirror, perspective, pt, color, sq)]
				for i := 0; i < L1Size; i++ {
					half[i] += row[i]
				}
			}
		}
	}
}

// ComputeFull recomputes both perspectives from scratch from board state.
// This is O(pieces on board) and fills a fresh accumulator outside of
// search (Engine.EvaluateNNUE); during search a stale perspective is rebuilt
// through EnsureComputed instead.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	acc.WhiteCtx = NewKingContext(board.White, pos.KingSquare[board.White])
	acc.BlackCtx = NewKingContext(board.Black, pos.KingSquare[board.Black])
	acc.computeSide(pos, net, board.White)
	acc.computeSide(pos, net, board.Black)
	acc.WhiteComputed = true
	acc.BlackComputed = true
}

// EnsureComputed recomputes whichever perspective (or both) was left stale,
// using pos as the current board state.
func (acc *Accumulator) EnsureComputed(pos *board.Position, net *Network) {
	if !acc.WhiteComputed {
		acc.WhiteCtx = NewKingContext(board.White, pos.KingSquare[board.White])
		acc.computeSide(pos, net, board.White)
		acc.WhiteComputed = true
	}
	if !acc.BlackComputed {
		acc.BlackCtx = NewKingContext(board.Black, pos.KingSquare[board.Black])
		acc.computeSide(pos, net, board.Black)
		acc.BlackComputed = true
	}
}

// KingMoveCrossesBucket reports whether moving mover's king to newKingSquare
// would change mover's own-perspective bucket or mirror, which would make
// every other piece's feature row in that half stale too.
func (acc *Accumulator) KingMoveCrossesBucket(mover board.Color, newKingSquare board.Square) bool {
	oldCtx := acc.WhiteCtx
	if mover == board.Black {
		oldCtx = acc.BlackCtx
	}
	return NewKingContext(mover, newKingSquare) != oldCtx
}

// MarkStale flags perspective's half for a full recompute on next
// EnsureComputed, used when a king move crosses that perspective's bucket.
func (acc *Accumulator) MarkStale(perspective board.Color) {
	if perspective == board.White {
		acc.WhiteComputed = false
	} else {
		acc.BlackComputed = false
	}
}

// applySide patches one perspective's half for a single dirty-piece set,
// using that perspective's stored context. Skips work for a stale half;
// EnsureComputed will rebuild it instead.
func (acc *Accumulator) applySide(perspective board.Color, d DirtyPieces, net *Network) {
	ctx := acc.WhiteCtx
	half := &acc.White
	if perspective == board.Black {
		ctx = acc.BlackCtx
		half = &acc.Black
	}

	apply := func(pt board.PieceType, c board.Color, sq board.Square, add bool) {
		row := &net.L1Weights[FeatureIndexWithBucket(ctx.Bucket, ctx.Mirror, perspective, pt, c, sq)]
		if add {
			for i := 0; i < L1Size; i++ {
				half[i] += row[i]
			}
		} else {
			for i := 0; i < L1Size; i++ {
				half[i] -= row[i]
			}
		}
	}

	movingType := d.Moving.Type()
	movingColor := d.Moving.Color()

	apply(movingType, movingColor, d.From, false)

	addType := movingType
	if d.IsPromotion {
		addType = d.PromotedTo
	}
	apply(addType, movingColor, d.To, true)

	if d.HasCapture {
		apply(d.Captured.Type(), d.Captured.Color(), d.CapturedSquare, false)
	}

	if d.HasRook {
		apply(board.Rook, movingColor, d.RookFrom, false)
		apply(board.Rook, movingColor, d.RookTo, true)
	}
}

// ApplyDirty patches both computed perspectives for a single move. The
// caller must have already marked stale (via MarkStale) any perspective
// whose own king crossed a bucket boundary on this move; this only touches
// perspectives that are still marked computed.
func (acc *Accumulator) ApplyDirty(d DirtyPieces, net *Network) {
	if acc.WhiteComputed {
		acc.applySide(board.White, d, net)
	}
	if acc.BlackComputed {
		acc.applySide(board.Black, d, net)
	}
}
