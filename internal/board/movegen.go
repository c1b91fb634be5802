package board

// UndoInfo is the snapshot MakeMove hands back to UnmakeMove: everything
// that isn't cheaply derivable from the move itself and the piece that was
// on its destination square.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	PliesFromNull  int
	Hash           uint64
	PawnKey        uint64
	Checkers       Bitboard
	Blockers       [2]Bitboard
	Pinners        [2]Bitboard
	Xrayers        [2]Bitboard
	CheckSquares   [6]Bitboard
	Valid          bool
}

// GenType tags which target-square subset Generate should produce.
type GenType int

const (
	// Loud is captures (with every promotion piece on capture-promotions)
	// plus the quiet queen promotion.
	Loud GenType = iota
	// Quiets is non-capture moves, including castling and quiet
	// underpromotions (the quiet queen promotion counts as Loud).
	Quiets
	// QuietChecks is the subset of Quiets that gives check, directly or by
	// discovery.
	QuietChecks
	// Evasions is every pseudo-legal move while in check.
	Evasions
	// NonEvasions is every pseudo-legal move while not in check.
	NonEvasions
)

// Generate produces the pseudo-legal moves of kind gt. Evasions and
// NonEvasions both fall back to the full generator: filterLegalMoves (or
// IsLegal at the search call site) already rejects any move that leaves the
// mover's king in check, which is the only thing distinguishing the two
// target masks once legality is checked.
func (p *Position) Generate(gt GenType) *MoveList {
	ml := NewMoveList()
	us := p.SideToMove
	switch gt {
	case Loud:
		p.generateCaptures(ml)
	case Quiets:
		p.generateQuiets(ml, us)
	case QuietChecks:
		p.generateQuietChecks(ml, us)
	case Evasions, NonEvasions:
		p.generateAllMoves(ml)
	}
	return ml
}

// legalGenType picks Evasions or NonEvasions for the position's check state.
func (p *Position) legalGenType() GenType {
	if p.InCheck() {
		return Evasions
	}
	return NonEvasions
}

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	return p.filterLegalMoves(p.Generate(p.legalGenType()))
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	return p.Generate(p.legalGenType())
}

// GenerateCaptures generates all capture moves.
func (p *Position) GenerateCaptures() *MoveList {
	return p.filterLegalMoves(p.Generate(Loud))
}

// generateAllMoves generates all pseudo-legal moves.
func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	// Pawn moves
	p.generatePawnMoves(ml, us, enemies, occupied)

	// Knight moves
	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := KnightAttacks(from) & ^p.Occupied[us]
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Bishop moves
	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := BishopAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Rook moves
	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := RookAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Queen moves
	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := QueenAttacks(from, occupied) & ^p.Occupied[us]
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// King moves
	p.generateKingMoves(ml, us)

	// Castling
	p.generateCastlingMoves(ml, us)
}

// generatePawnMoves generates all pawn moves.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	// Single pushes (non-promotion)
	nonPromo := push1 & ^promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		from := Square(int(to) - pushDir)
		ml.Add(NewMove(from, to))
	}

	// Double pushes
	for push2 != 0 {
		to := push2.PopLSB()
		from := Square(int(to) - 2*pushDir)
		ml.Add(NewMove(from, to))
	}

	// Captures (non-promotion)
	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		ml.Add(NewMove(from, to))
	}

	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		ml.Add(NewMove(from, to))
	}

	// Promotions
	promoPush := push1 & promotionRank
	for promoPush != 0 {
		to := promoPush.PopLSB()
		from := Square(int(to) - pushDir)
		addPromotions(ml, from, to)
	}

	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addPromotions(ml, from, to)
	}

	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addPromotions(ml, from, to)
	}

	// En passant
	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewEnPassant(from, p.EnPassant))
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// generateKingMoves generates king moves (non-castling).
func (p *Position) generateKingMoves(ml *MoveList, us Color) {
	from := p.KingSquare[us]
	attacks := KingAttacks(from) & ^p.Occupied[us]

	for attacks != 0 {
		to := attacks.PopLSB()
		ml.Add(NewMove(from, to))
	}
}

// generateCastlingMoves generates castling moves from the position's castling
// geometry tables, which cover standard chess and Chess960 with the same code:
// the right must survive, the rook must still be on its start square, the
// king+rook paths must be vacant, and every square the king traverses
// (including its origin and destination) must be unattacked. The attack test
// drops the king and the castling rook from the occupancy so sliders x-rayed
// through either are seen.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()
	kingSq := p.KingSquare[us]

	for _, side := range [2]int{kingSideIdx, queenSideIdx} {
		if !hasRightIdx(p.CastlingRights, us, side) {
			continue
		}
		rookFrom := p.CastleRookFrom[us][side]
		if p.Pieces[us][Rook]&SquareBB(rookFrom) == 0 {
			continue
		}
		if p.CastlePath[us][side]&p.AllOccupied != 0 {
			continue
		}

		occ := p.AllOccupied &^ SquareBB(kingSq) &^ SquareBB(rookFrom)
		attacked := false
		for bb := p.CastleKingPath[us][side]; bb != 0; {
			sq := bb.PopLSB()
			if p.AttackersByColor(sq, them, occ) != 0 {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}

		ml.Add(NewCastling(kingSq, p.CastleKingTo[us][side]))
	}
}

// generateQuiets generates non-capture moves, including castling and quiet
// underpromotions.
func (p *Position) generateQuiets(ml *MoveList, us Color) {
	occupied := p.AllOccupied
	empty := ^occupied

	pawns := p.Pieces[us][Pawn]
	var push1, push2, promotionRank Bitboard
	var pushDir int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		promotionRank = Rank1
		pushDir = -8
	}

	nonPromo := push1 &^ promotionRank
	for nonPromo != 0 {
		to := nonPromo.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to))
	}
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to))
	}

	// Quiet underpromotions; the queen promotion is generated with the loud
	// moves.
	for promoPush := push1 & promotionRank; promoPush != 0; {
		to := promoPush.PopLSB()
		from := Square(int(to) - pushDir)
		ml.Add(NewPromotion(from, to, Rook))
		ml.Add(NewPromotion(from, to, Bishop))
		ml.Add(NewPromotion(from, to, Knight))
	}

	for pt := Knight; pt <= Queen; pt++ {
		pieces := p.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			var attacks Bitboard
			switch pt {
			case Knight:
				attacks = KnightAttacks(from)
			case Bishop:
				attacks = BishopAttacks(from, occupied)
			case Rook:
				attacks = RookAttacks(from, occupied)
			case Queen:
				attacks = QueenAttacks(from, occupied)
			}
			attacks &= empty
			for attacks != 0 {
				to := attacks.PopLSB()
				ml.Add(NewMove(from, to))
			}
		}
	}

	from := p.KingSquare[us]
	kingQuiets := KingAttacks(from) & empty
	for kingQuiets != 0 {
		to := kingQuiets.PopLSB()
		ml.Add(NewMove(from, to))
	}

	p.generateCastlingMoves(ml, us)
}

// generateQuietChecks generates the subset of quiet moves that give check.
func (p *Position) generateQuietChecks(ml *MoveList, us Color) {
	quiets := NewMoveList()
	p.generateQuiets(quiets, us)
	for i := 0; i < quiets.Len(); i++ {
		m := quiets.Get(i)
		if p.GivesCheck(m) {
			ml.Add(m)
		}
	}
}

// GivesCheck reports whether m, not yet applied to the position, would place
// the opponent's king in check, either directly (the moved piece's
// destination attacks the king) or by discovery (the moved piece was
// blocking one of the mover's own sliders). Doesn't special-case the rarer
// en passant discovered check through the captured pawn's square.
func (p *Position) GivesCheck(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	pt := p.PieceAt(from).Type()
	if m.IsPromotion() {
		pt = m.Promotion()
	}

	if pt != King && p.CheckSquares[pt]&SquareBB(to) != 0 {
		return true
	}

	if p.Blockers[them]&SquareBB(from) != 0 && !Aligned(from, to, p.KingSquare[them]) {
		return true
	}

	if m.IsCastling() {
		rookTo := p.CastleRookTo[us][castleSideOf(m)]
		if p.CheckSquares[Rook]&SquareBB(rookTo) != 0 {
			return true
		}
	}

	return false
}

// generateCaptures generates capture moves plus quiet queen promotions.
func (p *Position) generateCaptures(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	enemies := p.Occupied[them]
	occupied := p.AllOccupied

	// Pawn captures
	pawns := p.Pieces[us][Pawn]
	var attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	// Non-promotion captures
	nonPromoL := attackL & ^promotionRank
	for nonPromoL != 0 {
		to := nonPromoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		ml.Add(NewMove(from, to))
	}

	nonPromoR := attackR & ^promotionRank
	for nonPromoR != 0 {
		to := nonPromoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		ml.Add(NewMove(from, to))
	}

	// Promotion captures
	promoL := attackL & promotionRank
	for promoL != 0 {
		to := promoL.PopLSB()
		from := Square(int(to) - pushDir + 1)
		addPromotions(ml, from, to)
	}

	promoR := attackR & promotionRank
	for promoR != 0 {
		to := promoR.PopLSB()
		from := Square(int(to) - pushDir - 1)
		addPromotions(ml, from, to)
	}

	// Quiet queen promotions (not captures, but as material-changing moves
	// they belong with the loud set for quiescence). Underpromotions ride
	// with the quiet moves instead.
	empty := ^occupied
	var push1 Bitboard
	if us == White {
		push1 = pawns.North() & empty & Rank8
	} else {
		push1 = pawns.South() & empty & Rank1
	}
	for push1 != 0 {
		to := push1.PopLSB()
		from := Square(int(to) - pushDir)
		ml.Add(NewPromotion(from, to, Queen))
	}

	// En passant
	if p.EnPassant != NoSquare {
		epBB := SquareBB(p.EnPassant)
		var epAttackers Bitboard
		if us == White {
			epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
		} else {
			epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
		}
		for epAttackers != 0 {
			from := epAttackers.PopLSB()
			ml.Add(NewEnPassant(from, p.EnPassant))
		}
	}

	// Knight captures
	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		attacks := KnightAttacks(from) & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Bishop captures
	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		attacks := BishopAttacks(from, occupied) & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Rook captures
	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		attacks := RookAttacks(from, occupied) & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// Queen captures
	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		attacks := QueenAttacks(from, occupied) & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			ml.Add(NewMove(from, to))
		}
	}

	// King captures
	from := p.KingSquare[us]
	attacks := KingAttacks(from) & enemies
	for attacks != 0 {
		to := attacks.PopLSB()
		ml.Add(NewMove(from, to))
	}
}

// PseudoLegal reports whether m plausibly belongs to this position: the
// mover exists and is ours, the destination is reachable by that piece under
// the current occupancy, and the special flags match the board state. It is
// a cheap screen for moves pulled out of the transposition table, whose
// 16-bit encoding can collide across positions; full legality is still
// established by IsLegal.
func (p *Position) PseudoLegal(m Move) bool {
	if m == NoMove {
		return false
	}
	us := p.SideToMove
	from, to := m.From(), m.To()
	piece := p.PieceAt(from)
	if piece == NoPiece || piece.Color() != us {
		return false
	}
	pt := piece.Type()

	if m.IsCastling() {
		if pt != King {
			return false
		}
		ml := NewMoveList()
		p.generateCastlingMoves(ml, us)
		return ml.Contains(m)
	}
	if (m.IsPromotion() || m.IsEnPassant()) && pt != Pawn {
		return false
	}
	if p.Occupied[us]&SquareBB(to) != 0 {
		return false
	}

	switch pt {
	case Pawn:
		if m.IsEnPassant() {
			return p.EnPassant == to && pawnAttacks[us][from]&SquareBB(to) != 0
		}
		onPromoRank := to.RelativeRank(us) == 7
		if m.IsPromotion() != onPromoRank {
			return false
		}
		if pawnAttacks[us][from]&SquareBB(to) != 0 {
			return p.Occupied[us.Other()]&SquareBB(to) != 0
		}
		step := 8
		if us == Black {
			step = -8
		}
		one := int(from) + step
		if int(to) == one {
			return p.IsEmpty(to)
		}
		if from.RelativeRank(us) == 1 && int(to) == one+step {
			return p.IsEmpty(Square(one)) && p.IsEmpty(to)
		}
		return false
	case Knight:
		return knightAttacks[from]&SquareBB(to) != 0
	case Bishop:
		return BishopAttacks(from, p.AllOccupied)&SquareBB(to) != 0
	case Rook:
		return RookAttacks(from, p.AllOccupied)&SquareBB(to) != 0
	case Queen:
		return QueenAttacks(from, p.AllOccupied)&SquareBB(to) != 0
	case King:
		return kingAttacks[from]&SquareBB(to) != 0
	}
	return false
}

// filterLegalMoves filters out illegal moves (those that leave king in check).
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(m) {
			result.Add(m)
		}
	}

	return result
}

// IsLegal returns true if the move is legal (doesn't leave king in check).
// Uses make/unmake for guaranteed correctness.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	ksq := p.KingSquare[us]

	// For king moves, check if destination is attacked
	if from == ksq {
		if m.IsCastling() {
			return true // Already validated in generation
		}
		// King moves: temporarily remove king and check destination
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(m.To(), them, occ) == 0
	}

	// For all other moves: actually make the move and check
	undo := p.MakeMove(m)
	if !undo.Valid {
		return false
	}

	// Check if OUR king is now attacked
	// After MakeMove, SideToMove is flipped, so "them" is now "us"
	attacked := p.IsSquareAttacked(ksq, them)

	p.UnmakeMove(m, undo)

	return !attacked
}

// MakeMove applies a move to the position and returns undo information.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		PliesFromNull:  p.PliesFromNull,
		Hash:           p.Hash,
		PawnKey:        p.PawnKey,
		Checkers:       p.Checkers,
		Blockers:       p.Blockers,
		Pinners:        p.Pinners,
		Xrayers:        p.Xrayers,
		CheckSquares:   p.CheckSquares,
		Valid:          false,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)

	// Safety check - if no piece at from square, return without modifying position
	if piece == NoPiece {
		return undo
	}

	// Mark as valid since we have a piece and will apply the move
	undo.Valid = true
	Assert(piece.Color() == us, "MakeMove: mover %v belongs to %v, not side to move %v", piece, piece.Color(), us)
	pt := piece.Type()

	// Update hash for side to move
	p.Hash ^= zobristSideToMove

	// Update hash for castling rights (will be updated again below if they change)
	p.Hash ^= zobristCastling[p.CastlingRights]

	// Update hash for en passant
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	// Clear en passant
	p.EnPassant = NoSquare

	// Handle captures. Castling is skipped here: the king's destination is
	// never an enemy piece, and in Chess960 it may hold the castling rook.
	if m.IsEnPassant() {
		// En passant capture
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		undo.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
		p.PawnKey ^= zobristPiece[them][Pawn][capturedSq]
	} else if captured := p.PieceAt(to); captured != NoPiece && !m.IsCastling() {
		// Normal capture
		undo.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured.Type()][to]
		if captured.Type() == Pawn {
			p.PawnKey ^= zobristPiece[them][Pawn][to]
		}
	}

	if m.IsCastling() {
		// Remove both pieces before placing either: in Chess960 the king's
		// destination can be the rook's start square and vice versa.
		side := castleSideOf(m)
		rookFrom := p.CastleRookFrom[us][side]
		rookTo := p.CastleRookTo[us][side]
		p.removePiece(from)
		p.removePiece(rookFrom)
		p.setPiece(NewPiece(King, us), to)
		p.setPiece(NewPiece(Rook, us), rookTo)
		p.Hash ^= zobristPiece[us][King][from] ^ zobristPiece[us][King][to]
		p.Hash ^= zobristPiece[us][Rook][rookFrom] ^ zobristPiece[us][Rook][rookTo]
	} else {
		// Move the piece
		p.movePiece(from, to)
		p.Hash ^= zobristPiece[us][pt][from]
		p.Hash ^= zobristPiece[us][pt][to]
		if pt == Pawn {
			p.PawnKey ^= zobristPiece[us][Pawn][from]
			p.PawnKey ^= zobristPiece[us][Pawn][to]
		}
	}

	// Handle promotion
	if m.IsPromotion() {
		promoPt := m.Promotion()
		// Remove pawn, add promoted piece
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
		// The plain pawn move above added a pawn key for `to`; promotion
		// replaces it with a non-pawn piece, so remove that contribution.
		p.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	// A king or rook leaving its start square, or anything landing on a rook's
	// start square, kills the corresponding rights. The per-square masks are
	// built from the actual start squares at FEN load, so Chess960 rook files
	// need no special case.
	p.CastlingRights &^= p.castleRightsMask[from] | p.castleRightsMask[to]

	// Update hash for new castling rights
	p.Hash ^= zobristCastling[p.CastlingRights]

	// Set en passant square for a double pawn push, but only when an enemy
	// pawn can actually capture there; the hash reflects capturable en
	// passant only, so repeats with a dead ep square still hash equal.
	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		epSquare := Square((int(from) + int(to)) / 2)
		if pawnAttacks[us][epSquare]&p.Pieces[them][Pawn] != 0 {
			p.EnPassant = epSquare
			p.Hash ^= zobristEnPassant[epSquare.File()]
		}
	}

	// Update half-move clock
	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	p.PliesFromNull++

	// Update full-move number
	if us == Black {
		p.FullMoveNumber++
	}

	// Switch side to move
	p.SideToMove = them

	// Update checkers
	p.UpdateCheckers()

	return undo
}

// UnmakeMove undoes a move using the stored undo information.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	// Restore state
	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.PliesFromNull = undo.PliesFromNull
	p.Hash = undo.Hash
	p.PawnKey = undo.PawnKey
	p.Checkers = undo.Checkers
	p.Blockers = undo.Blockers
	p.Pinners = undo.Pinners
	p.Xrayers = undo.Xrayers
	p.CheckSquares = undo.CheckSquares
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsCastling() {
		// Remove both pieces before placing either, mirroring MakeMove's
		// overlap-safe ordering for Chess960 geometries.
		side := castleSideOf(m)
		rookFrom := p.CastleRookFrom[us][side]
		rookTo := p.CastleRookTo[us][side]
		p.removePiece(to)
		p.removePiece(rookTo)
		p.setPiece(NewPiece(King, us), from)
		p.setPiece(NewPiece(Rook, us), rookFrom)
	} else {
		// Handle promotion first (before moving piece back)
		if m.IsPromotion() {
			promoPt := m.Promotion()
			// Remove promoted piece, restore pawn
			p.Pieces[us][promoPt] &^= SquareBB(to)
			p.Pieces[us][Pawn] |= SquareBB(to)
		}

		// Move piece back
		p.movePiece(to, from)
	}

	// Restore captured piece
	if undo.CapturedPiece != NoPiece {
		if m.IsEnPassant() {
			var capturedSq Square
			if us == White {
				capturedSq = to - 8
			} else {
				capturedSq = to + 8
			}
			p.setPiece(undo.CapturedPiece, capturedSq)
		} else {
			p.setPiece(undo.CapturedPiece, to)
		}
	}
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is a draw (stalemate, 50-move, insufficient material).
func (p *Position) IsDraw() bool {
	if p.IsStalemate() {
		return true
	}
	if p.HalfMoveClock >= 100 {
		return true
	}
	return p.IsInsufficientMaterial()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	// If there are any pawns, rooks, or queens, sufficient material
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	// Count minor pieces
	wKnights := p.Pieces[White][Knight].PopCount()
	wBishops := p.Pieces[White][Bishop].PopCount()
	bKnights := p.Pieces[Black][Knight].PopCount()
	bBishops := p.Pieces[Black][Bishop].PopCount()

	// K vs K
	if wKnights+wBishops+bKnights+bBishops == 0 {
		return true
	}

	// K+minor vs K
	if wKnights+wBishops <= 1 && bKnights+bBishops == 0 {
		return true
	}
	if bKnights+bBishops <= 1 && wKnights+wBishops == 0 {
		return true
	}

	return false
}
