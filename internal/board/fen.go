package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position. Castling rights given
// as file letters (Shredder-FEN, e.g. "HAha") are treated as Chess960 and
// the rook's actual file is read back off the board rather than assumed to
// be a corner.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("invalid FEN: need at least 4 fields, got %d", len(parts))
	}

	pos := &Position{FullMoveNumber: 1}
	pos.EnPassant = NoSquare
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	var rookFiles [2][2]int
	rookFiles[White][kingSideIdx], rookFiles[White][queenSideIdx] = -1, -1
	rookFiles[Black][kingSideIdx], rookFiles[Black][queenSideIdx] = -1, -1
	if err := parseCastlingRights(pos, parts[2], &rookFiles); err != nil {
		return nil, err
	}
	setupCastlingTables(pos, rookFiles)

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %s", parts[3])
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.updateOccupied()
	pos.findKings()

	// Keep the en passant square only when a pawn of the side to move can
	// actually capture there; the hash covers capturable en passant only.
	if pos.EnPassant != NoSquare {
		stm := pos.SideToMove
		if pawnAttacks[stm.Other()][pos.EnPassant]&pos.Pieces[stm][Pawn] == 0 {
			pos.EnPassant = NoSquare
		}
	}

	pos.Hash = pos.ComputeHash()
	pos.PawnKey = pos.ComputePawnKey()
	pos.UpdateCheckers()

	return pos, nil
}

func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				sq := NewSquare(file, rank)
				pos.setPiece(piece, sq)
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights field. KQkq letters are the
// standard notation; any other letter is a Shredder-FEN file letter (upper
// for White, lower for Black) naming the rook's starting file, which marks
// the game as Chess960.
func parseCastlingRights(pos *Position, castling string, rookFiles *[2][2]int) error {
	if castling == "-" {
		return nil
	}

	for _, ch := range castling {
		switch {
		case ch == 'K':
			pos.CastlingRights |= WhiteKingSideCastle
		case ch == 'Q':
			pos.CastlingRights |= WhiteQueenSideCastle
		case ch == 'k':
			pos.CastlingRights |= BlackKingSideCastle
		case ch == 'q':
			pos.CastlingRights |= BlackQueenSideCastle
		case ch >= 'A' && ch <= 'H':
			pos.Chess960 = true
			recordShredderRight(pos, White, int(ch-'A'), rookFiles)
		case ch >= 'a' && ch <= 'h':
			pos.Chess960 = true
			recordShredderRight(pos, Black, int(ch-'a'), rookFiles)
		default:
			return fmt.Errorf("invalid castling character: %c", ch)
		}
	}

	return nil
}

func recordShredderRight(pos *Position, c Color, file int, rookFiles *[2][2]int) {
	kingFile := pos.KingSquare[c].File()
	idx := queenSideIdx
	kingSide := file > kingFile
	if kingSide {
		idx = kingSideIdx
	}
	rookFiles[c][idx] = file
	pos.CastlingRights |= rightFor(c, kingSide)
}

func hasRightIdx(cr CastlingRights, c Color, idx int) bool {
	return cr&rightFor(c, idx == kingSideIdx) != 0
}

// squaresOnRank returns the bitboard of squares on rank with file in
// [min(f1,f2), max(f1,f2)], inclusive.
func squaresOnRank(rank, f1, f2 int) Bitboard {
	if f1 > f2 {
		f1, f2 = f2, f1
	}
	var bb Bitboard
	for f := f1; f <= f2; f++ {
		bb |= SquareBB(NewSquare(f, rank))
	}
	return bb
}

// setupCastlingTables computes the per-game castling geometry from the
// parsed rights and the actual king/rook squares on the board, so standard
// chess is just the Chess960 geometry specialized to corner rooks.
func setupCastlingTables(pos *Position, rookFiles [2][2]int) {
	for _, c := range [2]Color{White, Black} {
		kingSq := pos.KingSquare[c]
		if kingSq == NoSquare {
			continue
		}
		rank := 0
		if c == Black {
			rank = 7
		}

		for _, idx := range [2]int{kingSideIdx, queenSideIdx} {
			if !hasRightIdx(pos.CastlingRights, c, idx) {
				continue
			}

			rookFile := rookFiles[c][idx]
			if rookFile < 0 {
				if idx == kingSideIdx {
					rookFile = 7
				} else {
					rookFile = 0
				}
			}

			var kingToFile, rookToFile int
			if idx == kingSideIdx {
				kingToFile, rookToFile = 6, 5
			} else {
				kingToFile, rookToFile = 2, 3
			}

			rookFrom := NewSquare(rookFile, rank)
			kingTo := NewSquare(kingToFile, rank)
			rookTo := NewSquare(rookToFile, rank)

			pos.CastleRookFrom[c][idx] = rookFrom
			pos.CastleKingTo[c][idx] = kingTo
			pos.CastleRookTo[c][idx] = rookTo

			right := rightFor(c, idx == kingSideIdx)
			pos.castleRightsMask[kingSq] |= right
			pos.castleRightsMask[rookFrom] |= right

			path := squaresOnRank(rank, kingSq.File(), kingToFile) | squaresOnRank(rank, rookFile, rookToFile)
			path &^= SquareBB(kingSq)
			path &^= SquareBB(rookFrom)
			pos.CastlePath[c][idx] = path

			pos.CastleKingPath[c][idx] = squaresOnRank(rank, kingSq.File(), kingToFile)
		}
	}
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteString(piece.String())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

// ComputeHash computes the Zobrist hash for the position from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				hash ^= zobristPiece[c][pt][sq]
			}
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.CastlingRights]

	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}

// ComputePawnKey computes the pawn hash key from scratch.
func (p *Position) ComputePawnKey() uint64 {
	var key uint64

	for c := White; c <= Black; c++ {
		bb := p.Pieces[c][Pawn]
		for bb != 0 {
			sq := bb.PopLSB()
			key ^= zobristPiece[c][Pawn][sq]
		}
	}

	return key
}
