package engine

import (
	"github.com/kestrelchess/engine/internal/board"
)

// CorrectionHistory adjusts static evaluation toward what search actually
// found, indexed by position hash. Modeled on Stockfish's correction
// history: the static evaluator is systematically wrong in similar ways for
// similar positions, so the error is learned and applied as a correction
// term rather than re-tuned into the evaluator itself.
type CorrectionHistory struct {
	positionCorr [65536]int16
}

// NewCorrectionHistory creates an empty correction history table.
func NewCorrectionHistory() *CorrectionHistory {
	return &CorrectionHistory{}
}

// Get returns the correction to add to a position's static evaluation.
func (ch *CorrectionHistory) Get(pos *board.Position) int {
	return int(ch.positionCorr[pos.Hash&0xFFFF])
}

// Update records the gap between a search result and the static eval that
// produced it, via a gravity update that gradually moves the stored
// correction toward the observed error rather than jumping to it.
func (ch *CorrectionHistory) Update(pos *board.Position, searchScore, staticEval, depth int) {
	if depth < 1 {
		return
	}

	diff := searchScore - staticEval
	bonus := diff * depth / 8
	if bonus > 256 {
		bonus = 256
	} else if bonus < -256 {
		bonus = -256
	}

	idx := pos.Hash & 0xFFFF
	old := int(ch.positionCorr[idx])
	newVal := old + (bonus-old)/16
	if newVal > 16000 {
		newVal = 16000
	} else if newVal < -16000 {
		newVal = -16000
	}
	ch.positionCorr[idx] = int16(newVal)
}

// Clear resets all correction values, called on ucinewgame.
func (ch *CorrectionHistory) Clear() {
	for i := range ch.positionCorr {
		ch.positionCorr[i] = 0
	}
}

// Age halves all correction values between games, keeping stale corrections
// from a previous opponent/position set from dominating forever.
func (ch *CorrectionHistory) Age() {
	for i := range ch.positionCorr {
		ch.positionCorr[i] /= 2
	}
}
