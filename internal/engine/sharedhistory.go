package engine

import "sync/atomic"

// SharedHistory is a from/to history table shared by every Lazy SMP worker,
// letting one worker's beta cutoffs improve every worker's move ordering.
// Cells are atomic so workers update without locks; a slightly stale read is
// harmless, it only perturbs ordering.
type SharedHistory struct {
	table [64][64]atomic.Int32
}

// NewSharedHistory creates an empty shared history table.
func NewSharedHistory() *SharedHistory {
	return &SharedHistory{}
}

// Get returns the shared history score for a from/to square pair.
func (sh *SharedHistory) Get(from, to int) int {
	return int(sh.table[from][to].Load())
}

// Update adds bonus to a from/to cell, halving the cell when it drifts far
// from zero so one hot square can't saturate the table for the whole game.
func (sh *SharedHistory) Update(from, to, bonus int) {
	v := sh.table[from][to].Add(int32(bonus))
	if v > 1<<20 || v < -(1<<20) {
		sh.table[from][to].Store(v / 2)
	}
}

// Clear zeroes the table, called on "ucinewgame".
func (sh *SharedHistory) Clear() {
	for f := 0; f < 64; f++ {
		for t := 0; t < 64; t++ {
			sh.table[f][t].Store(0)
		}
	}
}
