package nnue

import "github.com/kestrelchess/engine/internal/board"

// Network holds the quantized weights for every layer.
type Network struct {
	L1Weights [L1InputSize][L1Size]int16
	L1Bias    [L1Size]int16

	// OutputWeights/OutputBias are selected by OutputBucket, which tracks
	// game phase from remaining piece count. Each bucket's weight row covers
	// both perspectives' squared-clipped activations concatenated together.
	OutputWeights [NumOutputBuckets][L1Size * 2]int16
	OutputBias    [NumOutputBuckets]int32
}

// NewNetwork returns a network with zero weights; call LoadNetwork or
// InitRandom before using it for evaluation.
func NewNetwork() *Network {
	return &Network{}
}

// OutputBucket maps the total piece count on the board to one of
// NumOutputBuckets phase buckets.
func OutputBucket(pieceCount int) int {
	bucket := (pieceCount - 2) / ((32 - 2) / NumOutputBuckets)
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= NumOutputBuckets {
		bucket = NumOutputBuckets - 1
	}
	return bucket
}

// squaredClippedReLU clamps x to [0, QA] and squares it, the activation used
// in place of a second linear layer: it lets the single output layer act
// like a degree-2 polynomial of the accumulator instead of a plain ReLU.
func squaredClippedReLU(x int16) int64 {
	v := int64(x)
	if v < 0 {
		v = 0
	}
	if v > QA {
		v = QA
	}
	return v * v
}

// Forward evaluates an already-filled accumulator and returns a centipawn
// score from the side to move's perspective. pieceCount is the total number
// of pieces on the board (both colors), used to pick the output bucket.
func (n *Network) Forward(acc *Accumulator, sideToMove board.Color, pieceCount int) int {
	stmAcc, nstmAcc := &acc.White, &acc.Black
	if sideToMove == board.Black {
		stmAcc, nstmAcc = &acc.Black, &acc.White
	}

	bucket := OutputBucket(pieceCount)
	weights := &n.OutputWeights[bucket]

	var sum int64
	for i := 0; i < L1Size; i++ {
		sum += squaredClippedReLU(stmAcc[i]) * int64(weights[i])
		sum += squaredClippedReLU(nstmAcc[i]) * int64(weights[L1Size+i])
	}
	sum /= QA

	out := (sum + int64(n.OutputBias[bucket])) * OutputScale / (QA * QB)
	return int(out)
}

// InitRandom fills the network with small reproducible pseudo-random
// weights, for tests and for running without a trained weights file.
func (n *Network) InitRandom(seed int64) {
	state := uint64(seed)
	next := func() int16 {
		state = state*6364136223846793005 + 1442695040888963407
		return int16((state>>48)&0xFF) - 128
	}

	for i := 0; i < L1InputSize; i++ {
		for j := 0; j < L1Size; j++ {
			n.L1Weights[i][j] = next() >> 5
		}
	}
	for i := 0; i < L1Size; i++ {
		n.L1Bias[i] = next() >> 3
	}

	for b := 0; b < NumOutputBuckets; b++ {
		for i := 0; i < L1Size*2; i++ {
			n.OutputWeights[b][i] = next() >> 6
		}
		n.OutputBias[b] = int32(next()) * 100
	}
}
