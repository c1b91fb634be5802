package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Weight file format: a small fixed header followed by the layers in
// declaration order, all little-endian.
const (
	MagicNumber   = 0x4B52434E // "NCRK"
	FormatVersion = 2
)

// FileHeader is the fixed-size header at the start of a weights file.
type FileHeader struct {
	Magic           uint32
	Version         uint32
	L1Size          uint32
	NumKingBuckets  uint32
	NumOutputBuckets uint32
}

// LoadNetwork reads a network from a weights file on disk.
func LoadNetwork(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nnue weights: %w", err)
	}
	defer f.Close()

	net := NewNetwork()
	if err := net.loadFrom(f); err != nil {
		return nil, fmt.Errorf("load nnue weights %s: %w", path, err)
	}
	return net, nil
}

func (n *Network) loadFrom(r io.Reader) error {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if header.Magic != MagicNumber {
		return fmt.Errorf("bad magic: want %x got %x", MagicNumber, header.Magic)
	}
	if header.Version != FormatVersion {
		return fmt.Errorf("unsupported version %d", header.Version)
	}
	if header.L1Size != L1Size || header.NumKingBuckets != NumKingBuckets || header.NumOutputBuckets != NumOutputBuckets {
		return fmt.Errorf("layer size mismatch: file has L1=%d kingBuckets=%d outputBuckets=%d, network wants L1=%d kingBuckets=%d outputBuckets=%d",
			header.L1Size, header.NumKingBuckets, header.NumOutputBuckets, L1Size, NumKingBuckets, NumOutputBuckets)
	}

	for i := 0; i < L1InputSize; i++ {
		if err := binary.Read(r, binary.LittleEndian, &n.L1Weights[i]); err != nil {
			return fmt.Errorf("read L1 weights row %d: %w", i, err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.L1Bias); err != nil {
		return fmt.Errorf("read L1 bias: %w", err)
	}
	// Output weights are stored column-major (one row per input lane, one
	// column per bucket) and transposed into the bucket-major layout Forward
	// wants, matching how Stockfish-style exporters lay out bucketed output
	// layers on disk.
	var column [NumOutputBuckets]int16
	for i := 0; i < L1Size*2; i++ {
		if err := binary.Read(r, binary.LittleEndian, &column); err != nil {
			return fmt.Errorf("read output weights column %d: %w", i, err)
		}
		for b := 0; b < NumOutputBuckets; b++ {
			n.OutputWeights[b][i] = column[b]
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("read output bias: %w", err)
	}
	return nil
}

// SaveWeights writes the network to path in LoadNetwork's format.
func (n *Network) SaveWeights(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create nnue weights: %w", err)
	}
	defer f.Close()

	header := FileHeader{
		Magic:            MagicNumber,
		Version:          FormatVersion,
		L1Size:           L1Size,
		NumKingBuckets:   NumKingBuckets,
		NumOutputBuckets: NumOutputBuckets,
	}
	if err := binary.Write(f, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < L1InputSize; i++ {
		if err := binary.Write(f, binary.LittleEndian, &n.L1Weights[i]); err != nil {
			return fmt.Errorf("write L1 weights row %d: %w", i, err)
		}
	}
	if err := binary.Write(f, binary.LittleEndian, &n.L1Bias); err != nil {
		return fmt.Errorf("write L1 bias: %w", err)
	}
	var column [NumOutputBuckets]int16
	for i := 0; i < L1Size*2; i++ {
		for b := 0; b < NumOutputBuckets; b++ {
			column[b] = n.OutputWeights[b][i]
		}
		if err := binary.Write(f, binary.LittleEndian, &column); err != nil {
			return fmt.Errorf("write output weights column %d: %w", i, err)
		}
	}
	if err := binary.Write(f, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("write output bias: %w", err)
	}
	return nil
}
