package nnue

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(42)

	path := filepath.Join(t.TempDir(), "test.nnue")
	if err := net.SaveWeights(path); err != nil {
		t.Fatalf("SaveWeights: %v", err)
	}

	loaded, err := LoadNetwork(path)
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}

	if loaded.L1Bias != net.L1Bias {
		t.Fatalf("L1Bias mismatch after round trip")
	}
	if loaded.OutputBias != net.OutputBias {
		t.Fatalf("OutputBias mismatch after round trip")
	}
	for b := 0; b < NumOutputBuckets; b++ {
		if loaded.OutputWeights[b] != net.OutputWeights[b] {
			t.Fatalf("OutputWeights[%d] mismatch after round trip", b)
		}
	}
	// Spot-check a handful of L1 rows rather than all L1InputSize of them.
	for _, i := range []int{0, 1, L1InputSize / 2, L1InputSize - 1} {
		if loaded.L1Weights[i] != net.L1Weights[i] {
			t.Fatalf("L1Weights[%d] mismatch after round trip", i)
		}
	}
}

func TestLoadNetworkRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.nnue")
	if err := os.WriteFile(path, []byte("not an nnue file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadNetwork(path); err == nil {
		t.Fatalf("expected an error loading a file with a bad header")
	}
}
