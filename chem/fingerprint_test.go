package chem

import (
	"math"
	"testing"
)

func isBitVector(vec []float64) bool {
	for _, v := range vec {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

func countBits(vec []float64) int {
	n := 0
	for _, v := range vec {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestFingerprintBasics(t *testing.T) {
	gen := NewGenerator()

	vec, ok := gen.Fingerprint("CCO")
	if !ok {
		t.Fatal("CCO should parse")
	}
	if len(vec) != DefaultNBits {
		t.Errorf("fingerprint length = %d, want %d", len(vec), DefaultNBits)
	}
	if !isBitVector(vec) {
		t.Error("fingerprint must contain only 0 and 1")
	}
	if countBits(vec) == 0 {
		t.Error("fingerprint of a valid molecule should set at least one bit")
	}
}

func TestFingerprintDeterminism(t *testing.T) {
	gen := NewGenerator()

	a, okA := gen.Fingerprint("CC(=O)Nc1ccccc1")
	b, okB := gen.Fingerprint("CC(=O)Nc1ccccc1")
	if !okA || !okB {
		t.Fatal("molecule should parse")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("fingerprints differ at bit %d", i)
		}
	}
}

func TestFingerprintDistinguishesMolecules(t *testing.T) {
	gen := NewGenerator()

	a, _ := gen.Fingerprint("CCO")
	b, _ := gen.Fingerprint("c1ccccc1")
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("ethanol and benzene should not share a fingerprint")
	}
}

func TestFingerprintParseFallback(t *testing.T) {
	gen := NewGenerator()

	vec, ok := gen.Fingerprint("((not-a-molecule")
	if ok {
		t.Fatal("invalid SMILES must report ok=false")
	}
	if len(vec) != DefaultNBits {
		t.Errorf("fallback length = %d, want %d", len(vec), DefaultNBits)
	}
	if countBits(vec) != 0 {
		t.Error("fallback fingerprint must be all zero")
	}
}

func TestFingerprintCustomParameters(t *testing.T) {
	gen := NewGeneratorWith(1, 128)

	vec, ok := gen.Fingerprint("CCO")
	if !ok {
		t.Fatal("CCO should parse")
	}
	if len(vec) != 128 {
		t.Errorf("fingerprint length = %d, want 128", len(vec))
	}

	// Non-positive parameters fall back to the defaults.
	def := NewGeneratorWith(-1, 0)
	if def.Radius != DefaultRadius || def.NBits != DefaultNBits {
		t.Errorf("NewGeneratorWith(-1, 0) = {%d %d}, want defaults {%d %d}",
			def.Radius, def.NBits, DefaultRadius, DefaultNBits)
	}
}

func TestFingerprintBatch(t *testing.T) {
	gen := NewGenerator()
	smiles := []string{"CCO", "this is not smiles", "c1ccccc1", "(("}

	X, fallbacks := gen.FingerprintBatch(smiles)
	if X == nil {
		t.Fatal("batch over non-empty input returned nil")
	}
	rows, cols := X.Dims()
	if rows != len(smiles) || cols != DefaultNBits {
		t.Fatalf("batch dims = (%d, %d), want (%d, %d)", rows, cols, len(smiles), DefaultNBits)
	}
	if fallbacks != 2 {
		t.Errorf("fallbacks = %d, want 2", fallbacks)
	}

	// Row order matches input order and each row equals its single-call
	// fingerprint.
	for i, smi := range smiles {
		want, _ := gen.Fingerprint(smi)
		for j := 0; j < cols; j++ {
			if X.At(i, j) != want[j] {
				t.Fatalf("row %d (%q) differs from single fingerprint at bit %d", i, smi, j)
			}
		}
	}

	// Fallback rows are all zero.
	if countBits(X.RawRowView(1)) != 0 {
		t.Error("fallback row 1 should be all zero")
	}
	if countBits(X.RawRowView(3)) != 0 {
		t.Error("fallback row 3 should be all zero")
	}
}

func TestFingerprintBatchEmpty(t *testing.T) {
	gen := NewGenerator()
	X, fallbacks := gen.FingerprintBatch(nil)
	if X != nil || fallbacks != 0 {
		t.Errorf("empty batch = (%v, %d), want (nil, 0)", X, fallbacks)
	}
}

func TestFingerprintBatchParallel(t *testing.T) {
	// Enough rows to cross the parallel threshold; results must still be
	// in input order and identical to the sequential path.
	gen := NewGenerator()
	base := []string{"CCO", "c1ccccc1", "CC(=O)O", "C1CCCCC1", "CCN(CC)CC"}
	smiles := make([]string, 0, batchParallelThreshold*2)
	for len(smiles) < batchParallelThreshold*2 {
		smiles = append(smiles, base[len(smiles)%len(base)])
	}

	X, fallbacks := gen.FingerprintBatch(smiles)
	if fallbacks != 0 {
		t.Fatalf("fallbacks = %d, want 0", fallbacks)
	}
	for i, smi := range smiles {
		want, _ := gen.Fingerprint(smi)
		for j := range want {
			if X.At(i, j) != want[j] {
				t.Fatalf("parallel row %d (%q) differs at bit %d", i, smi, j)
			}
		}
	}
}

func TestTanimoto(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{
			name: "identical",
			a:    []float64{1, 0, 1, 1},
			b:    []float64{1, 0, 1, 1},
			want: 1.0,
		},
		{
			name: "disjoint",
			a:    []float64{1, 1, 0, 0},
			b:    []float64{0, 0, 1, 1},
			want: 0.0,
		},
		{
			name: "partial overlap",
			a:    []float64{1, 1, 0, 0},
			b:    []float64{1, 0, 1, 0},
			want: 1.0 / 3.0,
		},
		{
			name: "both empty sets",
			a:    []float64{0, 0, 0},
			b:    []float64{0, 0, 0},
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tanimoto(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Tanimoto returned error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Tanimoto = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTanimotoErrors(t *testing.T) {
	if _, err := Tanimoto([]float64{1, 0}, []float64{1, 0, 1}); err == nil {
		t.Error("length mismatch should return an error")
	}
	if _, err := Tanimoto(nil, nil); err == nil {
		t.Error("empty fingerprints should return an error")
	}
}

func TestTanimotoSelfSimilarity(t *testing.T) {
	gen := NewGenerator()
	fp, ok := gen.Fingerprint("c1ccccc1O")
	if !ok {
		t.Fatal("phenol should parse")
	}
	sim, err := Tanimoto(fp, fp)
	if err != nil {
		t.Fatal(err)
	}
	if sim != 1.0 {
		t.Errorf("self similarity = %v, want 1", sim)
	}
}
