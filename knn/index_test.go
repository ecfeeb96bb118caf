package knn

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/molknn/pkg/errors"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func buildTestIndex(t *testing.T) *FlatIndex {
	t.Helper()
	X := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
	})
	idx := NewFlatIndex()
	if err := idx.Build(X); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return idx
}

func TestFlatIndexBuild(t *testing.T) {
	idx := buildTestIndex(t)
	if idx.Len() != 3 {
		t.Errorf("Len = %d, want 3", idx.Len())
	}
	if idx.Dim() != 2 {
		t.Errorf("Dim = %d, want 2", idx.Dim())
	}
}

// emptyMatrix is a 0x0 mat.Matrix; mat.NewDense rejects zero extents.
type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int)    { return 0, 0 }
func (emptyMatrix) At(i, j int) float64 { return 0 }
func (emptyMatrix) T() mat.Matrix       { return emptyMatrix{} }

func TestFlatIndexBuildEmpty(t *testing.T) {
	idx := NewFlatIndex()
	if err := idx.Build(emptyMatrix{}); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("Build on an empty matrix = %v, want ErrEmptyData", err)
	}
}

func TestFlatIndexSearchNearest(t *testing.T) {
	idx := buildTestIndex(t)

	dists, nn, err := idx.Search(mat.NewDense(1, 2, []float64{1, 0}), 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if nn[0][0] != 0 {
		t.Errorf("nearest row = %d, want 0", nn[0][0])
	}
	if dists.At(0, 0) != 0 {
		t.Errorf("self distance = %v, want 0", dists.At(0, 0))
	}
}

func TestFlatIndexSearchSelfMatch(t *testing.T) {
	// Every stored row is its own nearest neighbor at distance zero.
	idx := buildTestIndex(t)
	Q := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
	})

	dists, nn, err := idx.Search(Q, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if nn[i][0] != i {
			t.Errorf("row %d nearest = %d, want %d", i, nn[i][0], i)
		}
		if dists.At(i, 0) != 0 {
			t.Errorf("row %d self distance = %v, want 0", i, dists.At(i, 0))
		}
	}
}

func TestFlatIndexSearchTieBreak(t *testing.T) {
	// Query [1,1] is at distance 0 from row 2 and at distance 1 from both
	// row 0 and row 1. The tie at distance 1 must resolve to row 0.
	idx := buildTestIndex(t)

	dists, nn, err := idx.Search(mat.NewDense(1, 2, []float64{1, 1}), 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if nn[0][0] != 2 || nn[0][1] != 0 {
		t.Errorf("neighbors = %v, want [2 0]", nn[0])
	}
	if dists.At(0, 0) != 0 || dists.At(0, 1) != 1 {
		t.Errorf("distances = [%v %v], want [0 1]", dists.At(0, 0), dists.At(0, 1))
	}
}

func TestFlatIndexSearchFullTie(t *testing.T) {
	// Both stored rows are equidistant from the query; ascending row index
	// decides the ordering.
	X := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	idx := NewFlatIndex()
	if err := idx.Build(X); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	dists, nn, err := idx.Search(mat.NewDense(1, 2, []float64{1, 1}), 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if nn[0][0] != 0 || nn[0][1] != 1 {
		t.Errorf("neighbors = %v, want [0 1]", nn[0])
	}
	if dists.At(0, 0) != 1 || dists.At(0, 1) != 1 {
		t.Errorf("distances = [%v %v], want [1 1]", dists.At(0, 0), dists.At(0, 1))
	}
}

func TestFlatIndexSearchErrors(t *testing.T) {
	idx := buildTestIndex(t)
	q := mat.NewDense(1, 2, []float64{1, 0})

	// k out of range, both sides.
	var rangeErr *errors.RangeError
	if _, _, err := idx.Search(q, 0); !errors.As(err, &rangeErr) {
		t.Errorf("k=0 error = %v, want RangeError", err)
	}
	if _, _, err := idx.Search(q, 4); !errors.As(err, &rangeErr) {
		t.Errorf("k=4 error = %v, want RangeError", err)
	}

	// Query width mismatch.
	var dimErr *errors.DimensionError
	if _, _, err := idx.Search(mat.NewDense(1, 3, []float64{1, 0, 0}), 1); !errors.As(err, &dimErr) {
		t.Errorf("width mismatch error = %v, want DimensionError", err)
	}

	// Search before Build.
	if _, _, err := NewFlatIndex().Search(q, 1); !errors.Is(err, errors.ErrEmptyIndex) {
		t.Errorf("unbuilt index error = %v, want ErrEmptyIndex", err)
	}
}

func TestFlatIndexPersistRoundTrip(t *testing.T) {
	idx := buildTestIndex(t)
	path := filepath.Join(t.TempDir(), "model.idx")

	if err := idx.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := LoadIndex(path)
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}
	if loaded.Len() != idx.Len() || loaded.Dim() != idx.Dim() {
		t.Fatalf("loaded shape = (%d, %d), want (%d, %d)",
			loaded.Len(), loaded.Dim(), idx.Len(), idx.Dim())
	}

	// Identical inputs must give identical search results after a round trip.
	Q := mat.NewDense(2, 2, []float64{
		1, 1,
		0, 0,
	})
	wantDists, wantNN, err := idx.Search(Q, 3)
	if err != nil {
		t.Fatal(err)
	}
	gotDists, gotNN, err := loaded.Search(Q, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		for n := 0; n < 3; n++ {
			if gotNN[i][n] != wantNN[i][n] {
				t.Errorf("row %d neighbor %d = %d, want %d", i, n, gotNN[i][n], wantNN[i][n])
			}
			if gotDists.At(i, n) != wantDists.At(i, n) {
				t.Errorf("row %d distance %d = %v, want %v", i, n, gotDists.At(i, n), wantDists.At(i, n))
			}
		}
	}
}

func TestLoadIndexErrors(t *testing.T) {
	dir := t.TempDir()

	var notFound *errors.NotFoundError
	if _, err := LoadIndex(filepath.Join(dir, "missing.idx")); !errors.As(err, &notFound) {
		t.Errorf("missing file error = %v, want NotFoundError", err)
	}

	// A targets artifact is not an index artifact.
	bogus := filepath.Join(dir, "bogus.idx")
	if err := writeFile(bogus, []byte("gob data, not an index")); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIndex(bogus); !errors.As(err, &notFound) {
		t.Errorf("bad magic error = %v, want NotFoundError", err)
	}

	// Truncated payload.
	short := filepath.Join(dir, "short.idx")
	if err := writeFile(short, []byte("MKN1")); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIndex(short); !errors.As(err, &notFound) {
		t.Errorf("truncated file error = %v, want NotFoundError", err)
	}
}
