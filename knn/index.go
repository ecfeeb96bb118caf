// Package knn implements an exact nearest-neighbor index over 32-bit float
// vectors and a k-nearest-neighbor regressor built on top of it.
//
// The index performs an exhaustive squared-Euclidean scan rather than
// approximate search, so results are reproducible bit for bit given the
// same inputs. Distance ties are broken by the lowest training row index;
// this is a documented, stable rule rather than incidental insertion-order
// behavior.
package knn

import (
	"sort"

	"github.com/viterin/vek/vek32"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/molknn/core/parallel"
	"github.com/YuminosukeSato/molknn/pkg/errors"
)

// Query batches below this threshold are scanned sequentially.
const searchParallelThreshold = 8

// FlatIndex is an exact-search structure over training feature vectors.
// Vectors are stored as float32 with precomputed squared norms, so a scan
// needs one dot product per stored row. The index is read-only after Build.
type FlatIndex struct {
	dim   int
	vecs  [][]float32
	norms []float32
}

// NewFlatIndex returns an empty index. Dimensionality is fixed by the first
// Build call.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{}
}

// Len returns the number of stored vectors.
func (idx *FlatIndex) Len() int {
	return len(idx.vecs)
}

// Dim returns the stored vector width, 0 before Build.
func (idx *FlatIndex) Dim() int {
	return idx.dim
}

// Build stores a copy of the feature matrix, one float32 vector per row.
// Row order is preserved; row i of X becomes index entry i.
func (idx *FlatIndex) Build(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("FlatIndex.Build", "empty data", errors.ErrEmptyData)
	}

	vecs := make([][]float32, r)
	norms := make([]float32, r)
	for i := 0; i < r; i++ {
		v := make([]float32, c)
		for j := 0; j < c; j++ {
			v[j] = float32(X.At(i, j))
		}
		vecs[i] = v
		norms[i] = vek32.Dot(v, v)
	}

	idx.dim = c
	idx.vecs = vecs
	idx.norms = norms
	return nil
}

// Search returns, for each query row, the k nearest stored rows by
// ascending squared Euclidean distance, ties broken by the lowest stored
// row index. The returned distance matrix is (queries x k) and the index
// lists are row-aligned with it.
//
// k must satisfy 1 <= k <= Len(); a mismatched query width fails with a
// DimensionError.
func (idx *FlatIndex) Search(Q mat.Matrix, k int) (*mat.Dense, [][]int, error) {
	if idx.Len() == 0 {
		return nil, nil, errors.NewModelError("FlatIndex.Search", "index not built", errors.ErrEmptyIndex)
	}
	if k < 1 || k > idx.Len() {
		return nil, nil, errors.NewRangeError("FlatIndex.Search", "k", k, 1, idx.Len())
	}
	qr, qc := Q.Dims()
	if qc != idx.dim {
		return nil, nil, errors.NewDimensionError("FlatIndex.Search", idx.dim, qc, 1)
	}
	if qr == 0 {
		return nil, nil, errors.NewModelError("FlatIndex.Search", "empty query", errors.ErrEmptyData)
	}

	dists := mat.NewDense(qr, k, nil)
	neighbors := make([][]int, qr)

	parallel.ParallelizeWithThreshold(qr, searchParallelThreshold, func(start, end int) {
		q := make([]float32, idx.dim)
		cands := make([]candidate, idx.Len())
		for row := start; row < end; row++ {
			for j := 0; j < idx.dim; j++ {
				q[j] = float32(Q.At(row, j))
			}
			idx.scan(q, cands)

			sort.Slice(cands, func(a, b int) bool {
				if cands[a].dist != cands[b].dist {
					return cands[a].dist < cands[b].dist
				}
				return cands[a].row < cands[b].row
			})

			nn := make([]int, k)
			for n := 0; n < k; n++ {
				nn[n] = cands[n].row
				dists.Set(row, n, float64(cands[n].dist))
			}
			neighbors[row] = nn
		}
	})

	return dists, neighbors, nil
}

type candidate struct {
	dist float32
	row  int
}

// scan fills cands with the squared distance from q to every stored row,
// using ||q-v||^2 = ||q||^2 + ||v||^2 - 2*q.v with the precomputed norms.
func (idx *FlatIndex) scan(q []float32, cands []candidate) {
	qq := vek32.Dot(q, q)
	for j, v := range idx.vecs {
		d := qq + idx.norms[j] - 2*vek32.Dot(q, v)
		if d < 0 {
			// Rounding can push an exact-match distance slightly negative.
			d = 0
		}
		cands[j] = candidate{dist: d, row: j}
	}
}
