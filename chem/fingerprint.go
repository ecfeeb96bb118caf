package chem

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/molknn/core/parallel"
	"github.com/YuminosukeSato/molknn/pkg/errors"
)

// Default Morgan fingerprint parameters.
const (
	DefaultRadius = 2
	DefaultNBits  = 2048
)

// Rows below this threshold are fingerprinted sequentially.
const batchParallelThreshold = 64

// Generator computes Morgan-type circular fingerprints of a fixed radius
// and bit width. The computation is deterministic: the same SMILES with the
// same parameters always yields the same bit vector. A Generator holds no
// mutable state and is safe for concurrent use.
type Generator struct {
	Radius int
	NBits  int
}

// NewGenerator returns a Generator with the default parameters
// (radius 2, 2048 bits).
func NewGenerator() *Generator {
	return &Generator{Radius: DefaultRadius, NBits: DefaultNBits}
}

// NewGeneratorWith returns a Generator with explicit parameters.
// Non-positive values fall back to the defaults.
func NewGeneratorWith(radius, nBits int) *Generator {
	if radius < 0 {
		radius = DefaultRadius
	}
	if nBits <= 0 {
		nBits = DefaultNBits
	}
	return &Generator{Radius: radius, NBits: nBits}
}

// Fingerprint computes the fingerprint of a single SMILES string as a 0/1
// vector of length NBits. If the SMILES does not parse it returns an
// all-zero vector and ok=false instead of an error; this is the defined
// fallback policy, and batch callers surface a count of such rows.
func (g *Generator) Fingerprint(smiles string) (vec []float64, ok bool) {
	vec = make([]float64, g.NBits)
	mol, err := ParseSMILES(smiles)
	if err != nil {
		return vec, false
	}

	n := mol.NumAtoms()
	nBits := uint64(g.NBits)

	// Initial invariant per atom: element, aromaticity and degree.
	inv := make([]uint64, n)
	for i, a := range mol.Atoms {
		inv[i] = hashAtom(a.Symbol, a.Aromatic, mol.Degree(i))
		vec[inv[i]%nBits] = 1
	}

	// Iteratively fold sorted neighbor invariants into each atom, widening
	// the environment by one bond per round.
	next := make([]uint64, n)
	neigh := make([]uint64, 0, 8)
	for r := 1; r <= g.Radius; r++ {
		for i := 0; i < n; i++ {
			neigh = neigh[:0]
			for _, j := range mol.Bonds[i] {
				neigh = append(neigh, inv[j])
			}
			sort.Slice(neigh, func(a, b int) bool { return neigh[a] < neigh[b] })
			next[i] = hashEnvironment(r, inv[i], neigh)
			vec[next[i]%nBits] = 1
		}
		inv, next = next, inv
	}
	return vec, true
}

// FingerprintBatch fingerprints descriptors in input order, one row per
// descriptor. Rows are independent, so the work is parallelized over
// chunks. The second return value counts rows that failed to parse and
// received the zero-vector fallback; each such row is also reported through
// the errors.Warn handler.
func (g *Generator) FingerprintBatch(smiles []string) (*mat.Dense, int) {
	if len(smiles) == 0 {
		return nil, 0
	}

	data := make([]float64, len(smiles)*g.NBits)
	var fallbacks int64

	parallel.ParallelizeWithThreshold(len(smiles), batchParallelThreshold, func(start, end int) {
		for row := start; row < end; row++ {
			vec, ok := g.Fingerprint(smiles[row])
			copy(data[row*g.NBits:(row+1)*g.NBits], vec)
			if !ok {
				atomic.AddInt64(&fallbacks, 1)
				errors.Warn(errors.NewParseFallbackWarning(smiles[row], row))
			}
		}
	})

	return mat.NewDense(len(smiles), g.NBits, data), int(fallbacks)
}

// Tanimoto computes the Tanimoto (Jaccard) similarity of two 0/1
// fingerprint vectors. Two vectors with an empty union have similarity 0.
func Tanimoto(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewDimensionError("chem.Tanimoto", len(a), len(b), 1)
	}
	if len(a) == 0 {
		return 0, errors.NewValueError("chem.Tanimoto", "empty fingerprint")
	}
	intersection, union := 0, 0
	for i := range a {
		sa, sb := a[i] != 0, b[i] != 0
		if sa && sb {
			intersection++
		}
		if sa || sb {
			union++
		}
	}
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

func hashAtom(symbol string, aromatic bool, degree int) uint64 {
	buf := make([]byte, 0, len(symbol)+6)
	buf = append(buf, symbol...)
	if aromatic {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, byte(degree))
	return hash64(buf)
}

func hashEnvironment(radius int, center uint64, neighbors []uint64) uint64 {
	buf := make([]byte, 0, 16+8*len(neighbors))
	buf = binary.BigEndian.AppendUint64(buf, uint64(radius))
	buf = binary.BigEndian.AppendUint64(buf, center)
	for _, n := range neighbors {
		buf = binary.BigEndian.AppendUint64(buf, n)
	}
	return hash64(buf)
}

func hash64(data []byte) uint64 {
	sum := sha256.Sum256(data)
	return binary.BigEndian.Uint64(sum[:8])
}
