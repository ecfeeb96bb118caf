package knn

import (
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/molknn/core/model"
	"github.com/YuminosukeSato/molknn/pkg/errors"
)

// KNNRegressor predicts multi-target continuous values by averaging the
// targets of the k nearest training rows in feature space. This is the
// sole prediction rule: no distance weighting, no variance estimate.
//
// Fit stores the data wholesale; there is no fitting in the statistical
// sense and no incremental update. The persisted form is a pair of
// artifacts, an index file and a targets file, that are only valid
// together.
type KNNRegressor struct {
	model.BaseEstimator
	K       int
	index   *FlatIndex
	targets *mat.Dense
}

// TargetsArtifact is the serialized form of the training target matrix,
// row-aligned 1:1 with the stored index vectors.
type TargetsArtifact struct {
	Rows int
	Cols int
	Data []float64
}

// NewKNNRegressor creates a regressor that averages over k neighbors.
func NewKNNRegressor(k int) *KNNRegressor {
	return &KNNRegressor{K: k}
}

// Fit indexes the training features and stores a copy of the row-aligned
// target matrix. X and y must have the same row count.
func (r *KNNRegressor) Fit(X, y mat.Matrix) error {
	xr, xc := X.Dims()
	yr, yc := y.Dims()

	if xr == 0 || xc == 0 || yc == 0 {
		return errors.NewModelError("KNNRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if yr != xr {
		return errors.NewShapeError("KNNRegressor.Fit", "features/targets", xr, yr)
	}
	if r.K < 1 || r.K > xr {
		return errors.NewRangeError("KNNRegressor.Fit", "k", r.K, 1, xr)
	}

	idx := NewFlatIndex()
	if err := idx.Build(X); err != nil {
		return err
	}

	targets := mat.NewDense(yr, yc, nil)
	targets.Copy(y)

	r.index = idx
	r.targets = targets
	r.SetFitted()
	return nil
}

// Predict returns the per-column arithmetic mean of the K nearest training
// targets for each query row. Output row order matches query row order and
// the column count equals the training target column count.
func (r *KNNRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("KNNRegressor", "Predict")
	}

	_, neighbors, err := r.index.Search(X, r.K)
	if err != nil {
		return nil, err
	}

	qr, _ := X.Dims()
	_, tc := r.targets.Dims()
	preds := mat.NewDense(qr, tc, nil)

	invK := 1.0 / float64(r.K)
	for i, nn := range neighbors {
		for _, j := range nn {
			for c := 0; c < tc; c++ {
				preds.Set(i, c, preds.At(i, c)+r.targets.At(j, c))
			}
		}
		for c := 0; c < tc; c++ {
			preds.Set(i, c, preds.At(i, c)*invK)
		}
	}
	return preds, nil
}

// KNeighbors returns the squared distances and row indices of the k
// nearest training rows for each query row.
func (r *KNNRegressor) KNeighbors(X mat.Matrix, k int) (*mat.Dense, [][]int, error) {
	if !r.IsFitted() {
		return nil, nil, errors.NewNotFittedError("KNNRegressor", "KNeighbors")
	}
	return r.index.Search(X, k)
}

// NumSamples returns the number of indexed training rows.
func (r *KNNRegressor) NumSamples() int {
	if r.index == nil {
		return 0
	}
	return r.index.Len()
}

// NumFeatures returns the indexed feature width.
func (r *KNNRegressor) NumFeatures() int {
	if r.index == nil {
		return 0
	}
	return r.index.Dim()
}

// NumTargets returns the target column count.
func (r *KNNRegressor) NumTargets() int {
	if r.targets == nil {
		return 0
	}
	_, c := r.targets.Dims()
	return c
}

// Save persists the model as its two paired artifacts. Neither file is
// valid without the other.
func (r *KNNRegressor) Save(indexPath, targetsPath string) error {
	if !r.IsFitted() {
		return errors.NewNotFittedError("KNNRegressor", "Save")
	}

	if err := r.index.Save(indexPath); err != nil {
		return err
	}

	tr, tc := r.targets.Dims()
	artifact := TargetsArtifact{Rows: tr, Cols: tc, Data: r.targets.RawMatrix().Data}
	if err := model.SaveArtifact(&artifact, targetsPath); err != nil {
		return errors.NewModelError("KNNRegressor.Save", "cannot write targets artifact", err)
	}
	return nil
}

// Load restores a model from its two paired artifacts. It fails with a
// NotFoundError if either file is absent or if their row counts disagree,
// since a mismatched pair would silently mispredict.
func (r *KNNRegressor) Load(indexPath, targetsPath string) error {
	if _, err := os.Stat(targetsPath); err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("targets", targetsPath, "")
		}
		return errors.NewModelError("KNNRegressor.Load", "cannot stat targets artifact", err)
	}

	idx, err := LoadIndex(indexPath)
	if err != nil {
		return err
	}

	var artifact TargetsArtifact
	if err := model.LoadArtifact(&artifact, targetsPath); err != nil {
		return errors.NewModelError("KNNRegressor.Load", "cannot read targets artifact", err)
	}
	if artifact.Rows <= 0 || artifact.Cols <= 0 || len(artifact.Data) != artifact.Rows*artifact.Cols {
		return errors.NewNotFoundError("targets", targetsPath, "corrupt targets artifact")
	}
	if artifact.Rows != idx.Len() {
		return errors.NewNotFoundError("targets", targetsPath,
			"targets row count "+strconv.Itoa(artifact.Rows)+" does not match index row count "+strconv.Itoa(idx.Len()))
	}
	if r.K < 1 || r.K > idx.Len() {
		return errors.NewRangeError("KNNRegressor.Load", "k", r.K, 1, idx.Len())
	}

	r.index = idx
	r.targets = mat.NewDense(artifact.Rows, artifact.Cols, artifact.Data)
	r.SetFitted()
	return nil
}
