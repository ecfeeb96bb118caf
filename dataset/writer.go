package dataset

import (
	"encoding/csv"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/molknn/pkg/errors"
)

// WritePredictions writes the result table for an inference run: the
// original descriptor column first, then one column per target named by its
// zero-based index ("0", "1", ...). Row order matches the input order.
func WritePredictions(path string, smiles []string, preds mat.Matrix) error {
	rows, cols := preds.Dims()
	if rows != len(smiles) {
		return errors.NewShapeError("dataset.WritePredictions", "smiles/predictions", len(smiles), rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewLoadError(path, "cannot create output file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := make([]string, cols+1)
	header[0] = DescriptorColumn
	for j := 0; j < cols; j++ {
		header[j+1] = strconv.Itoa(j)
	}
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "dataset.WritePredictions: write header")
	}

	record := make([]string, cols+1)
	for i := 0; i < rows; i++ {
		record[0] = smiles[i]
		for j := 0; j < cols; j++ {
			record[j+1] = strconv.FormatFloat(preds.At(i, j), 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "dataset.WritePredictions: write row")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "dataset.WritePredictions: flush")
	}
	return f.Sync()
}
