// Package dataset reads and writes the tabular CSV files used by the
// prediction pipeline: a "smiles" descriptor column followed by zero or
// more numeric target columns.
package dataset

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/molknn/chem"
	"github.com/YuminosukeSato/molknn/pkg/errors"
)

// DescriptorColumn is the required name of the molecule descriptor column.
// Matching is case-insensitive.
const DescriptorColumn = "smiles"

// Table is one loaded CSV file. SMILES and Targets are row-aligned; Targets
// is nil for inference-only files without target columns.
type Table struct {
	SMILES  []string
	Targets *mat.Dense
}

// NumRows returns the number of data rows in the table.
func (t *Table) NumRows() int {
	return len(t.SMILES)
}

// NumTargets returns the number of target columns, 0 if none.
func (t *Table) NumTargets() int {
	if t.Targets == nil {
		return 0
	}
	_, c := t.Targets.Dims()
	return c
}

// Featurize converts the descriptor column into a fingerprint feature
// matrix, one row per molecule in table order. The second return value is
// the number of unparseable SMILES that received the zero-vector fallback.
func (t *Table) Featurize(gen *chem.Generator) (*mat.Dense, int) {
	return gen.FingerprintBatch(t.SMILES)
}

// Load reads a training CSV: a header with a "smiles" column and at least
// one numeric target column, then one row per molecule. Row and column
// order are preserved. It fails with a LoadError if the file is missing or
// unreadable, the descriptor column is absent, there are no target columns,
// or a target cell is not numeric.
//
// Target values are cast through float32, the precision the neighbor index
// stores, so that persisted artifacts and in-memory runs agree exactly.
func Load(path string) (*Table, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	smilesCol, err := findDescriptorColumn(path, header)
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, errors.NewLoadError(path, "no target columns (need at least 2 columns)", nil)
	}

	nTargets := len(header) - 1
	smiles := make([]string, len(rows))
	data := make([]float64, len(rows)*nTargets)

	for i, row := range rows {
		smiles[i] = row[smilesCol]
		k := 0
		for j, cell := range row {
			if j == smilesCol {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.NewLoadError(path,
					"invalid numeric value "+strconv.Quote(cell)+
						" in column "+strconv.Quote(header[j])+
						" at data row "+strconv.Itoa(i+1), err)
			}
			data[i*nTargets+k] = float64(float32(v))
			k++
		}
	}

	t := &Table{SMILES: smiles}
	if len(rows) > 0 {
		t.Targets = mat.NewDense(len(rows), nTargets, data)
	}
	return t, nil
}

// LoadFeatures reads an inference CSV. Only the "smiles" column is
// required; any other columns are ignored. Descriptor handling is identical
// to Load.
func LoadFeatures(path string) (*Table, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	smilesCol, err := findDescriptorColumn(path, header)
	if err != nil {
		return nil, err
	}

	smiles := make([]string, len(rows))
	for i, row := range rows {
		smiles[i] = row[smilesCol]
	}
	return &Table{SMILES: smiles}, nil
}

func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewLoadError(path, "cannot open file", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, errors.NewLoadError(path, "malformed CSV", err)
	}
	if len(records) == 0 {
		return nil, nil, errors.NewLoadError(path, "empty file (missing header)", nil)
	}
	return records[0], records[1:], nil
}

func findDescriptorColumn(path string, header []string) (int, error) {
	for j, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), DescriptorColumn) {
			return j, nil
		}
	}
	return 0, errors.NewLoadError(path, "missing required column "+strconv.Quote(DescriptorColumn), nil)
}
