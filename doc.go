// Package molknn provides a k-nearest-neighbor baseline for molecular
// property prediction in Go.
//
// MolKNN converts molecules given as SMILES strings into fixed-length
// binary Morgan-type fingerprints, indexes a training set for exact
// Euclidean nearest-neighbor search, and predicts multi-target continuous
// properties for new molecules by averaging the targets of their nearest
// neighbors in fingerprint space.
//
// # Quick Start
//
// Train a model from a CSV file and predict properties for new molecules:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/molknn/chem"
//	    "github.com/YuminosukeSato/molknn/dataset"
//	    "github.com/YuminosukeSato/molknn/knn"
//	)
//
//	func main() {
//	    train, err := dataset.Load("train.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    gen := chem.NewGenerator()
//	    X, _ := train.Featurize(gen)
//
//	    reg := knn.NewKNNRegressor(5)
//	    if err := reg.Fit(X, train.Targets); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    test, err := dataset.LoadFeatures("test.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    XTest, _ := test.Featurize(gen)
//
//	    preds, err := reg.Predict(XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Predictions:", preds)
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - chem: SMILES parsing and Morgan-type fingerprint generation
//   - dataset: tabular CSV loading and prediction output
//   - knn: exact nearest-neighbor index and kNN regressor
//   - pipeline: file-to-file train and predict orchestration
//   - core/model: core interfaces and base types
//   - core/parallel: parallel processing utilities
//   - pkg/errors: structured error and warning types
//   - pkg/log: structured logging setup and attribute keys
//
// # Determinism
//
// Fingerprinting and search are fully deterministic: the same SMILES with
// the same radius and bit width always yields the same fingerprint, the
// index performs an exhaustive scan rather than approximate search, and
// distance ties are broken by the lowest training row index. Repeated runs
// over identical inputs reproduce results bit for bit.
//
// # License
//
// MolKNN is released under the MIT License.
package molknn
