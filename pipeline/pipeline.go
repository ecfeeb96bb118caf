// Package pipeline orchestrates file-to-file training and inference runs:
// load a CSV, fingerprint the descriptor column, build or query the
// neighbor index, and write the paired artifacts or the result table.
//
// Every run is stateless: all paths and parameters come from the Config,
// nothing is retained between invocations, and identical inputs with
// identical artifacts reproduce identical outputs.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/YuminosukeSato/molknn/chem"
	"github.com/YuminosukeSato/molknn/dataset"
	"github.com/YuminosukeSato/molknn/knn"
	"github.com/YuminosukeSato/molknn/pkg/errors"
	mklog "github.com/YuminosukeSato/molknn/pkg/log"
)

// Config carries every external parameter of a run. Paths are explicit;
// there are no implicit defaults tied to process state. Radius and NBits
// of zero select the fingerprint defaults (radius 2, 2048 bits).
type Config struct {
	// TrainPath is the training CSV (smiles column + numeric targets).
	TrainPath string
	// TestPath is the inference CSV (smiles column, targets ignored).
	TestPath string
	// IndexPath and TargetsPath are the paired model artifacts. They are
	// written together by Train and must be loaded together by Predict.
	IndexPath   string
	TargetsPath string
	// OutputPath is the prediction result CSV written by Predict.
	OutputPath string

	// K is the number of neighbors averaged per prediction.
	K int
	// Radius and NBits are the Morgan fingerprint parameters. They must
	// match between the training and prediction runs of one model.
	Radius int
	NBits  int
}

func (c Config) generator() *chem.Generator {
	radius := c.Radius
	if radius == 0 {
		radius = chem.DefaultRadius
	}
	return chem.NewGeneratorWith(radius, c.NBits)
}

// Train loads the training CSV, fingerprints it, fits a KNNRegressor and
// persists the paired index and targets artifacts.
func Train(cfg Config) error {
	return errors.SafeExecute("pipeline.Train", func() error {
		if cfg.TrainPath == "" || cfg.IndexPath == "" || cfg.TargetsPath == "" {
			return errors.NewValueError("pipeline.Train", "train, index and targets paths must all be set")
		}

		started := time.Now()
		gen := cfg.generator()

		table, err := dataset.Load(cfg.TrainPath)
		if err != nil {
			return err
		}

		X, fallbacks := table.Featurize(gen)
		if X == nil {
			return errors.NewLoadError(cfg.TrainPath, "no data rows", nil)
		}
		if fallbacks > 0 {
			slog.Warn("unparseable SMILES replaced by zero fingerprints",
				mklog.ComponentKey, "pipeline",
				mklog.PathKey, cfg.TrainPath,
				mklog.FallbacksKey, fallbacks,
			)
		}

		reg := knn.NewKNNRegressor(cfg.K)
		if err := reg.Fit(X, table.Targets); err != nil {
			return err
		}
		if err := reg.Save(cfg.IndexPath, cfg.TargetsPath); err != nil {
			return err
		}

		slog.Info("training run complete",
			mklog.ComponentKey, "pipeline",
			mklog.OperationKey, mklog.OperationFit,
			mklog.ModelNameKey, "KNNRegressor",
			mklog.SamplesKey, reg.NumSamples(),
			mklog.FeaturesKey, reg.NumFeatures(),
			mklog.TargetsKey, reg.NumTargets(),
			mklog.NeighborsKey, cfg.K,
			mklog.RadiusKey, gen.Radius,
			mklog.BitsKey, gen.NBits,
			mklog.FallbacksKey, fallbacks,
			mklog.DurationMsKey, time.Since(started).Milliseconds(),
		)
		return nil
	})
}

// Predict loads the paired artifacts and the inference CSV, predicts the
// targets of each molecule and writes the result table: the original
// descriptor column followed by one column per target, in input row order.
func Predict(cfg Config) error {
	return errors.SafeExecute("pipeline.Predict", func() error {
		if cfg.TestPath == "" || cfg.IndexPath == "" || cfg.TargetsPath == "" || cfg.OutputPath == "" {
			return errors.NewValueError("pipeline.Predict", "test, index, targets and output paths must all be set")
		}

		started := time.Now()
		gen := cfg.generator()

		reg := knn.NewKNNRegressor(cfg.K)
		if err := reg.Load(cfg.IndexPath, cfg.TargetsPath); err != nil {
			return err
		}

		table, err := dataset.LoadFeatures(cfg.TestPath)
		if err != nil {
			return err
		}

		X, fallbacks := table.Featurize(gen)
		if X == nil {
			return errors.NewLoadError(cfg.TestPath, "no data rows", nil)
		}
		if fallbacks > 0 {
			slog.Warn("unparseable SMILES replaced by zero fingerprints",
				mklog.ComponentKey, "pipeline",
				mklog.PathKey, cfg.TestPath,
				mklog.FallbacksKey, fallbacks,
			)
		}

		preds, err := reg.Predict(X)
		if err != nil {
			return err
		}
		if err := dataset.WritePredictions(cfg.OutputPath, table.SMILES, preds); err != nil {
			return err
		}

		slog.Info("prediction run complete",
			mklog.ComponentKey, "pipeline",
			mklog.OperationKey, mklog.OperationPredict,
			mklog.ModelNameKey, "KNNRegressor",
			mklog.SamplesKey, table.NumRows(),
			mklog.IndexSizeKey, reg.NumSamples(),
			mklog.NeighborsKey, cfg.K,
			mklog.FallbacksKey, fallbacks,
			mklog.PathKey, cfg.OutputPath,
			mklog.DurationMsKey, time.Since(started).Milliseconds(),
		)
		return nil
	})
}
