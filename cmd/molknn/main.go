// Command molknn is a batch tool around the MolKNN library: "train" builds
// and persists a nearest-neighbor model from a training CSV, "predict"
// loads the persisted artifacts and writes property predictions for an
// inference CSV.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/molknn/chem"
	mklog "github.com/YuminosukeSato/molknn/pkg/log"
	"github.com/YuminosukeSato/molknn/pipeline"
)

var (
	cfgFile  string
	logLevel string

	trainPath   string
	testPath    string
	indexPath   string
	targetsPath string
	outputPath  string
	neighbors   int
	radius      int
	nBits       int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("run failed", mklog.ErrAttr(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "molknn",
		Short: "k-nearest-neighbor baseline for molecular property prediction",
		Long: `molknn fingerprints molecules given as SMILES strings, indexes a
training set for exact nearest-neighbor search, and predicts continuous
property values by averaging the targets of the nearest neighbors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			mklog.SetupLogger(logLevel)
			return loadConfigFile(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file; flags override its values")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "path of the index artifact")
	rootCmd.PersistentFlags().StringVar(&targetsPath, "targets", "", "path of the targets artifact")
	rootCmd.PersistentFlags().IntVar(&neighbors, "k", 5, "number of neighbors to average")
	rootCmd.PersistentFlags().IntVar(&radius, "radius", chem.DefaultRadius, "Morgan fingerprint radius")
	rootCmd.PersistentFlags().IntVar(&nBits, "bits", chem.DefaultNBits, "Morgan fingerprint length in bits")

	rootCmd.AddCommand(newTrainCmd(), newPredictCmd())
	return rootCmd
}

func newTrainCmd() *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Build and persist a nearest-neighbor model from a training CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return pipeline.Train(buildConfig())
		},
	}
	trainCmd.Flags().StringVar(&trainPath, "train", "", "training CSV (smiles column + numeric target columns)")
	_ = trainCmd.MarkFlagRequired("train")
	return trainCmd
}

func newPredictCmd() *cobra.Command {
	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict properties for an inference CSV using persisted artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return pipeline.Predict(buildConfig())
		},
	}
	predictCmd.Flags().StringVar(&testPath, "test", "", "inference CSV (smiles column)")
	predictCmd.Flags().StringVar(&outputPath, "output", "", "prediction result CSV")
	_ = predictCmd.MarkFlagRequired("test")
	_ = predictCmd.MarkFlagRequired("output")
	return predictCmd
}

func buildConfig() pipeline.Config {
	return pipeline.Config{
		TrainPath:   trainPath,
		TestPath:    testPath,
		IndexPath:   indexPath,
		TargetsPath: targetsPath,
		OutputPath:  outputPath,
		K:           neighbors,
		Radius:      radius,
		NBits:       nBits,
	}
}

// loadConfigFile fills in flag values from an optional YAML file. Values
// given explicitly on the command line win over the file.
func loadConfigFile(cmd *cobra.Command) error {
	if cfgFile == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	apply := func(name string, target *string) {
		if !cmd.Flags().Changed(name) && v.IsSet(name) {
			*target = v.GetString(name)
		}
	}
	applyInt := func(name string, target *int) {
		if !cmd.Flags().Changed(name) && v.IsSet(name) {
			*target = v.GetInt(name)
		}
	}

	apply("train", &trainPath)
	apply("test", &testPath)
	apply("index", &indexPath)
	apply("targets", &targetsPath)
	apply("output", &outputPath)
	applyInt("k", &neighbors)
	applyInt("radius", &radius)
	applyInt("bits", &nBits)
	return nil
}
