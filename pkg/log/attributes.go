// This file defines standard attribute keys for MolKNN operations. Using
// these keys keeps train and predict log records consistent and filterable.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model type, e.g. "KNNRegressor".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "search", "load", "save"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "chem", "dataset", "knn", "pipeline"
	ComponentKey = "ml.component"
)

// Data shape and characteristics.
const (
	// SamplesKey is the number of rows processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the fingerprint width in bits.
	FeaturesKey = "data.features"

	// TargetsKey is the number of target columns.
	TargetsKey = "data.targets"

	// FallbacksKey counts SMILES rows that failed to parse and received a
	// zero fingerprint. Non-zero values indicate a data quality problem.
	FallbacksKey = "data.parse_fallbacks"

	// PathKey is the input or output file path for the operation.
	PathKey = "data.path"
)

// Neighbor search context.
const (
	// NeighborsKey is the number of neighbors (k) used for a search.
	NeighborsKey = "knn.neighbors"

	// IndexSizeKey is the number of vectors stored in the index.
	IndexSizeKey = "knn.index_size"

	// RadiusKey is the Morgan fingerprint radius.
	RadiusKey = "fp.radius"

	// BitsKey is the Morgan fingerprint length in bits.
	BitsKey = "fp.bits"
)

// Performance metrics.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Standard operation values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationSearch  = "search"
	OperationLoad    = "load"
	OperationSave    = "save"
)
