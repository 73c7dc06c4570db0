// Standard attribute keys for the partitioning pipeline. Keys follow a
// hierarchical naming convention ("data.samples", "ml.operation") so that
// logs from every stage can be filtered the same way.

package log

// Operation context.
const (
	// ModelNameKey identifies the estimator or transformer type.
	// Examples: "LinearRegression", "MaxScaler"
	ModelNameKey = "model.name"

	// RunIDKey identifies a single pipeline run.
	RunIDKey = "run.id"

	// OperationKey is the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "dataset", "preprocessing", "pipeline"
	ComponentKey = "ml.component"

	// StageKey is the pipeline stage name.
	StageKey = "pipeline.stage"

	// PathKey is a file path being read or written.
	PathKey = "io.path"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	TargetsKey  = "data.targets"

	// TrainSamplesKey and TestSamplesKey are the partition sizes after a split.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"
)

// Metrics and timing.
const (
	DurationMsKey = "perf.duration_ms"
	TrainMSEKey   = "metrics.train_mse"
	TestMSEKey    = "metrics.test_mse"
	R2ScoreKey    = "metrics.r2_score"
)

// Configuration.
const (
	RandomSeedKey   = "config.random_seed"
	TestFractionKey = "config.test_fraction"
	ScalerKey       = "config.scaler"
)

// Errors.
const (
	ErrorTypeKey  = "error.type"
	SuggestionKey = "error.suggestion"
)

// Standard operation values.
const (
	OperationLoad      = "load"
	OperationRescale   = "rescale"
	OperationSelect    = "select"
	OperationSplit     = "split"
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationEvaluate  = "evaluate"
	OperationExport    = "export"
	OperationTransform = "transform"
)
