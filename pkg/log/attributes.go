// Standard attribute keys for the fitting pipeline.
//
// Keys follow a hierarchical naming convention ("model.equation",
// "data.samples") so that logs from different components can be filtered
// the same way.

package log

// Model and Operation Context
const (
	// EquationKey carries the equation text as written by the caller.
	// Example: "y = a*x**2 + b*x + c"
	EquationKey = "model.equation"

	// ParametersKey carries the ordered parameter identifiers.
	ParametersKey = "model.parameters"

	// StatusKey carries the outcome status ("fitted", "no-fit", "failed").
	StatusKey = "model.status"

	// LabelKey carries the rendered label text.
	LabelKey = "model.label"

	// OperationKey specifies the pipeline stage being performed.
	// Standard values: see the Operation* constants below.
	OperationKey = "op"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "expr", "fit", "session"
	ComponentKey = "component"

	// IndexKey carries the position of a model inside a batch.
	IndexKey = "batch.index"
)

// Data Shape
const (
	// SamplesKey indicates the number of (x, y) samples.
	SamplesKey = "data.samples"

	// BatchSizeKey indicates how many models a session renders.
	BatchSizeKey = "data.batch_size"
)

// Solver and Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// IterationKey records the solver iteration count.
	IterationKey = "solver.iteration"

	// EvaluationsKey records how many times the residual function ran.
	EvaluationsKey = "solver.evaluations"

	// CostKey records the final sum of squared residuals.
	CostKey = "solver.cost"

	// DampingKey records the Levenberg–Marquardt damping factor.
	DampingKey = "solver.damping"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ParseError", "CompileError", "FitError"
	ErrorTypeKey = "error.type"

	// SuggestionKey provides a hint for resolving the issue.
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationParse   = "parse"
	OperationCompile = "compile"
	OperationFit     = "fit"
	OperationLabel   = "label"
	OperationRender  = "render"

	StatusFitted = "fitted"
	StatusNoFit  = "no-fit"
	StatusFailed = "failed"
)
