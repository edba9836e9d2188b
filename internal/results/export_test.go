package results

var (
	BuildPredictionUpdate = buildPredictionUpdate
	ApplyPredictions      = applyPredictions
)
