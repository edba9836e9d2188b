package training

import "errors"

// Training run failures. Each one fails the whole unit of work; no result
// is recorded.
var (
	ErrTrainerFailed   = errors.New("trainer exited unsuccessfully")
	ErrTrainerTimeout  = errors.New("trainer exceeded its timeout")
	ErrMalformedOutput = errors.New("trainer output is malformed")
	ErrTrainerReported = errors.New("trainer reported an error")
	ErrInvalidPayload  = errors.New("invalid training task payload")
)
