package clone

// Stage identifies which phase of an exploration cycle produced an error.
type Stage string

const (
	StagePlan       Stage = "planning"
	StageSynthesize Stage = "synthesis"
	StageChat       Stage = "chat"
)

// StageError wraps a failure with the exploration stage it occurred in, so
// callers can report which phase broke without parsing error text.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return string(e.Stage) + " failed: " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
