package access

import "fmt"

// EvaluationError means a collaborator read failed and no decision could be
// made. Evaluation fails closed: this is never converted to Allow. Callers
// map it to a 500 without exposing the wrapped detail.
type EvaluationError struct {
	Stage string
	Err   error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("authorization evaluation failed at %s: %v", e.Stage, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

func evalErr(stage string, err error) error {
	return &EvaluationError{Stage: stage, Err: err}
}
