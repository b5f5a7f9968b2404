package session

import(
	"fmt"

	"github.com/skypies/flightdash/predict"
)

// ValidationError means the input was rejected locally; the service was never called.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError)Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// NetworkError means the prediction service call failed. Message is fit to show the user.
type NetworkError struct {
	Message string
	Err     error
}

func (e *NetworkError)Error() string { return fmt.Sprintf("prediction failed: %v", e.Err) }
func (e *NetworkError)Unwrap() error { return e.Err }

func newNetworkError(err error) *NetworkError {
	return &NetworkError{Message:predict.UserMessage(err), Err:err}
}
