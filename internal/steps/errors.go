package steps

import "fmt"

// ConfigurationError reports a misused directive, such as a Throw handler
// that cannot be called.
type ConfigurationError struct {
	Step    int
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("step %d: %s", e.Step+1, e.Message)
}

// UnhandledComputationError reports that the computation raised an error at
// a step whose directive was not a Throw.
type UnhandledComputationError struct {
	Step int
	Err  error
}

func (e *UnhandledComputationError) Error() string {
	return fmt.Sprintf("step %d: unhandled computation error: %v", e.Step+1, e.Err)
}

func (e *UnhandledComputationError) Unwrap() error {
	return e.Err
}
