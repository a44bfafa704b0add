package cli

import "fmt"

// ExitError signals a non-zero exit code without calling os.Exit in RunE handlers.
// An ExitError without Err is not printed.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any
func (e *ExitError) Unwrap() error {
	return e.Err
}
