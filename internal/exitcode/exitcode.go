package exitcode

import "errors"

// Process exit codes. Validation and connectivity failures get their own
// codes so scripts wrapping the CLI can tell them apart from a mid-pipeline
// failure.
const (
	OK           = 0
	Failure      = 1
	Validation   = 2
	Connectivity = 3
	Interrupted  = 130
)

// Category marks an error with the exit code it should map to.
type Category struct {
	Code int
	Err  error
}

func (c *Category) Error() string { return c.Err.Error() }

func (c *Category) Unwrap() error { return c.Err }

// ValidationError wraps err so the top-level handler exits with the
// input-validation code.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &Category{Code: Validation, Err: err}
}

// ConnectivityError wraps err so the top-level handler exits with the
// SSH-connectivity code.
func ConnectivityError(err error) error {
	if err == nil {
		return nil
	}
	return &Category{Code: Connectivity, Err: err}
}

// InterruptError wraps err so the top-level handler exits with the
// operator-interrupt code.
func InterruptError(err error) error {
	if err == nil {
		return nil
	}
	return &Category{Code: Interrupted, Err: err}
}

// FromError maps an error to its process exit code.
func FromError(err error) int {
	if err == nil {
		return OK
	}
	var cat *Category
	if errors.As(err, &cat) {
		return cat.Code
	}
	return Failure
}
