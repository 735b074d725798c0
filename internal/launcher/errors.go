package launcher

import "fmt"

// ExitError reports a container that ran but exited non-zero. The
// launcher does not distinguish an application failure from any other
// non-zero exit; the code simply propagates.
type ExitError struct {
	Target string
	Code   int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("target %s exited with code %d", e.Target, e.Code)
}

// ExitCode returns the status code the launcher should exit with.
func (e *ExitError) ExitCode() int { return e.Code }
