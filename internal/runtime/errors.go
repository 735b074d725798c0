package runtime

import "fmt"

// Exit code reported when the runtime itself fails before the
// container's own exit code exists, matching the docker CLI convention.
const RunFailureExitCode = 125

// BuildError reports a failed image build. Code carries the status code
// from the runtime's build diagnostics when one was provided.
type BuildError struct {
	Image string
	Code  int
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build of %s failed: %v", e.Image, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// ExitCode returns the status code the launcher should exit with.
func (e *BuildError) ExitCode() int {
	if e.Code > 0 {
		return e.Code
	}
	return 1
}

// RunError reports that the runtime could not start or track a
// container. It is distinct from the container's own non-zero exit,
// which is not an error from the runtime's point of view.
type RunError struct {
	Image string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run of %s failed: %v", e.Image, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// ExitCode returns the status code the launcher should exit with.
func (e *RunError) ExitCode() int { return RunFailureExitCode }
