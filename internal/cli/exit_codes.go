package cli

import "github.com/raveheart1/relcompare/internal/errors"

// Exit codes for the relcompare CLI. The build pipeline treats any
// non-zero exit as "no changelog artifact produced" and continues the
// build in a degraded state.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitComparisonFailed indicates the comparison could not produce a
	// complete report
	ExitComparisonFailed = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitInvalidConfig indicates an invalid control file or option value
	ExitInvalidConfig = 3
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	cliErr := errors.AsCLIError(err)
	if cliErr == nil {
		return ExitComparisonFailed
	}
	switch cliErr.Category {
	case errors.Argument:
		return ExitInvalidArguments
	case errors.Configuration:
		return ExitInvalidConfig
	default:
		return ExitComparisonFailed
	}
}
