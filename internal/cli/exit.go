package cli

import "context"

const (
	ExitOK          = 0
	ExitError       = 1
	ExitInterrupted = 130
)

// ExitCode maps the outcome of Execute to a process exit status.
// A cancelled ctx means the run was interrupted, whatever err says.
func ExitCode(ctx context.Context, err error) int {
	switch {
	case ctx.Err() != nil:
		return ExitInterrupted
	case err != nil:
		return ExitError
	default:
		return ExitOK
	}
}
