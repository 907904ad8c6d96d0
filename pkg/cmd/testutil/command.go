package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

// Output holds what a command wrote while running.
type Output struct {
	Stdout string
	Stderr string
}

// RunCommand executes command with args, capturing its output. The program
// name is prepended to args.
func RunCommand(t *testing.T, command *cli.Command, args ...string) (Output, error) {
	t.Helper()

	return RunCommandWithContext(context.Background(), t, command, args...)
}

// RunCommandWithContext executes command with a custom context
func RunCommandWithContext(ctx context.Context, t *testing.T, command *cli.Command, args ...string) (Output, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	command.Writer = &stdout
	command.ErrWriter = &stderr

	err := command.Run(ctx, append([]string{command.Name}, args...))
	return Output{Stdout: stdout.String(), Stderr: stderr.String()}, err
}
