package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// ExitLaunchFailure is reported when the shell itself could not be started.
const ExitLaunchFailure = 127

type (
	// Runner executes a local command line and reports its exit status.
	Runner interface {
		Run(ctx context.Context, command string) int
	}

	// Shell implements Runner by passing the command line to /bin/sh -c.
	//
	// The child inherits stdout and stderr so the operator sees pg_ctl output as
	// it happens. Run blocks until the command exits and never returns an error:
	// a command that cannot be launched is reported as ExitLaunchFailure.
	Shell struct {
		path   string
		stdout io.Writer
		stderr io.Writer
		logger *slog.Logger
	}

	// Options configures a Shell. Zero values select /bin/sh, os.Stdout,
	// os.Stderr and slog.Default().
	Options struct {
		Shell  string
		Stdout io.Writer
		Stderr io.Writer
		Logger *slog.Logger
	}
)

var _ Runner = (*Shell)(nil)

// New creates a Shell runner.
//
// Example:
//
//	r := runner.New(runner.Options{})
//	if code := r.Run(ctx, "pg_ctl stop -D /var/lib/pgsql/data"); code != 0 {
//		return fmt.Errorf("stop failed with exit code %d", code)
//	}
func New(opts Options) *Shell {
	s := &Shell{
		path:   opts.Shell,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		logger: opts.Logger,
	}

	if s.path == "" {
		s.path = "/bin/sh"
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Run executes command and returns its exit code.
func (s *Shell) Run(ctx context.Context, command string) int {
	cmd := exec.CommandContext(ctx, s.path, "-c", command)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	s.logger.Debug("Running command", "command", command)

	err := cmd.Run()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		s.logger.Debug("Command exited", "command", command, "code", exitErr.ExitCode())
		return exitErr.ExitCode()
	}

	s.logger.Error("Failed to run command", "command", command, "err", err)
	return ExitLaunchFailure
}
