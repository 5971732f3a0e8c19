package encode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strings"
	"time"
)

// ErrConverterNotFound is returned when the converter executable cannot be
// located.
var ErrConverterNotFound = errors.New("converter executable not found")

// killGrace is how long a killed process gets to release its pipes.
const killGrace = 5 * time.Second

// Command is one invocation of an external program.
type Command struct {
	Name  string
	Args  []string
	Stdin io.Reader
}

func (c Command) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner runs external commands to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a command that finished with a non-zero status.
type ExitError struct {
	Name   string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.Code, out)
}

var _ error = (*ExitError)(nil)

// ExecRunner runs commands as child processes. A process still running
// after Timeout is killed.
type ExecRunner struct {
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, c Command) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.WaitDelay = killGrace
	killGroup(cmd)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConverterNotFound, c.Name)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && r.Timeout > 0 {
			return fmt.Errorf("%s killed after %s: %w", c.Name, r.Timeout, ctxErr)
		}
		return ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Name: c.Name, Code: exitErr.ExitCode(), Output: output.String()}
	}
	return fmt.Errorf("failed to run %s: %w", c.Name, err)
}
