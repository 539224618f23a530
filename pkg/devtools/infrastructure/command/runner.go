package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
)

// DefaultWaitDelay bounds how long an interrupted command may take to clean up before it is killed.
const DefaultWaitDelay = 10 * time.Second

type Command struct {
	Executable string
	Args       []string
	// Attached commands inherit stdin, stdout and stderr of the current process.
	Attached bool
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Executable}, c.Args...), " ")
}

type Runner interface {
	Execute(ctx context.Context, command Command) (string, error)
}

type ExitError struct {
	Command string
	Code    int
	Stderr  string
	// Interrupted is set when the command exited after the context was cancelled.
	Interrupted bool
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command \"%v\" exited with status %v", e.Command, e.Code)
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCode returns the exit status carried by err, if any.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

func NewCommandRunner(logger applogger.Logger, silentMode bool) Runner {
	return &runner{
		logger:     logger,
		silentMode: silentMode,
		waitDelay:  DefaultWaitDelay,
	}
}

type runner struct {
	logger     applogger.Logger
	silentMode bool
	waitDelay  time.Duration
}

func (r runner) Execute(ctx context.Context, command Command) (string, error) {
	if command.Executable == "" {
		return "", errors.New("command executable can not be empty")
	}
	// nolint:gosec
	cmd := exec.CommandContext(ctx, command.Executable, command.Args...)
	// the child gets a chance to remove its ephemeral containers before WaitDelay kills it
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.waitDelay
	if r.silentMode {
		r.logger.Debug(cmd.String())
	} else {
		r.logger.Info(cmd.String())
	}

	var (
		stdout bytes.Buffer
		stderr bytes.Buffer
	)
	if command.Attached {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		return stdout.String(), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), &ExitError{
			Command:     command.String(),
			Code:        exitStatus(exitErr),
			Stderr:      stderr.String(),
			Interrupted: ctx.Err() != nil,
		}
	}
	if ctx.Err() != nil {
		return stdout.String(), ctx.Err()
	}
	return stdout.String(), err
}

// exitStatus follows the shell convention of 128+signal for commands terminated by a signal.
func exitStatus(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return exitErr.ExitCode()
}
