package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	derrors "github.com/ochairo/addrunner/internal/domain/errors"
	"github.com/ochairo/addrunner/internal/domain/interfaces/gateways"
	"github.com/ochairo/addrunner/internal/logging"
)

// maxStderrTail bounds how much captured stderr ends up in an error message
const maxStderrTail = 2048

// waitDelay bounds how long stdio copying may outlive a killed child
const waitDelay = 5 * time.Second

// CommandExecutor runs external programs such as the runner's configure script.
// The child shares the operator's terminal so interactive prompts still work.
type CommandExecutor struct {
	timeout time.Duration
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	logger  zerolog.Logger
}

// NewCommandExecutor creates an executor wired to the process stdio.
// A zero timeout means the command may run until it exits.
func NewCommandExecutor(timeout time.Duration) *CommandExecutor {
	return &CommandExecutor{
		timeout: timeout,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		logger:  logging.GetLogger("command"),
	}
}

// WithIO replaces the stdio streams (used by tests)
func (ce *CommandExecutor) WithIO(stdin io.Reader, stdout, stderr io.Writer) *CommandExecutor {
	ce.stdin = stdin
	ce.stdout = stdout
	ce.stderr = stderr
	return ce
}

// Run executes spec and returns an ExternalCommand error for any non-zero exit
func (ce *CommandExecutor) Run(ctx context.Context, spec gateways.CommandSpec) error {
	startTime := time.Now()

	execCtx := ctx
	if ce.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, ce.timeout)
		defer cancel()
	}

	//nolint:gosec // G204: program comes from the runner profile, arguments from operator flags
	cmd := exec.CommandContext(execCtx, resolveProgram(spec), spec.Args...)
	cmd.Dir = spec.WorkingDir
	cmd.WaitDelay = waitDelay
	cmd.Stdin = ce.stdin
	cmd.Stdout = ce.stdout

	var stderr bytes.Buffer
	cmd.Stderr = io.MultiWriter(ce.stderr, &stderr)

	ce.logger.Info().
		Str("command", spec.Name).
		Strs("args", logging.RedactArgs(spec.Args, spec.Sensitive...)).
		Str("dir", spec.WorkingDir).
		Msg("Executing")

	err := cmd.Run()
	duration := time.Since(startTime)

	if err == nil {
		ce.logger.Debug().Str("command", spec.Name).Dur("duration", duration).Msg("Command succeeded")
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	//nolint:gocritic // ifElseChain: checking different error types, not suitable for switch
	if ce.timeout > 0 && errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("command timeout after %v", ce.timeout)
	} else if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	if tail := stderrTail(stderr.String()); tail != "" {
		err = fmt.Errorf("%w\nStderr: %s", err, tail)
	}
	err = errors.New(logging.Redact(err.Error(), spec.Sensitive...))

	ce.logger.Error().
		Str("command", spec.Name).
		Int("exit_code", exitCode).
		Dur("duration", duration).
		Msg("Command failed")

	return derrors.ExternalCommand(spec.Name, exitCode, err)
}

// resolveProgram anchors "./script" style names to the working directory
func resolveProgram(spec gateways.CommandSpec) string {
	if spec.WorkingDir == "" || filepath.IsAbs(spec.Name) || !strings.ContainsRune(spec.Name, '/') {
		return spec.Name
	}
	return filepath.Join(spec.WorkingDir, spec.Name)
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrTail {
		s = "..." + s[len(s)-maxStderrTail:]
	}
	return s
}
