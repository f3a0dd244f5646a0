// Package shell binds command-backed machine definitions to runnable
// functions.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/svsamipillai/machine/internal/core/domain"
	"github.com/svsamipillai/machine/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor runs machine commands as child processes. Inputs are exposed
// as INPUT_<KEY> environment variables and trimmed stdout becomes the
// exit payload.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Bind returns the run function for a command-backed machine.
func (e *Executor) Bind(command []string, exitCodes map[int]string) domain.Fn {
	return func(ctx context.Context, inputs domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
		if len(command) == 0 {
			return domain.Outcome{Exit: domain.ExitError}, domain.ErrNoImplementation
		}

		//nolint:gosec // Command comes from the user's own machines file
		cmd := exec.CommandContext(ctx, command[0], command[1:]...)
		cmd.Env = append(os.Environ(), inputEnv(inputs)...)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		payload := strings.TrimSpace(stdout.String())

		if err == nil {
			return domain.Success(payload), nil
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if exit, ok := exitCodes[code]; ok {
				e.logger.Info(fmt.Sprintf("command exited %d, traversing %q", code, exit))
				return domain.Through(exit, payload), nil
			}
			failure := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", code)
			failure = zerr.With(failure, "stderr", strings.TrimSpace(stderr.String()))
			return domain.Outcome{Exit: domain.ExitError}, failure
		}

		return domain.Outcome{Exit: domain.ExitError}, zerr.Wrap(err, "failed to run command")
	}
}

// inputEnv renders inputs as INPUT_<KEY>=value pairs in sorted order.
func inputEnv(inputs domain.Inputs) []string {
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, "INPUT_"+strings.ToUpper(k)+"="+fmt.Sprint(inputs[k]))
	}
	return env
}
