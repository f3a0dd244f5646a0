package ports

import "github.com/svsamipillai/machine/internal/core/domain"

// Executor turns a shell-backed machine definition into a runnable
// function.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Bind returns the run function for a command-backed machine.
	// Inputs are exposed to the command as INPUT_<KEY> environment
	// variables; trimmed stdout becomes the exit payload. A nonzero
	// exit code traverses the custom exit mapped in exitCodes, or the
	// error exit when unmapped.
	Bind(command []string, exitCodes map[int]string) domain.Fn
}
