package domain

import "errors"

// Sentinels are plain errors so that zerr's metadata helpers wrap them
// as the cause: errors.Is keeps matching after zerr.With or zerr.Wrap.
var (
	// ErrNoImplementation is returned when a machine has no function to
	// run. This is the only fatal condition in the pipeline; every
	// cache-subsystem failure is downgraded to a warning instead.
	ErrNoImplementation = errors.New("machine has no implementation to run")

	// ErrUnhashableInput is returned when an input value cannot be
	// canonically serialized for hashing (functions, channels, cycles,
	// NaN and the like).
	ErrUnhashableInput = errors.New("input value is not hashable")

	// ErrMachineAlreadyExists is returned when registering a machine
	// under a name that is already taken.
	ErrMachineAlreadyExists = errors.New("machine already exists")

	// ErrMachineNotFound is returned when a requested machine is not in
	// the registry.
	ErrMachineNotFound = errors.New("machine not found")

	// ErrMissingDependency is returned when a machine depends on a name
	// that is not in the registry.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrInvalidMachineName is returned when a machine name contains
	// invalid characters.
	ErrInvalidMachineName = errors.New("invalid machine name")

	// ErrMissingSuccessExit is returned when a definition does not
	// declare a success exit.
	ErrMissingSuccessExit = errors.New("machine must declare a success exit")

	// ErrDuplicateExit is returned when a definition declares the same
	// exit name twice.
	ErrDuplicateExit = errors.New("duplicate exit name")

	// ErrUnknownExitCode is returned when an exit-code mapping points at
	// an undeclared exit.
	ErrUnknownExitCode = errors.New("exit code mapped to undeclared exit")

	// ErrConfigReadFailed is returned when the machines file cannot be read.
	ErrConfigReadFailed = errors.New("failed to read machines file")

	// ErrConfigParseFailed is returned when the machines file cannot be parsed.
	ErrConfigParseFailed = errors.New("failed to parse machines file")

	// ErrInvalidTTL is returned when a cache ttl cannot be parsed.
	ErrInvalidTTL = errors.New("invalid cache ttl")

	// ErrStoreOpenFailed is returned when the cache store cannot be opened.
	ErrStoreOpenFailed = errors.New("failed to open cache store")

	// ErrInvalidInputFlag is returned when a --input flag is not of the
	// form key=value.
	ErrInvalidInputFlag = errors.New("invalid input, expected format: key=value")
)
