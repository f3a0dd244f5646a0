// Package domain contains the core domain models for the machine runner.
package domain

import "context"

// Inputs is the named argument set a machine is invoked with.
// Keys are unique input names; values are opaque to the runner.
type Inputs map[string]any

// Dependencies carries resolved collaborators by name. The runner passes
// them through to the machine's function without interpreting them.
type Dependencies map[string]any

// Fn is the implementation of a machine. It returns the outcome of the
// run, or an error when the machine traverses its error exit. A machine
// traverses exactly one exit per run; returning both a non-error outcome
// and a non-nil error is a contract violation by the machine's author.
//
// The context is passed through for best-effort cancellation only; the
// runner imposes no deadline of its own.
type Fn func(ctx context.Context, inputs Inputs, deps Dependencies) (Outcome, error)

// Machine is a unit of work: a function with declared inputs and named
// exits, plus optional memoization of its result.
//
// A Machine is assembled once and treated as immutable for the duration
// of a run.
type Machine struct {
	Name        string
	Description string

	// Exits lists the declared exit names. ExitSuccess must be present.
	Exits []string

	// Command is set for shell-backed machines loaded from configuration.
	// The app layer binds Fn from it via the shell executor.
	Command []string

	// ExitCodes maps a nonzero process exit code to a declared custom
	// exit name for shell-backed machines.
	ExitCodes map[int]string

	// DependsOn names other machines this one receives as dependencies.
	DependsOn []string

	// Dependencies holds the resolved collaborators, opaque to the core.
	Dependencies Dependencies

	// Cache enables memoization when non-nil and a store is available.
	Cache *CacheSettings

	Fn Fn
}

// HasExit reports whether name is a declared exit of the machine.
func (m *Machine) HasExit(name string) bool {
	for _, e := range m.Exits {
		if e == name {
			return true
		}
	}
	return false
}
