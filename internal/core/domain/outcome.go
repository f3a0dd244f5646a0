package domain

const (
	// ExitSuccess is the conventional success exit every machine declares.
	ExitSuccess = "success"
	// ExitError is the conventional error exit. It is traversed by
	// returning a non-nil error from the machine's function.
	ExitError = "error"
)

// Outcome is the tagged result of a machine run: the exit that was
// traversed and the payload delivered through it.
type Outcome struct {
	// Exit is the name of the traversed exit.
	Exit string
	// Value is the payload delivered through the exit. It may be nil.
	Value any
}

// Success returns an outcome for the success exit.
func Success(value any) Outcome {
	return Outcome{Exit: ExitSuccess, Value: value}
}

// Through returns an outcome for a named custom exit.
func Through(exit string, value any) Outcome {
	return Outcome{Exit: exit, Value: value}
}
