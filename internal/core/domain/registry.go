package domain

import (
	"sort"

	"go.trai.ch/zerr"
)

// Registry holds the loaded machine definitions by name.
type Registry struct {
	machines map[string]Machine
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{machines: make(map[string]Machine)}
}

// Add registers a machine. It returns an error if the name is taken.
func (r *Registry) Add(m Machine) error {
	if _, exists := r.machines[m.Name]; exists {
		return zerr.With(ErrMachineAlreadyExists, "machine", m.Name)
	}
	r.machines[m.Name] = m
	return nil
}

// Get returns the machine registered under name.
func (r *Registry) Get(name string) (Machine, error) {
	m, ok := r.machines[name]
	if !ok {
		return Machine{}, zerr.With(ErrMachineNotFound, "machine", name)
	}
	return m, nil
}

// Names returns the registered machine names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.machines))
	for name := range r.machines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered machines.
func (r *Registry) Len() int {
	return len(r.machines)
}
