// Package config provides the machines-file loader.
package config

import (
	"os"
	"regexp"
	"time"

	"github.com/svsamipillai/machine/internal/core/domain"
	"github.com/svsamipillai/machine/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

var validMachineNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the machines file at path, validates every definition and
// returns the populated registry.
func (l *Loader) Load(path string) (*domain.Registry, error) {
	//nolint:gosec // Path is provided by the user running the CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}

	var file MachinesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}

	registry := domain.NewRegistry()

	// First pass: collect names so dependencies can be verified.
	names := make(map[string]bool, len(file.Machines))
	for name := range file.Machines {
		names[name] = true
	}

	for name, dto := range file.Machines {
		m, err := buildMachine(name, dto, names)
		if err != nil {
			return nil, err
		}
		if err := registry.Add(m); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func buildMachine(name string, dto *MachineDTO, names map[string]bool) (domain.Machine, error) {
	if !validMachineNameRegex.MatchString(name) {
		return domain.Machine{}, zerr.With(domain.ErrInvalidMachineName, "machine", name)
	}

	exits := dto.Exits
	if len(exits) == 0 {
		exits = []string{domain.ExitSuccess, domain.ExitError}
	}
	if err := validateExits(name, exits); err != nil {
		return domain.Machine{}, err
	}

	declared := make(map[string]bool, len(exits))
	for _, e := range exits {
		declared[e] = true
	}
	for code, exit := range dto.ExitCodes {
		if !declared[exit] {
			err := zerr.With(domain.ErrUnknownExitCode, "machine", name)
			err = zerr.With(err, "exit_code", code)
			err = zerr.With(err, "exit", exit)
			return domain.Machine{}, err
		}
	}

	for _, dep := range dto.DependsOn {
		if !names[dep] {
			return domain.Machine{}, zerr.With(zerr.With(domain.ErrMissingDependency, "machine", name), "dependency", dep)
		}
	}

	cache, err := buildCacheSettings(name, dto.Cache, declared)
	if err != nil {
		return domain.Machine{}, err
	}

	return domain.Machine{
		Name:        name,
		Description: dto.Description,
		Command:     dto.Command,
		Exits:       exits,
		ExitCodes:   dto.ExitCodes,
		DependsOn:   dto.DependsOn,
		Cache:       cache,
	}, nil
}

func validateExits(name string, exits []string) error {
	seen := make(map[string]bool, len(exits))
	hasSuccess := false
	for _, e := range exits {
		if seen[e] {
			return zerr.With(zerr.With(domain.ErrDuplicateExit, "machine", name), "exit", e)
		}
		seen[e] = true
		if e == domain.ExitSuccess {
			hasSuccess = true
		}
	}
	if !hasSuccess {
		return zerr.With(domain.ErrMissingSuccessExit, "machine", name)
	}
	return nil
}

func buildCacheSettings(name string, dto *CacheDTO, declared map[string]bool) (*domain.CacheSettings, error) {
	if dto == nil {
		return nil, nil
	}

	settings := &domain.CacheSettings{
		MaxOldEntriesBuffer: dto.MaxOldEntriesBuffer,
		CacheableExit:       dto.CacheableExit,
	}

	if dto.TTL != "" {
		ttl, err := time.ParseDuration(dto.TTL)
		if err != nil {
			return nil, zerr.With(zerr.With(domain.ErrInvalidTTL, "machine", name), "ttl", dto.TTL)
		}
		settings.TTL = ttl
	}

	if settings.CacheableExit != "" && !declared[settings.CacheableExit] {
		return nil, zerr.With(zerr.With(domain.ErrUnknownExitCode, "machine", name), "exit", settings.CacheableExit)
	}

	return settings, nil
}
