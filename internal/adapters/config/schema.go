package config

// MachinesFile represents the structure of the machines.yaml file.
type MachinesFile struct {
	Version  string                 `yaml:"version"`
	Machines map[string]*MachineDTO `yaml:"machines"`
}

// MachineDTO represents a machine definition in the configuration.
type MachineDTO struct {
	Description string         `yaml:"description"`
	Command     []string       `yaml:"command"`
	Exits       []string       `yaml:"exits"`
	ExitCodes   map[int]string `yaml:"exitCodes"`
	DependsOn   []string       `yaml:"dependsOn"`
	Cache       *CacheDTO      `yaml:"cache"`
}

// CacheDTO represents the cache block of a machine definition. TTL is a
// Go duration string ("90s", "3h").
type CacheDTO struct {
	TTL                 string `yaml:"ttl"`
	MaxOldEntriesBuffer int    `yaml:"maxOldEntriesBuffer"`
	CacheableExit       string `yaml:"cacheableExit"`
}
