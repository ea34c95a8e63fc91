package cli

import "jtr/internal/config"

// Flags holds command-line flags
type Flags struct {
	Project    string
	Processors int
	TestPath   string
	NameFilter string
	TestFilter string
	File       string
	Shard      string
	FailFast   bool
	NoFresh    bool
	JSON       bool
	Print      bool
	Verbose    bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors: f.Processors,
		TestPath:   f.TestPath,
		NameFilter: f.NameFilter,
		TestFilter: f.TestFilter,
		File:       f.File,
		Shard:      f.Shard,
		FailFast:   f.FailFast,
		NoFresh:    f.NoFresh,
		JSON:       f.JSON,
		Print:      f.Print,
		Verbose:    f.Verbose,
	}
}
