// Package profile loads the analysis profile configuration.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile configures one analysis run.
type Profile struct {
	// EntryOffset is the CFG entry block offset. The solver emits 0 unless
	// stated otherwise.
	EntryOffset int `yaml:"entry_offset"`
	// Format is the default report format when the flag is not given.
	Format string `yaml:"format"`
	// Strict makes a flagged contract a command failure instead of only a
	// marked report.
	Strict bool `yaml:"strict"`
}

// Default returns the profile used when no config file is supplied.
func Default() *Profile {
	return &Profile{EntryOffset: 0, Format: "text"}
}

// LoadProfile loads an analysis profile from a YAML file.
func LoadProfile(filename string) (*Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	profile := Default()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if profile.Format == "" {
		profile.Format = "text"
	}
	return profile, nil
}
