package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads profile metadata (YAML or JSON) from disk and validates it.
func Load(path string) ([]*Profile, error) {
	if path == "" {
		return nil, fmt.Errorf("metadata path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	profiles, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}

// Parse decodes and validates metadata, then stamps each group with the name
// of the profile that declares it.
func Parse(b []byte) ([]*Profile, error) {
	var md Metadata
	if err := yaml.Unmarshal(b, &md); err != nil {
		return nil, err
	}
	if err := md.Validate(); err != nil {
		return nil, err
	}
	for _, p := range md.Profiles {
		for _, g := range p.Groups {
			g.ProfileID = p.Name
		}
	}
	return md.Profiles, nil
}
