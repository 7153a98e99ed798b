package profile

import (
	"fmt"
	"strings"

	"controlreport/internal/outcome"
)

// AnonymousPrefix marks the synthetic group id the engine assigns to checks
// written outside any named control.
const AnonymousPrefix = "(generated from "

// Metadata is the declarative input loaded before a run starts.
type Metadata struct {
	Profiles []*Profile `yaml:"profiles"`
}

// Profile is a named collection of declared groups.
type Profile struct {
	Name       string   `yaml:"name"`
	Title      string   `yaml:"title"`
	Version    string   `yaml:"version"`
	Summary    string   `yaml:"summary"`
	Maintainer string   `yaml:"maintainer"`
	Groups     []*Group `yaml:"controls"`
}

// Group is one declared control. Results are appended in arrival order and
// never reordered.
type Group struct {
	ID        string           `yaml:"id"`
	Title     string           `yaml:"title"`
	Desc      string           `yaml:"desc"`
	Impact    *float64         `yaml:"impact"`
	ProfileID string           `yaml:"-"`
	Results   []outcome.Result `yaml:"-"`
}

// Anonymous reports whether g batches ad hoc checks under a synthetic id.
func (g *Group) Anonymous() bool {
	return IsAnonymousID(g.ID)
}

// IsAnonymousID reports whether id follows the synthetic group convention.
func IsAnonymousID(id string) bool {
	return strings.HasPrefix(id, AnonymousPrefix)
}

// Group returns the declared group with the given id, or nil.
func (p *Profile) Group(id string) *Group {
	for _, g := range p.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Validate enforces unique non-empty group ids, impact within [0,1] and unique
// profile names.
func (m Metadata) Validate() error {
	var problems []string

	names := map[string]struct{}{}
	for i, p := range m.Profiles {
		if p == nil {
			problems = append(problems, fmt.Sprintf("profiles[%d] is empty", i))
			continue
		}
		label := p.Name
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("profiles[%d]", i)
		} else {
			if _, dup := names[p.Name]; dup {
				problems = append(problems, fmt.Sprintf("profile %q is duplicated", p.Name))
			}
			names[p.Name] = struct{}{}
		}

		seen := map[string]struct{}{}
		for j, g := range p.Groups {
			if g == nil || strings.TrimSpace(g.ID) == "" {
				problems = append(problems, fmt.Sprintf("%s.controls[%d].id is required", label, j))
				continue
			}
			if _, dup := seen[g.ID]; dup {
				problems = append(problems, fmt.Sprintf("%s.controls[%d]=%q is duplicated", label, j, g.ID))
				continue
			}
			seen[g.ID] = struct{}{}
			if g.Impact != nil && (*g.Impact < 0 || *g.Impact > 1) {
				problems = append(problems, fmt.Sprintf("%s.controls[%d]=%q impact %v is outside [0,1]", label, j, g.ID, *g.Impact))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("profile metadata validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
