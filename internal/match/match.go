// Package match resolves which declared profile and group an outcome belongs to.
//
// Profile resolution is an ordered rule list; the first rule that returns a
// profile wins and later rules are not consulted, even if the chosen profile
// turns out not to declare the outcome's group:
//
//  1. profile_id: the record's profile id equals a profile name.
//  2. declared_group: the first profile declaring a group whose id equals the record id.
//
// Records that resolve to no profile, or to a profile without a matching group,
// are unmatched. That is an expected path, not an error.
package match

import (
	"controlreport/internal/outcome"
	"controlreport/internal/profile"
)

// Rule is one step of profile resolution.
type Rule struct {
	Name    string
	Resolve func(rec outcome.Record, profiles []*profile.Profile) *profile.Profile
}

// ProfileRules is the resolution order used by Matcher.
var ProfileRules = []Rule{
	{Name: "profile_id", Resolve: ByProfileID},
	{Name: "declared_group", Resolve: ByDeclaredGroup},
}

// ByProfileID matches the record's profile id against profile names exactly.
func ByProfileID(rec outcome.Record, profiles []*profile.Profile) *profile.Profile {
	if rec.ProfileID == "" {
		return nil
	}
	for _, p := range profiles {
		if p.Name == rec.ProfileID {
			return p
		}
	}
	return nil
}

// ByDeclaredGroup returns the first profile that declares a group with the
// record's id.
func ByDeclaredGroup(rec outcome.Record, profiles []*profile.Profile) *profile.Profile {
	for _, p := range profiles {
		if p.Group(rec.ID) != nil {
			return p
		}
	}
	return nil
}

// Match is a record together with its resolved owner, if any.
type Match struct {
	Record  outcome.Record
	Profile *profile.Profile
	Group   *profile.Group
	Rule    string
}

// Matched reports whether the record found an owning group.
func (m Match) Matched() bool {
	return m.Profile != nil && m.Group != nil
}

// Anonymous reports whether the record belongs to a synthetic ad hoc group.
// Unmatched records are judged by their own id.
func (m Match) Anonymous() bool {
	if m.Group != nil {
		return m.Group.Anonymous()
	}
	return profile.IsAnonymousID(m.Record.ID)
}

// Matcher resolves records against a fixed set of profiles.
type Matcher struct {
	Profiles []*profile.Profile
	Rules    []Rule
}

// NewMatcher constructs a Matcher using ProfileRules.
func NewMatcher(profiles []*profile.Profile) *Matcher {
	return &Matcher{Profiles: profiles, Rules: ProfileRules}
}

// ResolveProfile applies the rules in order and returns the first hit along
// with the name of the rule that produced it.
func (m *Matcher) ResolveProfile(rec outcome.Record) (*profile.Profile, string) {
	for _, r := range m.Rules {
		if p := r.Resolve(rec, m.Profiles); p != nil {
			return p, r.Name
		}
	}
	return nil, ""
}

// ResolveGroup finds the record's group within p.
func (m *Matcher) ResolveGroup(rec outcome.Record, p *profile.Profile) *profile.Group {
	if p == nil {
		return nil
	}
	return p.Group(rec.ID)
}

// Match resolves both profile and group. A profile without the group yields an
// unmatched result with Profile cleared.
func (m *Matcher) Match(rec outcome.Record) Match {
	p, rule := m.ResolveProfile(rec)
	g := m.ResolveGroup(rec, p)
	if g == nil {
		return Match{Record: rec}
	}
	return Match{Record: rec, Profile: p, Group: g, Rule: rule}
}
