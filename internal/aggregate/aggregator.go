// Package aggregate attaches matched outcomes to their declared groups and
// keeps everything else in an unmatched bucket.
package aggregate

import (
	"controlreport/internal/match"
	"controlreport/internal/outcome"
	"controlreport/internal/profile"
)

// Aggregator collects results into the profile tree. Every observed record
// ends up in exactly one group's results or in the unmatched bucket.
type Aggregator struct {
	profiles  []*profile.Profile
	anonymous []*profile.Group
	anonSeen  map[*profile.Group]struct{}
	unmatched []outcome.Record
}

// New constructs an Aggregator over profiles loaded before the run.
func New(profiles []*profile.Profile) *Aggregator {
	return &Aggregator{
		profiles: profiles,
		anonSeen: make(map[*profile.Group]struct{}),
	}
}

// Observe routes one matched or unmatched record.
func (a *Aggregator) Observe(m match.Match) {
	if !m.Matched() {
		a.unmatched = append(a.unmatched, m.Record)
		return
	}
	a.Attach(m.Record, m.Group)
}

// Attach appends the record's result to g. The record id and profile id are
// dropped; the group already carries both.
func (a *Aggregator) Attach(rec outcome.Record, g *profile.Group) {
	g.Results = append(g.Results, rec.Result)
	if !g.Anonymous() {
		return
	}
	if _, ok := a.anonSeen[g]; ok {
		return
	}
	a.anonSeen[g] = struct{}{}
	a.anonymous = append(a.anonymous, g)
}

// Finish has nothing to flush; the tree is complete once the stream ends.
func (a *Aggregator) Finish() error { return nil }

// Profiles returns the profile tree with results attached.
func (a *Aggregator) Profiles() []*profile.Profile { return a.profiles }

// Anonymous returns anonymous groups in order of their first result.
func (a *Aggregator) Anonymous() []*profile.Group { return a.anonymous }

// Unmatched returns records no declared group claimed, in arrival order.
func (a *Aggregator) Unmatched() []outcome.Record { return a.unmatched }
