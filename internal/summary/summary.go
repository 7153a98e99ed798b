// Package summary keeps the two running tallies of a run: one per group and one
// per raw outcome.
package summary

import (
	"fmt"

	"controlreport/internal/outcome"
	"controlreport/internal/severity"
)

// FailedGroups breaks failing groups down by impact tier. Groups failing
// without an impact score count toward Total only.
type FailedGroups struct {
	Total    int `json:"total" yaml:"total"`
	Critical int `json:"critical" yaml:"critical"`
	Major    int `json:"major" yaml:"major"`
	Minor    int `json:"minor" yaml:"minor"`
}

// Groups counts named groups by their reduced severity.
type Groups struct {
	Total   int          `json:"total" yaml:"total"`
	Passed  int          `json:"passed" yaml:"passed"`
	Skipped int          `json:"skipped" yaml:"skipped"`
	Failed  FailedGroups `json:"failed" yaml:"failed"`
}

// Add records one group. Unknown groups are not counted.
func (g *Groups) Add(s severity.Severity) {
	switch s {
	case severity.Passed:
		g.Passed++
	case severity.Skipped:
		g.Skipped++
	case severity.Critical:
		g.Failed.Critical++
		g.Failed.Total++
	case severity.Major:
		g.Failed.Major++
		g.Failed.Total++
	case severity.Minor:
		g.Failed.Minor++
		g.Failed.Total++
	case severity.Failed:
		g.Failed.Total++
	default:
		return
	}
	g.Total++
}

// Remove undoes one Add of s.
func (g *Groups) Remove(s severity.Severity) {
	switch s {
	case severity.Passed:
		g.Passed--
	case severity.Skipped:
		g.Skipped--
	case severity.Critical:
		g.Failed.Critical--
		g.Failed.Total--
	case severity.Major:
		g.Failed.Major--
		g.Failed.Total--
	case severity.Minor:
		g.Failed.Minor--
		g.Failed.Total--
	case severity.Failed:
		g.Failed.Total--
	default:
		return
	}
	g.Total--
}

func (g Groups) String() string {
	return fmt.Sprintf("%d passed / %d failed (%d critical, %d major, %d minor) / %d skipped",
		g.Passed, g.Failed.Total, g.Failed.Critical, g.Failed.Major, g.Failed.Minor, g.Skipped)
}

// Outcomes counts individual results by status.
type Outcomes struct {
	Total   int `json:"total" yaml:"total"`
	Passed  int `json:"passed" yaml:"passed"`
	Failed  int `json:"failed" yaml:"failed"`
	Skipped int `json:"skipped" yaml:"skipped"`
}

// Add records one result. Unknown statuses add to Total only.
func (o *Outcomes) Add(s outcome.Status) {
	o.Total++
	switch s {
	case outcome.StatusPassed:
		o.Passed++
	case outcome.StatusFailed:
		o.Failed++
	case outcome.StatusSkipped:
		o.Skipped++
	}
}

// AddResults records every result in rs.
func (o *Outcomes) AddResults(rs []outcome.Result) {
	for _, r := range rs {
		o.Add(r.Status)
	}
}

func (o Outcomes) String() string {
	return fmt.Sprintf("%d passed / %d failed / %d skipped", o.Passed, o.Failed, o.Skipped)
}
