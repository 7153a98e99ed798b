// Package severity maps check outcomes and declared impact to a severity tier
// and reduces many tiers to the worst one.
package severity

import "controlreport/internal/outcome"

// Severity is the display tier of a result or a group.
type Severity string

const (
	Unknown  Severity = "unknown"
	Passed   Severity = "passed"
	Skipped  Severity = "skipped"
	Minor    Severity = "minor"
	Major    Severity = "major"
	Failed   Severity = "failed"
	Critical Severity = "critical"
)

// Impact thresholds are inclusive lower bounds.
const (
	CriticalImpact = 0.7
	MajorImpact    = 0.4
)

var rank = map[Severity]float64{
	Unknown:  -3,
	Passed:   -2,
	Skipped:  -1,
	Minor:    1,
	Major:    2,
	Failed:   2.5,
	Critical: 3,
}

// Rank returns the position of s in the total order. Unrecognized values rank
// as Unknown.
func Rank(s Severity) float64 {
	if r, ok := rank[s]; ok {
		return r
	}
	return rank[Unknown]
}

// IsFailure reports whether s is one of the failing tiers.
func (s Severity) IsFailure() bool {
	return Rank(s) > 0
}

func (s Severity) String() string { return string(s) }

// Classify derives the tier of one result. Non-failing statuses map 1:1. A
// failure without an impact score falls back to the generic Failed tier.
func Classify(status outcome.Status, impact *float64) Severity {
	switch status {
	case outcome.StatusPassed:
		return Passed
	case outcome.StatusSkipped:
		return Skipped
	case outcome.StatusFailed:
	default:
		return Unknown
	}

	if impact == nil {
		return Failed
	}
	switch v := *impact; {
	case v >= CriticalImpact:
		return Critical
	case v >= MajorImpact:
		return Major
	default:
		return Minor
	}
}

// Reduce returns the worst of the given tiers, or Unknown for none.
func Reduce(tiers ...Severity) Severity {
	worst := Unknown
	for _, s := range tiers {
		if Rank(s) > Rank(worst) {
			worst = s
		}
	}
	return worst
}

// OfResults classifies each result with the group impact and reduces them.
func OfResults(results []outcome.Result, impact *float64) Severity {
	worst := Unknown
	for _, r := range results {
		worst = Reduce(worst, Classify(r.Status, impact))
	}
	return worst
}
