// Package document builds the machine-readable report of a finished run.
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"controlreport/internal/outcome"
	"controlreport/internal/profile"
	"controlreport/internal/severity"
	"controlreport/internal/summary"
	"controlreport/internal/version"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported document format %q (want json or yaml)", s)
	}
}

// Source is the finished aggregation a document is built from.
type Source interface {
	Profiles() []*profile.Profile
	Unmatched() []outcome.Record
}

// Stats are run-level values that do not come from the aggregation itself.
type Stats struct {
	Duration time.Duration
	RunID    string
}

type Document struct {
	Version     string           `json:"version" yaml:"version"`
	RunID       string           `json:"run_id" yaml:"run_id"`
	Statistics  Statistics       `json:"statistics" yaml:"statistics"`
	Profiles    []Profile        `json:"profiles" yaml:"profiles"`
	OtherChecks []outcome.Record `json:"other_checks" yaml:"other_checks"`
}

type Statistics struct {
	// Duration is in seconds.
	Duration float64          `json:"duration" yaml:"duration"`
	Controls summary.Groups   `json:"controls" yaml:"controls"`
	Outcomes summary.Outcomes `json:"outcomes" yaml:"outcomes"`
}

type Profile struct {
	Name       string  `json:"name,omitempty" yaml:"name,omitempty"`
	Title      string  `json:"title,omitempty" yaml:"title,omitempty"`
	Version    string  `json:"version,omitempty" yaml:"version,omitempty"`
	Summary    string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Maintainer string  `json:"maintainer,omitempty" yaml:"maintainer,omitempty"`
	Controls   []Group `json:"controls" yaml:"controls"`
}

// Group is a declared control and the results attached to it. Severity is
// empty for a group that received no results.
type Group struct {
	ID       string            `json:"id" yaml:"id"`
	Title    string            `json:"title,omitempty" yaml:"title,omitempty"`
	Desc     string            `json:"desc,omitempty" yaml:"desc,omitempty"`
	Impact   *float64          `json:"impact,omitempty" yaml:"impact,omitempty"`
	Severity severity.Severity `json:"severity,omitempty" yaml:"severity,omitempty"`
	Results  []outcome.Result  `json:"results" yaml:"results"`
}

// Build assembles the document. Anonymous groups appear under their profile
// but are left out of the control tally; every result, matched or not, is in
// the outcome tally.
func Build(src Source, stats Stats) Document {
	runID := stats.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	doc := Document{
		Version:     version.String(),
		RunID:       runID,
		Statistics:  Statistics{Duration: stats.Duration.Seconds()},
		Profiles:    []Profile{},
		OtherChecks: []outcome.Record{},
	}

	for _, p := range src.Profiles() {
		view := Profile{
			Name:       p.Name,
			Title:      p.Title,
			Version:    p.Version,
			Summary:    p.Summary,
			Maintainer: p.Maintainer,
			Controls:   make([]Group, 0, len(p.Groups)),
		}
		for _, g := range p.Groups {
			gv := Group{
				ID:      g.ID,
				Title:   g.Title,
				Desc:    g.Desc,
				Impact:  g.Impact,
				Results: append([]outcome.Result{}, g.Results...),
			}
			if len(g.Results) > 0 {
				gv.Severity = severity.OfResults(g.Results, g.Impact)
				if !g.Anonymous() {
					doc.Statistics.Controls.Add(gv.Severity)
				}
				doc.Statistics.Outcomes.AddResults(g.Results)
			}
			view.Controls = append(view.Controls, gv)
		}
		doc.Profiles = append(doc.Profiles, view)
	}

	for _, rec := range src.Unmatched() {
		doc.OtherChecks = append(doc.OtherChecks, rec)
		doc.Statistics.Outcomes.Add(rec.Status)
	}
	return doc
}

// Encode writes doc to w in the requested format.
func Encode(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json document: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml document: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format %q", f)
	}
}
