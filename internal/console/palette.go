package console

import (
	"strings"

	"controlreport/internal/outcome"
	"controlreport/internal/severity"
)

// Palette maps severity tiers to terminal color codes. Reset terminates every
// templated line, colored or not.
type Palette struct {
	Colors map[severity.Severity]string
	Reset  string
}

// ANSIPalette is the palette used on terminals.
func ANSIPalette() Palette {
	return Palette{
		Colors: map[severity.Severity]string{
			severity.Critical: "\033[0;1;31m",
			severity.Major:    "\033[0;1;31m",
			severity.Minor:    "\033[0;36m",
			severity.Failed:   "\033[0;1;31m",
			severity.Passed:   "\033[0;1;32m",
			severity.Skipped:  "\033[0;37m",
		},
		Reset: "\033[0m",
	}
}

// PlainPalette emits no escape codes at all.
func PlainPalette() Palette {
	return Palette{Colors: map[severity.Severity]string{}}
}

// Color returns the code for s, or "" when s has none.
func (p Palette) Color(s severity.Severity) string {
	return p.Colors[s]
}

const (
	indicatorEmpty = "     "
	indicatorSmall = "   "
)

var severityIndicators = map[severity.Severity]string{
	severity.Critical: "  ✖  ",
	severity.Major:    "  ✖  ",
	severity.Minor:    "  ✖  ",
	severity.Failed:   "  ✖  ",
	severity.Skipped:  "  ○  ",
	severity.Passed:   "  ✔  ",
	severity.Unknown:  "  ?  ",
}

var statusIndicators = map[outcome.Status]string{
	outcome.StatusFailed:  "  ✖  ",
	outcome.StatusSkipped: "  ○  ",
	outcome.StatusPassed:  "  ✔  ",
	outcome.StatusUnknown: "  ?  ",
}

func severityIndicator(s severity.Severity) string {
	if ind, ok := severityIndicators[s]; ok {
		return ind
	}
	return severityIndicators[severity.Unknown]
}

func statusIndicator(s outcome.Status) string {
	if ind, ok := statusIndicators[s]; ok {
		return ind
	}
	return indicatorEmpty
}

// LineTemplate is the layout of every group and result line.
const LineTemplate = "%color%indicator%id%summary"

type line struct {
	color     string
	indicator string
	id        string
	summary   string
}

// render substitutes all placeholders in a single pass so placeholder-like
// text inside a summary is left alone.
func (l line) render(reset string) string {
	r := strings.NewReplacer(
		"%color", l.color,
		"%indicator", l.indicator,
		"%id", l.id,
		"%summary", l.summary,
	)
	return r.Replace(LineTemplate) + reset
}

// indent aligns continuation lines of a multi-line text under the first.
func indent(text, prefix string) string {
	return strings.ReplaceAll(text, "\n", "\n"+prefix)
}
