// Package console renders a run as a streaming, severity-colored text report.
//
// The Printer is a single-pass state machine. It accumulates results for one
// group at a time and flushes that group as soon as a result for a different
// group arrives, so output never waits for the end of the run. Anonymous
// groups are held back and printed together once the stream closes.
package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"controlreport/internal/match"
	"controlreport/internal/outcome"
	"controlreport/internal/profile"
	"controlreport/internal/severity"
	"controlreport/internal/summary"
)

const (
	// UntitledGroup stands in for a group with neither title nor results.
	UntitledGroup = "Untitled control"
	// NoTestsExecuted is printed under a profile that received no groups.
	NoTestsExecuted = "No tests executed."

	multiResultTitleMax = 60
	detailIndent        = indicatorSmall + indicatorEmpty
)

// Options configures a Printer.
type Options struct {
	// Target names the system the checks ran against, shown in profile headers.
	Target  string
	Palette Palette
}

// accumulation is the group currently being collected, or a flushed
// anonymous group waiting for the final batch.
type accumulation struct {
	key       string
	id        string
	title     string
	impact    *float64
	profile   *profile.Profile
	anonymous bool
	declared  bool
	results   []outcome.Result
}

// Printer streams the console report. It is not safe for concurrent use.
type Printer struct {
	w        io.Writer
	opts     Options
	profiles []*profile.Profile
	printed  map[*profile.Profile]bool

	current   *accumulation
	anonymous []*accumulation
	anonByKey map[string]*accumulation
	unmatched int

	// tallied holds the severity each declared group was counted at, so a
	// group whose results arrive in several runs is counted once.
	tallied map[string]severity.Severity

	groups   summary.Groups
	outcomes summary.Outcomes
	err      error
}

// NewPrinter writes to w. profiles is the declared metadata, used at close to
// report profiles that never received a group.
func NewPrinter(w io.Writer, profiles []*profile.Profile, opts Options) *Printer {
	if opts.Palette.Colors == nil {
		opts.Palette = ANSIPalette()
	}
	return &Printer{
		w:         w,
		opts:      opts,
		profiles:  profiles,
		printed:   make(map[*profile.Profile]bool),
		anonByKey: make(map[string]*accumulation),
		tallied:   make(map[string]severity.Severity),
	}
}

// Observe feeds one result in execution order.
func (p *Printer) Observe(m match.Match) {
	key := p.groupKey(m)
	if p.current != nil && p.current.key != key {
		p.flush()
	}
	if p.current == nil {
		p.current = startAccumulation(key, m)
	}
	p.current.results = append(p.current.results, m.Record.Result)
}

// Finish flushes the last group, prints the anonymous batch, unprinted
// profiles and both summary lines. It returns the first write error seen.
func (p *Printer) Finish() error {
	hadGroup := p.current != nil
	p.flush()
	if hadGroup {
		p.println("")
	}
	if p.printAnonymous() {
		p.println("")
	}

	for _, prof := range p.profiles {
		if p.printed[prof] {
			continue
		}
		p.printProfile(prof)
		p.printLine(line{indicator: indicatorEmpty, summary: NoTestsExecuted})
		p.println("")
	}

	pal := p.opts.Palette
	if g := p.groups; g.Total > 0 {
		p.println(fmt.Sprintf("Profile Summary: %s%d successful%s, %s%d failures (%d critical, %d major, %d minor)%s, %s%d skipped%s",
			pal.Color(severity.Passed), g.Passed, pal.Reset,
			pal.Color(severity.Failed), g.Failed.Total, g.Failed.Critical, g.Failed.Major, g.Failed.Minor, pal.Reset,
			pal.Color(severity.Skipped), g.Skipped, pal.Reset))
	}
	if o := p.outcomes; o.Total > 0 {
		p.println(fmt.Sprintf("Test Summary: %s%d successful%s, %s%d failures%s, %s%d skipped%s",
			pal.Color(severity.Passed), o.Passed, pal.Reset,
			pal.Color(severity.Failed), o.Failed, pal.Reset,
			pal.Color(severity.Skipped), o.Skipped, pal.Reset))
	}
	return p.err
}

// Groups returns the group-level tally so far.
func (p *Printer) Groups() summary.Groups { return p.groups }

// Outcomes returns the outcome-level tally so far.
func (p *Printer) Outcomes() summary.Outcomes { return p.outcomes }

// groupKey identifies the group a match accumulates into. Each unmatched
// record is a group of its own.
func (p *Printer) groupKey(m match.Match) string {
	if m.Matched() {
		return m.Profile.Name + "\x00" + m.Group.ID
	}
	p.unmatched++
	return fmt.Sprintf("\x00%d", p.unmatched)
}

func startAccumulation(key string, m match.Match) *accumulation {
	acc := &accumulation{key: key, anonymous: m.Anonymous()}
	if !m.Matched() {
		acc.id = m.Record.ID
		return acc
	}
	acc.id = m.Group.ID
	acc.title = m.Group.Title
	acc.impact = m.Group.Impact
	acc.profile = m.Profile
	acc.declared = true
	return acc
}

func (p *Printer) flush() {
	acc := p.current
	if acc == nil {
		return
	}
	p.current = nil

	p.outcomes.AddResults(acc.results)

	if acc.anonymous {
		if prev, ok := p.anonByKey[acc.key]; ok {
			prev.results = append(prev.results, acc.results...)
			return
		}
		p.anonByKey[acc.key] = acc
		p.anonymous = append(p.anonymous, acc)
		return
	}

	if acc.profile != nil && !p.printed[acc.profile] {
		p.printProfile(acc.profile)
	}
	worst := severity.OfResults(acc.results, acc.impact)
	if acc.declared {
		p.tally(acc.key, worst)
	}

	id := ""
	if acc.id != "" {
		id = acc.id + ": "
	}

	fails, skips, passes, rest := partition(acc.results, acc.impact)
	p.printLine(line{
		color:     p.opts.Palette.Color(worst),
		indicator: severityIndicator(worst),
		id:        id,
		summary:   indent(groupSummary(acc, len(fails), len(skips)), indicatorEmpty),
	})

	ordered := make([]outcome.Result, 0, len(acc.results))
	ordered = append(ordered, fails...)
	ordered = append(ordered, skips...)
	ordered = append(ordered, passes...)
	ordered = append(ordered, rest...)
	for _, r := range ordered {
		ind := statusIndicator(r.Status)
		if len(ordered) == 1 {
			ind = indicatorEmpty
		}
		p.printLine(line{
			color:     p.opts.Palette.Color(severity.Classify(r.Status, acc.impact)),
			indicator: indicatorSmall + ind,
			summary:   indent(detailMessage(r), detailIndent),
		})
	}
}

// tally counts a declared group once, at the worst severity seen over all of
// its flushes.
func (p *Printer) tally(key string, s severity.Severity) {
	if prev, ok := p.tallied[key]; ok {
		p.groups.Remove(prev)
		s = severity.Reduce(prev, s)
	}
	p.tallied[key] = s
	p.groups.Add(s)
}

// failureText is the captured failure prefixed by its exception class, or ""
// when the result carries neither.
func failureText(r outcome.Result) string {
	switch {
	case r.Exception != "" && r.Message != "":
		return r.Exception + ": " + r.Message
	case r.Exception != "":
		return r.Exception
	default:
		return r.Message
	}
}

func detailMessage(r outcome.Result) string {
	if ft := failureText(r); ft != "" {
		return ft
	}
	return r.DisplayMessage()
}

// partition splits results into failures, skips, passes and anything with an
// unknown status, each keeping arrival order.
func partition(results []outcome.Result, impact *float64) (fails, skips, passes, rest []outcome.Result) {
	for _, r := range results {
		switch s := severity.Classify(r.Status, impact); {
		case s.IsFailure():
			fails = append(fails, r)
		case s == severity.Skipped:
			skips = append(skips, r)
		case s == severity.Passed:
			passes = append(passes, r)
		default:
			rest = append(rest, r)
		}
	}
	return fails, skips, passes, rest
}

// groupTitle derives a title when the group declares none.
func groupTitle(acc *accumulation) string {
	if acc.title != "" {
		return acc.title
	}
	switch len(acc.results) {
	case 0:
		return UntitledGroup
	case 1:
		return acc.results[0].Description
	}
	descs := make([]string, len(acc.results))
	for i, r := range acc.results {
		descs[i] = r.Description
	}
	return truncate(strings.Join(descs, "; "), multiResultTitleMax)
}

// groupSummary is the title plus a parenthetical: the message of a lone
// result, or failed/skipped counts for several.
func groupSummary(acc *accumulation, failed, skipped int) string {
	title := groupTitle(acc)

	var suffix string
	if len(acc.results) == 1 {
		suffix = acc.results[0].Message
	} else {
		var parts []string
		if failed > 0 {
			parts = append(parts, fmt.Sprintf("%d failed", failed))
		}
		if skipped > 0 {
			parts = append(parts, fmt.Sprintf("%d skipped", skipped))
		}
		suffix = strings.Join(parts, " ")
	}

	if suffix == "" {
		return title
	}
	return title + " (" + suffix + ")"
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

// anonymousBatch is a run of anonymous groups sharing a description prefix.
type anonymousBatch struct {
	header string
	groups []*accumulation
}

// anonymousSection holds one profile's batches. Unmatched anonymous records
// form a section with no profile.
type anonymousSection struct {
	profile  *profile.Profile
	batches  []*anonymousBatch
	byHeader map[string]*anonymousBatch
}

// printAnonymous prints the batches profile by profile, each under its
// profile header unless that header was already printed. It reports whether
// anything was written.
func (p *Printer) printAnonymous() bool {
	var sections []*anonymousSection
	byProfile := map[*profile.Profile]*anonymousSection{}
	for _, acc := range p.anonymous {
		sec, ok := byProfile[acc.profile]
		if !ok {
			sec = &anonymousSection{profile: acc.profile, byHeader: map[string]*anonymousBatch{}}
			byProfile[acc.profile] = sec
			sections = append(sections, sec)
		}
		h := batchHeader(acc)
		b, ok := sec.byHeader[h]
		if !ok {
			b = &anonymousBatch{header: h}
			sec.byHeader[h] = b
			sec.batches = append(sec.batches, b)
		}
		b.groups = append(b.groups, acc)
	}

	for _, sec := range sections {
		if sec.profile != nil && !p.printed[sec.profile] {
			p.printProfile(sec.profile)
		}
		p.printBatches(sec.batches)
	}
	return len(sections) > 0
}

func (p *Printer) printBatches(batches []*anonymousBatch) {
	for _, b := range batches {
		p.printLine(line{indicator: "  ", summary: b.header})
		for _, acc := range b.groups {
			for _, r := range acc.results {
				msg := r.Description
				if ft := failureText(r); ft != "" {
					msg += "\n" + ft
				}
				p.printLine(line{
					color:     p.opts.Palette.Color(severity.Classify(r.Status, acc.impact)),
					indicator: indicatorSmall + statusIndicator(r.Status),
					summary:   indent(msg, detailIndent),
				})
			}
		}
	}
}

// batchHeader is the first two words of the group's first description.
func batchHeader(acc *accumulation) string {
	if len(acc.results) == 0 {
		return UntitledGroup
	}
	words := strings.Fields(acc.results[0].Description)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

func (p *Printer) printProfile(prof *profile.Profile) {
	p.printed[prof] = true

	name := prof.Name
	if name == "" {
		name = "unknown"
	}
	version := prof.Version
	if version == "" {
		version = "(not specified)"
	}

	p.println("")
	if prof.Title == "" {
		p.println("Profile: " + name)
	} else {
		p.println("Profile: " + prof.Title + " (" + name + ")")
	}
	p.println("Version: " + version)
	if p.opts.Target != "" {
		p.println("Target:  " + p.opts.Target)
	}
	p.println("")
}

func (p *Printer) printLine(l line) {
	p.println(l.render(p.opts.Palette.Reset))
}

// println writes one whole line per call so an interrupted run leaves only
// complete lines behind.
func (p *Printer) println(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s+"\n")
}
