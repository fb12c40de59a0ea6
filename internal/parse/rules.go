// Package parse extracts structured vote records from segmented blocks
// of minutes text using ordered, jurisdiction-specific pattern rules.
package parse

import (
	"fmt"
	"regexp"
)

// Rule is one candidate pattern for a parsing concern. Rules are tried
// in list order and the first match wins: earlier rules are assumed
// more specific and more reliable for their jurisdiction.
type Rule struct {
	Name    string
	Pattern string

	re *regexp.Regexp
}

// Compile prepares the rule's regex. Patterns come from profiles and
// learning memory, so a bad pattern is an error, not a panic.
func (r *Rule) Compile() error {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return fmt.Errorf("rule %s: %w", r.Name, err)
	}
	r.re = re
	return nil
}

// RuleSet is the ordered pattern rules for one jurisdiction, one list
// per concern.
type RuleSet struct {
	// Motion rules capture named groups: mover, action, seconder (optional)
	Motion []Rule

	// Outcome rules capture: result, and optionally ayes/noes counts
	Outcome []Rule

	// Ballot rules capture: cat, the section category marker
	Ballot []Rule

	// Recusal rules capture: member, and optionally reason
	Recusal []Rule
}

const memberTitle = `(?:COUNCIL\s?MEMBER|MAYOR\s+PRO\s+TEM|VICE\s+MAYOR|MAYOR|COMMISSIONER|DR\.?)\s+`

// DefaultRuleSet returns the generic rules that work across most
// council minutes. Jurisdiction profiles prepend their own rules.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Motion: []Rule{
			{
				Name: "motion:titled-moved-seconded",
				Pattern: `(?i)` + memberTitle + `(?P<mover>[A-Z][A-Za-z'\-]+)\s+(?:moved|made a motion)\s+(?P<action>.+?),\s+seconded by\s+(?:` +
					memberTitle + `)?(?P<seconder>[A-Z][A-Za-z'\-]+)`,
			},
			{
				Name: "motion:it-was-moved",
				Pattern: `(?i)it was moved by\s+(?:` + memberTitle + `)?(?P<mover>[A-Z][A-Za-z'\-]+)\s*,?\s+(?:and\s+)?seconded by\s+(?:` +
					memberTitle + `)?(?P<seconder>[A-Z][A-Za-z'\-]+)\s*,?\s*(?P<action>to .+?)(?:\.|;|$)`,
			},
			{
				Name:    "motion:bare-moved",
				Pattern: `(?i)(?:` + memberTitle + `)?(?P<mover>[A-Z][A-Za-z'\-]{2,})\s+moved\s+(?P<action>.+?)(?:\.|;|$)`,
			},
		},
		Outcome: []Rule{
			{
				Name:    "outcome:motion-result-count",
				Pattern: `(?i)MOTION\s+(?P<result>carried|passed|adopted|approved|failed|defeated|denied)\s*,?\s*(?:by a vote of\s*)?(?P<ayes>\d+)\s*(?:[-\x{2013}\x{2014}]|to)\s*(?P<noes>\d+)`,
			},
			{
				Name:    "outcome:result-count",
				Pattern: `(?i)\b(?P<result>carried|passed|adopted|approved|failed|defeated|denied)\b[^.]*?(?P<ayes>\d+)\s*(?:[-\x{2013}\x{2014}]|to)\s*(?P<noes>\d+)`,
			},
			{
				Name:    "outcome:unanimous",
				Pattern: `(?i)MOTION\s+(?P<result>carried|passed|adopted|approved)\s+unanimously`,
			},
			{
				Name:    "outcome:bare-result",
				Pattern: `(?i)MOTION\s+(?:was\s+)?(?P<result>carried|passed|adopted|approved|failed|defeated|denied|withdrawn)\b`,
			},
		},
		Ballot: []Rule{
			{
				Name:    "ballot:marker-sections",
				Pattern: `\b(?P<cat>AYES|NOES|ABSTAIN|ABSENT|RECUSED)\b\s*:?\s*`,
			},
		},
		Recusal: []Rule{
			{
				Name:    "recusal:reason",
				Pattern: `(?i)(?:` + memberTitle + `)?(?P<member>[A-Z][A-Za-z'\-]+)\s+recused\s+(?:himself|herself|themselves)?\s*(?:from the vote\s*)?(?:due to|because of|citing)\s+(?P<reason>[^.]+)`,
			},
			{
				Name:    "recusal:bare",
				Pattern: `(?i)(?:` + memberTitle + `)?(?P<member>[A-Z][A-Za-z'\-]+)\s+recused`,
			},
		},
	}
}

// FallbackRuleSet returns the extra-loose rules appended during the
// broader fallback pass. They accept motions without a named mover and
// outcomes carried by bare numeric counts.
func FallbackRuleSet() *RuleSet {
	return &RuleSet{
		Motion: []Rule{
			{
				Name:    "motion:fallback-motion-colon",
				Pattern: `(?i)MOTION\s*[:\-]\s*(?P<action>[^.]+)`,
			},
			{
				Name:    "motion:fallback-moved-to",
				Pattern: `(?i)\bmoved\s+(?P<action>to [^.;]+)`,
			},
		},
		Outcome: []Rule{
			{
				Name:    "outcome:fallback-bare-count",
				Pattern: `(?i)\bvote(?:d)?\s*(?:of|was)?\s*:?\s*(?P<ayes>\d+)\s*(?:[-\x{2013}\x{2014}]|to)\s*(?P<noes>\d+)`,
			},
			{
				Name:    "outcome:fallback-count-anywhere",
				Pattern: `(?P<ayes>\d+)\s*[-\x{2013}\x{2014}]\s*(?P<noes>\d+)`,
			},
		},
	}
}

// CompileAll compiles every rule in the set, dropping rules that fail
// to compile. Returns the first compile error seen for diagnostics.
func (rs *RuleSet) CompileAll() error {
	var firstErr error
	rs.Motion = compileRules(rs.Motion, &firstErr)
	rs.Outcome = compileRules(rs.Outcome, &firstErr)
	rs.Ballot = compileRules(rs.Ballot, &firstErr)
	rs.Recusal = compileRules(rs.Recusal, &firstErr)
	return firstErr
}

func compileRules(rules []Rule, firstErr *error) []Rule {
	kept := rules[:0]
	for _, r := range rules {
		if err := r.Compile(); err != nil {
			if *firstErr == nil {
				*firstErr = err
			}
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// Merge returns a new set with other's rules appended after rs's own.
// Order matters: rs's rules keep priority.
func (rs *RuleSet) Merge(other *RuleSet) *RuleSet {
	if other == nil {
		return rs
	}
	return &RuleSet{
		Motion:  append(append([]Rule{}, rs.Motion...), other.Motion...),
		Outcome: append(append([]Rule{}, rs.Outcome...), other.Outcome...),
		Ballot:  append(append([]Rule{}, rs.Ballot...), other.Ballot...),
		Recusal: append(append([]Rule{}, rs.Recusal...), other.Recusal...),
	}
}

// firstMatch returns the first rule whose regex matches, with the named
// capture groups of that match.
func firstMatch(rules []Rule, text string) (map[string]string, string, bool) {
	for _, r := range rules {
		if r.re == nil {
			continue
		}
		match := r.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		groups := make(map[string]string)
		for i, name := range r.re.SubexpNames() {
			if name != "" && i < len(match) {
				groups[name] = match[i]
			}
		}
		return groups, r.Name, true
	}
	return nil, "", false
}
