package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/opencouncil/votescan/internal/model"
	"github.com/opencouncil/votescan/internal/segment"
)

// MemberResolver canonicalizes raw member-name fragments against the
// jurisdiction roster. Resolve returns false for unknown names.
type MemberResolver interface {
	Resolve(raw string) (string, bool)
}

// sectionChoices maps ballot section markers to vote choices
var sectionChoices = map[string]model.VoteChoice{
	"AYES":    model.VoteAye,
	"NOES":    model.VoteNay,
	"ABSTAIN": model.VoteAbstain,
	"ABSENT":  model.VoteAbsent,
	"RECUSED": model.VoteRecusal,
}

// Parser extracts a VoteRecord from one vote block
type Parser struct {
	rules    *RuleSet
	resolver MemberResolver
}

// NewParser creates a parser over a compiled rule set
func NewParser(rules *RuleSet, resolver MemberResolver) *Parser {
	return &Parser{rules: rules, resolver: resolver}
}

// Parse extracts a vote record from the block. Returns nil when the
// motion rule or the outcome rule fails to match: rejected blocks are a
// permanent per-block decision, never an error for the meeting.
func (p *Parser) Parse(block segment.Block) *model.VoteRecord {
	motion, motionRule, ok := firstMatch(p.rules.Motion, block.Text)
	if !ok {
		return nil
	}

	outcome, _, ok := firstMatch(p.rules.Outcome, block.Text)
	if !ok {
		return nil
	}

	record := &model.VoteRecord{
		MotionText:  strings.TrimSpace(motion["action"]),
		MemberVotes: model.MemberBallot{},
	}

	p.resolvePrincipals(record, motion)

	reported, hasCount := parseReportedCount(outcome)
	record.Outcome = outcomeFromResult(outcome["result"], reported)

	p.parseBallots(record, block.Text)
	p.parseRecusals(record, block.Text)

	record.Tally = p.buildTally(record, reported, hasCount)
	if hasCount {
		record.VoteCount = fmt.Sprintf("%d-%d", reported.Ayes, reported.Noes)
	} else {
		counted := record.CountedTally()
		record.VoteCount = fmt.Sprintf("%d-%d", counted.Ayes, counted.Noes)
	}

	status := model.MotionVoted
	if strings.EqualFold(outcome["result"], "withdrawn") {
		status = model.MotionWithdrawn
	}
	record.Motion = &model.MotionContext{
		ID:        fmt.Sprintf("motion-%03d", block.Index+1),
		Type:      model.ClassifyMotion(record.MotionText),
		Text:      record.MotionText,
		Mover:     record.Mover,
		Seconder:  record.Seconder,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
	record.MotionID = record.Motion.ID

	if record.MotionText == "" {
		record.AddNote("motion rule " + motionRule + " matched without action text")
	}

	return record
}

// MotionRule reports the name of the motion rule that matches the
// block, empty when none does. Used for pattern bookkeeping.
func (p *Parser) MotionRule(block segment.Block) string {
	_, name, ok := firstMatch(p.rules.Motion, block.Text)
	if !ok {
		return ""
	}
	return name
}

// resolvePrincipals canonicalizes mover and seconder through the roster
func (p *Parser) resolvePrincipals(record *model.VoteRecord, motion map[string]string) {
	if raw := strings.TrimSpace(motion["mover"]); raw != "" {
		if name, ok := p.resolver.Resolve(raw); ok {
			record.Mover = name
		} else {
			record.Mover = ""
			record.AddNote(fmt.Sprintf("unknown mover %q dropped", raw))
		}
	}
	if raw := strings.TrimSpace(motion["seconder"]); raw != "" {
		if name, ok := p.resolver.Resolve(raw); ok {
			record.Seconder = name
		} else {
			record.Seconder = ""
			record.AddNote(fmt.Sprintf("unknown seconder %q dropped", raw))
		}
	}
}

// parseBallots fills member votes from the block's category sections
func (p *Parser) parseBallots(record *model.VoteRecord, text string) {
	sections, matched := extractSections(p.rules.Ballot, text)
	if !matched {
		record.AddNote("no per-member vote detail found; tally taken from outcome statement")
		return
	}

	for cat, body := range sections {
		choice, ok := sectionChoices[cat]
		if !ok {
			continue
		}
		for _, fragment := range splitNames(body) {
			name, ok := p.resolver.Resolve(fragment)
			if !ok {
				record.AddNote(fmt.Sprintf("unknown member %q dropped from %s", fragment, cat))
				continue
			}
			record.MemberVotes[name] = choice
			if choice == model.VoteRecusal {
				if record.Recusals == nil {
					record.Recusals = map[string]string{}
				}
				if _, exists := record.Recusals[name]; !exists {
					record.Recusals[name] = "not stated"
				}
			}
		}
	}
}

// parseRecusals captures recusal reasons stated in prose
func (p *Parser) parseRecusals(record *model.VoteRecord, text string) {
	groups, _, ok := firstMatch(p.rules.Recusal, text)
	if !ok {
		return
	}

	raw := strings.TrimSpace(groups["member"])
	if raw == "" {
		return
	}
	name, resolved := p.resolver.Resolve(raw)
	if !resolved {
		record.AddNote(fmt.Sprintf("unknown recused member %q dropped", raw))
		return
	}

	reason := strings.TrimSpace(groups["reason"])
	if reason == "" {
		reason = "not stated"
	}
	if record.Recusals == nil {
		record.Recusals = map[string]string{}
	}
	record.Recusals[name] = reason
	record.MemberVotes[name] = model.VoteRecusal
}

// buildTally prefers the reported outcome numbers for ayes/noes and the
// ballot sections for abstain/absent. Reported numbers are never
// corrected here; disagreements surface in validation.
func (p *Parser) buildTally(record *model.VoteRecord, reported model.Tally, hasCount bool) model.Tally {
	counted := record.CountedTally()

	if !hasCount {
		return counted
	}

	return model.Tally{
		Ayes:    reported.Ayes,
		Noes:    reported.Noes,
		Abstain: counted.Abstain,
		Absent:  counted.Absent,
	}
}

// parseReportedCount reads the numeric tally from outcome groups.
// Separators (hyphen, en dash, "to") are handled by the rule patterns.
func parseReportedCount(groups map[string]string) (model.Tally, bool) {
	ayes, errA := strconv.Atoi(groups["ayes"])
	noes, errN := strconv.Atoi(groups["noes"])
	if errA != nil || errN != nil {
		return model.Tally{}, false
	}
	return model.Tally{Ayes: ayes, Noes: noes}, true
}

// outcomeFromResult maps the matched result word to Pass/Fail. A count
// with no result word is decided by the ayes-vs-noes comparison.
func outcomeFromResult(result string, reported model.Tally) model.Outcome {
	switch strings.ToLower(result) {
	case "carried", "passed", "adopted", "approved":
		return model.OutcomePass
	case "failed", "defeated", "denied", "withdrawn":
		return model.OutcomeFail
	}
	if reported.Ayes > reported.Noes {
		return model.OutcomePass
	}
	return model.OutcomeFail
}

// extractSections locates category markers with the first matching
// ballot rule and slices the text between consecutive markers.
func extractSections(rules []Rule, text string) (map[string]string, bool) {
	for _, r := range rules {
		if r.re == nil {
			continue
		}
		locs := r.re.FindAllStringSubmatchIndex(text, -1)
		if len(locs) == 0 {
			continue
		}

		catIdx := r.re.SubexpIndex("cat")
		if catIdx < 0 {
			continue
		}

		sections := make(map[string]string)
		for i, loc := range locs {
			cat := text[loc[2*catIdx]:loc[2*catIdx+1]]
			bodyStart := loc[1]
			bodyEnd := len(text)
			if i+1 < len(locs) {
				bodyEnd = locs[i+1][0]
			}
			body := strings.TrimSpace(text[bodyStart:bodyEnd])
			if _, seen := sections[cat]; !seen {
				sections[cat] = body
			}
		}
		return sections, true
	}
	return nil, false
}

// splitNames breaks a category body into individual name fragments.
// "NONE" and empty fragments yield nothing.
func splitNames(body string) []string {
	// A trailing section can run into following prose; cut at the first
	// sentence boundary
	if idx := strings.IndexAny(body, ".;"); idx >= 0 {
		body = body[:idx]
	}

	body = strings.ReplaceAll(body, " and ", ",")
	var names []string
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "none") {
			continue
		}
		names = append(names, part)
	}
	return names
}
