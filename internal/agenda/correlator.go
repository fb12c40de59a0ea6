// Package agenda matches vote blocks to agenda items using the
// companion agenda document.
package agenda

import (
	"regexp"
	"strings"

	"github.com/opencouncil/votescan/internal/textutil"
)

// Item is one entry from the agenda document's item list
type Item struct {
	Number string
	Title  string
}

var (
	resolutionRe = regexp.MustCompile(`(?i)\bRESOLUTION\s+NO\.?\s*([0-9]{2,4}-[0-9]+[A-Z]?)`)
	ordinanceRe  = regexp.MustCompile(`(?i)\bORDINANCE\s+NO\.?\s*((?:NS-)?[0-9]{2,4}(?:-[0-9]+)?[A-Z]?)`)
	itemRefRe    = regexp.MustCompile(`(?i)\b(?:agenda\s+)?item\s+(?:no\.?\s*)?(\d{1,3}[A-Z]?)\b`)
	itemLineRe   = regexp.MustCompile(`(?im)^\s*(?:item\s+)?(\d{1,3}[A-Z]?)[.):]\s+(.{4,200})$`)
)

// Correlator resolves (item number, item title) for vote blocks.
// Titles always originate from the agenda document; when it cannot
// supply one, the sentinel title is used. Nothing is fabricated from
// the vote block itself.
type Correlator struct {
	city       string
	agendaText string
	items      []Item
	byNumber   map[string]string
	learned    []*regexp.Regexp
}

// NewCorrelator indexes the agenda document. HTML exports are stripped
// to visible text first. learnedPatterns are regex strings discovered
// by the learning memory; each must capture the item number in group 1.
func NewCorrelator(city, agendaText string, learnedPatterns []string) *Correlator {
	if textutil.LooksLikeHTML(agendaText) {
		agendaText = textutil.StripHTML(agendaText)
	}

	c := &Correlator{
		city:       city,
		agendaText: agendaText,
		byNumber:   make(map[string]string),
	}

	for _, m := range itemLineRe.FindAllStringSubmatch(agendaText, -1) {
		number := strings.ToUpper(m[1])
		title := strings.TrimSpace(m[2])
		if _, seen := c.byNumber[number]; !seen {
			c.byNumber[number] = title
			c.items = append(c.items, Item{Number: number, Title: title})
		}
	}

	for _, pattern := range learnedPatterns {
		if re, err := regexp.Compile(pattern); err == nil {
			c.learned = append(c.learned, re)
		}
	}

	return c
}

// Items returns the indexed agenda item list
func (c *Correlator) Items() []Item {
	return c.items
}

// SentinelTitle is the placeholder used when no agenda title resolves
func (c *Correlator) SentinelTitle() string {
	return c.city + " Council Item"
}

// Correlate resolves the agenda item for a vote block. Priority:
// resolution number, ordinance number, agenda item number, learned
// patterns, then the Unknown sentinel.
func (c *Correlator) Correlate(blockText string) (string, string) {
	if m := resolutionRe.FindStringSubmatch(blockText); m != nil {
		number := "Resolution " + strings.ToUpper(m[1])
		return number, c.titleNear(resolutionRe, m[1])
	}

	if m := ordinanceRe.FindStringSubmatch(blockText); m != nil {
		number := "Ordinance " + strings.ToUpper(m[1])
		return number, c.titleNear(ordinanceRe, m[1])
	}

	if m := itemRefRe.FindStringSubmatch(blockText); m != nil {
		number := strings.ToUpper(m[1])
		if title, ok := c.byNumber[number]; ok {
			return number, title
		}
		return number, c.SentinelTitle()
	}

	// Agenda numbers mentioned bare in the block text. Single-digit
	// numbers collide with vote counts and are skipped here.
	for _, item := range c.items {
		if len(item.Number) < 2 {
			continue
		}
		if containsNumber(blockText, item.Number) {
			return item.Number, item.Title
		}
	}

	for _, re := range c.learned {
		if m := re.FindStringSubmatch(blockText); len(m) > 1 {
			number := strings.ToUpper(m[1])
			if title, ok := c.byNumber[number]; ok {
				return number, title
			}
			return number, c.SentinelTitle()
		}
	}

	return "Unknown", c.SentinelTitle()
}

// titleNear finds the agenda line mentioning the same identifier and
// returns the line's descriptive remainder, else the sentinel
func (c *Correlator) titleNear(re *regexp.Regexp, id string) string {
	for _, line := range strings.Split(c.agendaText, "\n") {
		m := re.FindStringSubmatch(line)
		if m == nil || !strings.EqualFold(m[1], id) {
			continue
		}

		// Title text follows the identifier on the agenda line
		idx := strings.Index(line, m[0]) + len(m[0])
		title := strings.Trim(strings.TrimSpace(line[idx:]), "-–— .:")
		if title != "" {
			return title
		}
	}
	return c.SentinelTitle()
}

// PatternCandidates generalizes the resolution and ordinance
// identifiers in a block into reusable patterns for the learning
// memory. "RESOLUTION NO. 2024-045" yields a pattern matching the whole
// 2024 resolution family; each pattern captures the identifier in
// group 1.
func PatternCandidates(blockText string) []string {
	var out []string
	for _, m := range resolutionRe.FindAllStringSubmatch(blockText, -1) {
		id := strings.ToUpper(m[1])
		if i := strings.Index(id, "-"); i > 0 {
			out = append(out, `(?i)\bRESOLUTION\s+NO\.?\s*(`+regexp.QuoteMeta(id[:i])+`-[0-9]+[A-Z]?)`)
		}
	}
	for _, m := range ordinanceRe.FindAllStringSubmatch(blockText, -1) {
		id := strings.ToUpper(m[1])
		if strings.HasPrefix(id, "NS-") {
			out = append(out, `(?i)\bORDINANCE\s+NO\.?\s*(NS-[0-9]+[A-Z]?)`)
		}
	}
	return out
}

// containsNumber reports whether the block mentions the item number as
// a standalone token
func containsNumber(text, number string) bool {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(number) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}
