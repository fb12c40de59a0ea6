// Package textnorm cleans raw meeting-document text before segmentation.
package textnorm

import (
	"regexp"
	"sort"
	"strings"
)

// Section markers that must survive normalization. Case is canonicalized
// to upper, never deleted.
var markerPattern = regexp.MustCompile(`(?i)\b(motion|ayes|noes|abstain|absent|recused)\b`)

// Built-in boilerplate removed from every document
var defaultBoilerplate = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^\s*page\s+\d+(\s+of\s+\d+)?\s*$`),
	regexp.MustCompile(`(?i)\bpage\s+\d+\s+of\s+\d+\b`),
	regexp.MustCompile(`(?im)^\s*-\s*\d+\s*-\s*$`),
}

var (
	hyphenBreak = regexp.MustCompile(`([A-Za-z])-\n\s*([A-Za-z])`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Normalizer cleans raw document text. Normalize is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
type Normalizer struct {
	boilerplate []*regexp.Regexp
	corrections []correction
}

// correction is a learned character-level fix (OCR noise -> canonical)
type correction struct {
	from string
	to   string
}

// New creates a normalizer. Corrections are the adapter's learned
// character-level fixes; extraBoilerplate holds jurisdiction-specific
// header/footer patterns as regex strings (invalid patterns ignored).
func New(corrections map[string]string, extraBoilerplate []string) *Normalizer {
	n := &Normalizer{
		boilerplate: append([]*regexp.Regexp{}, defaultBoilerplate...),
	}

	for _, pattern := range extraBoilerplate {
		if re, err := regexp.Compile(pattern); err == nil {
			n.boilerplate = append(n.boilerplate, re)
		}
	}

	// Apply longer corrections first so overlapping fixes stay stable
	for from, to := range corrections {
		if from == "" || from == to {
			continue
		}
		n.corrections = append(n.corrections, correction{from: from, to: to})
	}
	sort.Slice(n.corrections, func(i, j int) bool {
		if len(n.corrections[i].from) != len(n.corrections[j].from) {
			return len(n.corrections[i].from) > len(n.corrections[j].from)
		}
		return n.corrections[i].from < n.corrections[j].from
	})

	return n
}

// Normalize cleans raw text: line-break hyphenation, boilerplate,
// learned corrections, marker case, whitespace collapse.
func (n *Normalizer) Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n")

	// Rejoin words split across line breaks ("ordi-\nnance" -> "ordinance")
	text = hyphenBreak.ReplaceAllString(text, "$1$2")

	for _, re := range n.boilerplate {
		text = re.ReplaceAllString(text, " ")
	}

	for _, c := range n.corrections {
		text = strings.ReplaceAll(text, c.from, c.to)
	}

	text = markerPattern.ReplaceAllStringFunc(text, strings.ToUpper)

	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
