// Package segment splits normalized minutes text into candidate vote blocks.
package segment

import (
	"regexp"
	"sort"
	"strings"
)

// Block is a contiguous span of minutes text believed to describe one
// motion-and-vote. Transient: produced here, consumed by the parser.
type Block struct {
	Index int    // Position within the meeting, chronological
	Text  string
}

// Segmenter splits minutes at motion-start markers and keeps segments
// that also carry a vote indicator.
type Segmenter struct {
	motionMarkers  []*regexp.Regexp
	looseMarkers   []*regexp.Regexp
	voteIndicators []string
}

// DefaultMotionMarkers are the strict motion-start patterns
var DefaultMotionMarkers = []string{
	`(?i)\bMOTION\b\s*[:\-]`,
	`(?i)\bit was moved by\b`,
	`(?i)\b(council\s?member|mayor(\s+pro\s+tem)?|vice\s+mayor)\s+[A-Z][A-Za-z'\-]+\s+(moved|made a motion)\b`,
}

// DefaultLooseMarkers are the secondary, looser boundaries used when the
// strict pass finds nothing
var DefaultLooseMarkers = []string{
	`(?i)\bMOTION\b`,
	`(?i)\bmoved\b`,
}

// DefaultVoteIndicators mark a segment as an actual vote rather than
// discussion
var DefaultVoteIndicators = []string{
	"AYES", "NOES",
	"carried", "failed", "passed", "adopted", "approved by a vote",
}

// New creates a segmenter. Empty slices select the defaults.
func New(motionMarkers, looseMarkers, voteIndicators []string) *Segmenter {
	if len(motionMarkers) == 0 {
		motionMarkers = DefaultMotionMarkers
	}
	if len(looseMarkers) == 0 {
		looseMarkers = DefaultLooseMarkers
	}
	if len(voteIndicators) == 0 {
		voteIndicators = DefaultVoteIndicators
	}

	return &Segmenter{
		motionMarkers:  compileAll(motionMarkers),
		looseMarkers:   compileAll(looseMarkers),
		voteIndicators: voteIndicators,
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			res = append(res, re)
		}
	}
	return res
}

// Segment returns vote blocks in source order. Segments without a vote
// indicator are discarded (discussion-only motions).
func (s *Segmenter) Segment(minutes string) []Block {
	return s.segment(minutes, s.motionMarkers, true)
}

// SegmentLoose is the secondary pass: looser boundaries, no vote
// co-occurrence requirement.
func (s *Segmenter) SegmentLoose(minutes string) []Block {
	return s.segment(minutes, s.looseMarkers, false)
}

func (s *Segmenter) segment(minutes string, markers []*regexp.Regexp, requireVote bool) []Block {
	starts := markerStarts(minutes, markers)
	if len(starts) == 0 {
		return nil
	}

	var blocks []Block
	for i, start := range starts {
		end := len(minutes)
		if i+1 < len(starts) {
			end = starts[i+1]
		}

		text := strings.TrimSpace(minutes[start:end])
		if text == "" {
			continue
		}
		if requireVote && !s.hasVoteIndicator(text) {
			continue
		}

		blocks = append(blocks, Block{Index: len(blocks), Text: text})
	}

	return blocks
}

// markerStarts collects the sorted, deduplicated start offsets of every
// marker occurrence
func markerStarts(text string, markers []*regexp.Regexp) []int {
	seen := make(map[int]bool)
	var starts []int

	for _, re := range markers {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if !seen[loc[0]] {
				seen[loc[0]] = true
				starts = append(starts, loc[0])
			}
		}
	}

	sort.Ints(starts)
	return starts
}

func (s *Segmenter) hasVoteIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range s.voteIndicators {
		if strings.Contains(lower, strings.ToLower(indicator)) {
			return true
		}
	}
	return false
}
