// Package pipeline orchestrates the complete extraction: normalize,
// segment, parse, correlate, validate, score, and the fallback pass.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/opencouncil/votescan/internal/agenda"
	"github.com/opencouncil/votescan/internal/jurisdiction"
	"github.com/opencouncil/votescan/internal/llm"
	"github.com/opencouncil/votescan/internal/memory"
	"github.com/opencouncil/votescan/internal/model"
	"github.com/opencouncil/votescan/internal/parse"
	"github.com/opencouncil/votescan/internal/score"
	"github.com/opencouncil/votescan/internal/segment"
	"github.com/opencouncil/votescan/internal/textnorm"
	"github.com/opencouncil/votescan/internal/validate"
)

// Version is stamped into extraction metadata
const Version = "0.2.1"

const agentName = "votescan"

// Engine runs extractions for one bound jurisdiction profile
type Engine struct {
	config     *model.Config
	profile    *jurisdiction.Profile
	store      *memory.Store
	normalizer *textnorm.Normalizer
	segmenter  *segment.Segmenter
	parser     *parse.Parser
	fbParser   *parse.Parser
	checker    *validate.Checker
	scorer     *score.Scorer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
}

// NewEngine creates an engine bound to the given profile. store must be
// non-nil; use memory.Open("", 0) when persistence is disabled.
func NewEngine(cfg *model.Config, profile *jurisdiction.Profile, store *memory.Store) (*Engine, error) {
	rules, err := profile.RuleSet()
	if err != nil {
		return nil, err
	}

	// The fallback set is a superset: profile and default rules keep
	// priority, broader fallback patterns come after
	fbRules := rules.Merge(parse.FallbackRuleSet())
	if err := fbRules.CompileAll(); err != nil {
		return nil, err
	}

	resolver := profile.Resolver(store)

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	motionMarkers := append(append([]string{}, segment.DefaultMotionMarkers...), profile.MotionMarkers...)

	return &Engine{
		config:     cfg,
		profile:    profile,
		store:      store,
		normalizer: textnorm.New(store.Corrections(), profile.Boilerplate),
		segmenter:  segment.New(motionMarkers, segment.DefaultLooseMarkers, segment.DefaultVoteIndicators),
		parser:     parse.NewParser(rules, resolver),
		fbParser:   parse.NewParser(fbRules, resolver),
		checker:    validate.NewChecker(profile.CouncilSize, profile.Quorum),
		scorer:     score.NewScorer(profile.CouncilSize),
		summarizer: summarizer,
	}, nil
}

// Profile returns the engine's bound jurisdiction profile
func (e *Engine) Profile() *jurisdiction.Profile {
	return e.profile
}

// extraction is one pass's output before the final result is assembled
type extraction struct {
	records []*model.VoteRecord
	blocks  []string // block text per record, for learning examples
	score   float64
}

// Process extracts all vote records from one meeting. Unreadable
// minutes yield a failed result, not an error: errors are reserved for
// the caller's own misuse.
func (e *Engine) Process(ctx context.Context, input model.MeetingInput) (*model.ExtractionResult, error) {
	started := time.Now().UTC()

	minBytes := e.config.Extraction.MinDocumentBytes
	if len(input.Minutes.Text) < minBytes {
		return e.failedResult(started, fmt.Sprintf(
			"Minutes unreadable: %d bytes, need at least %d", len(input.Minutes.Text), minBytes)), nil
	}

	normalized := e.normalizer.Normalize(input.Minutes.Text)
	correlator := agenda.NewCorrelator(e.profile.City, input.Agenda.Text, e.store.AgendaPatterns())

	e.logf("Segmenting minutes (%d bytes normalized)", len(normalized))

	strict := e.runPass(e.parser, e.segmenter.Segment(normalized), correlator, true)
	e.logf("Strict pass: %d records, score %.2f", len(strict.records), strict.score)

	chosen := strict
	method := model.MethodRuleBased
	var notes []string

	if strict.score < e.profile.FallbackThreshold {
		fallback := e.runPass(e.fbParser, e.segmenter.SegmentLoose(normalized), correlator, false)
		e.logf("Fallback pass: %d records, score %.2f", len(fallback.records), fallback.score)

		if fallback.score > strict.score {
			chosen = fallback
			method = model.MethodFallback
			notes = append(notes, fmt.Sprintf(
				"fallback pass improved quality from %.2f to %.2f", strict.score, fallback.score))
		} else {
			method = model.MethodHybrid
			notes = append(notes, fmt.Sprintf(
				"fallback pass ran (%.2f) but the rule-based output was kept (%.2f)", fallback.score, strict.score))
		}
	}

	e.learn(chosen, method)

	votes := make([]model.VoteRecord, 0, len(chosen.records))
	validationPassed := true
	for _, r := range chosen.records {
		if len(r.ValidationNotes) > 0 {
			validationPassed = false
		}
		votes = append(votes, *r)
	}

	result := &model.ExtractionResult{
		Success: chosen.score > e.profile.FallbackThreshold,
		Message: fmt.Sprintf("Extracted %d votes with %.0f%% quality", len(votes), chosen.score*100),
		Votes:   votes,
		Metadata: model.ExtractionMetadata{
			Agent:           agentName,
			Version:         Version,
			City:            e.profile.City,
			Timestamp:       started,
			MethodUsed:      method,
			ConfidenceScore: chosen.score,
		},
		Validation: model.ValidationSummary{
			QualityScore:     chosen.score,
			ValidationPassed: validationPassed && len(votes) > 0,
			ProcessingNotes:  notes,
		},
	}

	// LLM narrative runs after scoring and never affects it
	if e.summarizer != nil && e.summarizer.IsEnabled() {
		summary, err := e.summarizer.GenerateSummary(ctx, *result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summary generation failed: %v\n", err)
		} else if summary != nil {
			result.LLM = summary
		}
	}

	return result, nil
}

// runPass segments, parses, correlates, and validates one extraction
// pass. recordPatterns controls whether rule hits feed the memory's
// pattern bookkeeping (only the strict pass does).
func (e *Engine) runPass(parser *parse.Parser, blocks []segment.Block, correlator *agenda.Correlator, recordPatterns bool) extraction {
	var out extraction
	for _, block := range blocks {
		ruleName := parser.MotionRule(block)
		record := parser.Parse(block)

		if recordPatterns && ruleName != "" {
			e.store.RecordPattern(ruleName, record != nil)
		}
		if record == nil {
			continue
		}

		record.AgendaItemNumber, record.AgendaItemTitle = correlator.Correlate(block.Text)
		e.checker.Check(record)

		out.records = append(out.records, record)
		out.blocks = append(out.blocks, block.Text)
	}

	scored := make([]model.VoteRecord, len(out.records))
	for i, r := range out.records {
		scored[i] = *r
	}
	out.score = e.scorer.Meeting(scored)
	return out
}

// learn feeds the meeting's outcome back into the learning memory and
// commits once. Persistence failures are warned about, never fatal.
func (e *Engine) learn(chosen extraction, method model.Method) {
	e.store.RecordQuality(chosen.score)

	for i, r := range chosen.records {
		for _, pattern := range agenda.PatternCandidates(chosen.blocks[i]) {
			e.store.LearnAgendaPattern(pattern)
		}
		recScore, _ := e.scorer.Record(r)
		e.store.AddExample(memory.Example{
			BlockText:  truncate(chosen.blocks[i], 500),
			Score:      recScore,
			Method:     string(method),
			RecordedAt: time.Now().UTC(),
		})
	}

	if err := e.store.Commit(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to persist learning memory: %v\n", err)
	}
}

func (e *Engine) failedResult(started time.Time, message string) *model.ExtractionResult {
	return &model.ExtractionResult{
		Success: false,
		Message: message,
		Votes:   []model.VoteRecord{},
		Metadata: model.ExtractionMetadata{
			Agent:      agentName,
			Version:    Version,
			City:       e.profile.City,
			Timestamp:  started,
			MethodUsed: model.MethodRuleBased,
		},
		Validation: model.ValidationSummary{
			QualityScore:     0.0,
			ValidationPassed: false,
			ProcessingNotes:  []string{message},
		},
	}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
