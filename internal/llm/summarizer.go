package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencouncil/votescan/internal/model"
)

// Summarizer generates optional post-hoc meeting narratives. It runs
// after extraction and scoring are complete and can never change them.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer from configuration. An empty
// provider name yields a disabled summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, empty when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary produces a narrative for the extraction result.
// Failures degrade to a summary object with warnings: a broken LLM
// never fails an extraction that already succeeded.
func (s *Summarizer) GenerateSummary(ctx context.Context, result model.ExtractionResult) (*model.MeetingSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.MeetingSummary{
			Enabled:  false,
			Provider: s.provider.Name(),
			Warnings: []string{fmt.Sprintf("Provider %s is not available; summary skipped", s.provider.Name())},
		}, nil
	}

	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Result:    result,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return &model.MeetingSummary{
			Enabled:  true,
			Provider: s.provider.Name(),
			Model:    s.config.Model,
			Warnings: []string{fmt.Sprintf("Summary generation failed: %v", err)},
		}, nil
	}

	return &model.MeetingSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     resp.Model,
		SummaryMD: resp.Summary,
		Warnings: []string{
			fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
			fmt.Sprintf("Verified against %d extracted records", len(result.Votes)),
		},
	}, nil
}

// RenderSeparateMarkdown renders the summary as a standalone Markdown
// document, clearly marked as generated content.
func RenderSeparateMarkdown(summary *model.MeetingSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> **GENERATED CONTENT** - this narrative was produced by a language model.\n")
	b.WriteString("> All vote records and quality scores were determined independently of it.\n\n")
	b.WriteString(fmt.Sprintf("- Provider: %s\n", summary.Provider))
	b.WriteString(fmt.Sprintf("- Model: %s\n\n", summary.Model))

	if summary.SummaryMD == "" {
		b.WriteString("No summary generated.\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	return b.String()
}
