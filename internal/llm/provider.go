package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/opencouncil/votescan/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a meeting narrative in strict facts mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Result is the extraction result to narrate. Summarization runs
	// after scoring and can never change it.
	Result model.ExtractionResult

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated narrative text
	Summary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictFacts rejects summaries that cite vote counts absent from
	// the extracted records (should always be true)
	StrictFacts bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Model:       "",
		Timeout:     30,
		StrictFacts: true,
		MaxTokens:   1000,
	}
}

// BuildPrompt constructs the default prompt for summarization in strict
// facts mode
func BuildPrompt(result model.ExtractionResult) string {
	prompt := fmt.Sprintf(`You are narrating a municipal meeting vote-extraction result. The extraction is mechanical and already scored - you describe it, you never re-judge it.

CRITICAL RULES:
1. You MUST ONLY mention vote counts that appear in the records below.
2. DO NOT infer outcomes, speculate on motives, or add context beyond the records.
3. If a record carries validation notes, mention the discrepancy explicitly.
4. Never say a vote was "correct" or "wrong" - only describe what was recorded.

Meeting Summary:
- City: %s
- Extraction method: %s
- Quality score: %.2f
- Votes extracted: %d

Records:
`, result.Metadata.City, result.Metadata.MethodUsed, result.Validation.QualityScore, len(result.Votes))

	for i, v := range result.Votes {
		if i >= 15 { // Limit to avoid token bloat
			prompt += fmt.Sprintf("... and %d more records\n", len(result.Votes)-15)
			break
		}
		prompt += fmt.Sprintf("- Item %s (%s): motion %q, outcome %s, vote %s",
			v.AgendaItemNumber, v.AgendaItemTitle, v.MotionText, v.Outcome, v.VoteCount)
		if len(v.ValidationNotes) > 0 {
			prompt += fmt.Sprintf(" [notes: %s]", strings.Join(v.ValidationNotes, "; "))
		}
		prompt += "\n"
	}

	prompt += "\nProvide a 3-5 sentence narrative of what the council decided, citing only the counts above."
	return prompt
}

var tallyRef = regexp.MustCompile(`\b\d+\s*-\s*\d+\b`)

// verifyTallies enforces strict facts mode: every N-M vote count the
// summary cites must belong to an extracted record.
func verifyTallies(summary string, result model.ExtractionResult) error {
	allowed := make(map[string]bool, len(result.Votes))
	for _, v := range result.Votes {
		allowed[strings.ReplaceAll(v.VoteCount, " ", "")] = true
	}
	for _, ref := range tallyRef.FindAllString(summary, -1) {
		if !allowed[strings.ReplaceAll(ref, " ", "")] {
			return fmt.Errorf("fact leak: summary cites vote count %s not present in any record", ref)
		}
	}
	return nil
}
