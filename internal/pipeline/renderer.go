package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/opencouncil/votescan/internal/llm"
	"github.com/opencouncil/votescan/internal/model"
)

// Renderer writes extraction results as JSON, Markdown, and a stdout
// summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON
func (r *Renderer) RenderJSON(result *model.ExtractionResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable meeting report
func (r *Renderer) RenderMarkdown(result *model.ExtractionResult, path string) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Vote Extraction Report: %s\n\n", result.Metadata.City))
	b.WriteString(fmt.Sprintf("- Extracted: %s\n", result.Metadata.Timestamp.Format("2006-01-02 15:04 UTC")))
	b.WriteString(fmt.Sprintf("- Method: %s\n", result.Metadata.MethodUsed))
	b.WriteString(fmt.Sprintf("- Quality score: %.2f\n", result.Validation.QualityScore))
	b.WriteString(fmt.Sprintf("- Votes: %d\n\n", len(result.Votes)))

	if !result.Success {
		b.WriteString(fmt.Sprintf("**Extraction did not meet the quality threshold.** %s\n\n", result.Message))
	}

	for _, v := range result.Votes {
		b.WriteString(fmt.Sprintf("## Item %s: %s\n\n", v.AgendaItemNumber, v.AgendaItemTitle))
		if v.MotionText != "" {
			b.WriteString(fmt.Sprintf("Motion: %s\n\n", v.MotionText))
		}
		if v.Mover != "" || v.Seconder != "" {
			b.WriteString(fmt.Sprintf("Moved by %s, seconded by %s\n\n", orDash(v.Mover), orDash(v.Seconder)))
		}
		b.WriteString(fmt.Sprintf("**%s** (%s)\n\n", v.Outcome, v.VoteCount))

		if len(v.MemberVotes) > 0 {
			b.WriteString("| Member | Vote |\n|---|---|\n")
			names := make([]string, 0, len(v.MemberVotes))
			for name := range v.MemberVotes {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				b.WriteString(fmt.Sprintf("| %s | %s |\n", name, v.MemberVotes[name]))
			}
			b.WriteString("\n")
		}

		for member, reason := range v.Recusals {
			b.WriteString(fmt.Sprintf("- Recused: %s (%s)\n", member, reason))
		}
		for _, note := range v.ValidationNotes {
			b.WriteString(fmt.Sprintf("- Note: %s\n", note))
		}
		b.WriteString("\n")
	}

	if len(result.Validation.ProcessingNotes) > 0 {
		b.WriteString("## Processing Notes\n\n")
		for _, note := range result.Validation.ProcessingNotes {
			b.WriteString(fmt.Sprintf("- %s\n", note))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString(fmt.Sprintf("---\nGenerated by %s %s\n", agentName, Version))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

// RenderLLMMarkdown writes the separate generated-content file
func (r *Renderer) RenderLLMMarkdown(markdown, path string) error {
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("write LLM markdown: %w", err)
	}
	return nil
}

// RenderSummary prints a short result summary to stdout
func (r *Renderer) RenderSummary(result *model.ExtractionResult) {
	fmt.Printf("\n%s\n", result.Message)
	fmt.Printf("City: %s | Method: %s | Quality: %.0f%%\n",
		result.Metadata.City, result.Metadata.MethodUsed, result.Validation.QualityScore*100)
	for _, v := range result.Votes {
		fmt.Printf("  Item %-12s %s %s\n", v.AgendaItemNumber, v.VoteCount, v.Outcome)
	}
}

// RenderResult writes the configured outputs for one result
func (r *Renderer) RenderResult(result *model.ExtractionResult, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := r.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := r.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote Markdown: %s\n", mdPath)
		}
	}

	// LLM narrative goes to its own file, clearly separated
	if result.LLM != nil && result.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := r.RenderLLMMarkdown(llm.RenderSeparateMarkdown(result.LLM), llmPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "Wrote LLM summary: %s\n", llmPath)
		}
	}

	r.RenderSummary(result)
	return nil
}

func orDash(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}
