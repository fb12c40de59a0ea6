package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencouncil/votescan/internal/memory"
	"github.com/opencouncil/votescan/internal/pipeline"
	"github.com/opencouncil/votescan/internal/worker"
)

var (
	concurrency      int
	outputDir        string
	batchTimeout     time.Duration
	commitsPerSecond float64
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Extract multiple meetings from a manifest in parallel",
	Long: `Batch processes many meetings concurrently:
- Read meeting entries from a manifest file (minutes path plus an
  optional agenda path per line, # comments allowed)
- Extract meetings in parallel with a configurable worker count
- Pace learning-memory commits against the shared memory file
- Generate individual reports for each meeting

All meetings in one batch share a jurisdiction profile. Name it with
--city; without it the generic profile is used.

Example:
  votescan batch meetings.txt --city "Santa Ana"
  votescan batch meetings.txt --concurrency 8 --output-dir ./reports
  votescan batch meetings.txt --memory memory.json --commit-rate 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./votescan-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&commitsPerSecond, "commit-rate", 0, "max memory commits per second (0 = unlimited)")

	// Shared extraction flags
	batchCmd.Flags().StringVar(&cityHint, "city", "", "jurisdiction name for every meeting in the batch")
	batchCmd.Flags().StringVar(&profileDir, "profiles", "", "directory of extra jurisdiction profile YAML files")
	batchCmd.Flags().StringVar(&memoryPath, "memory", "", "learning-memory JSON file shared by all workers")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.Workers = concurrency
	cfg.Memory.CommitsPerSecond = commitsPerSecond

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Votescan Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifest:     %s\n", manifest)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if llmEnabled {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", llmProvider, llmModel)
	}
	fmt.Fprintf(os.Stderr, "\n")

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	// Unknown or empty city falls through to the generic profile
	profile := registry.Select(cfg.Extraction.Jurisdiction)
	fmt.Fprintf(os.Stderr, "  Jurisdiction: %s\n\n", profile.City)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	store := memory.Open(cfg.Memory.Path, cfg.Memory.ExampleCap)
	engine, err := pipeline.NewEngine(cfg, profile, store)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	limiter := worker.NewLimiter(cfg.Memory.CommitsPerSecond, 1)
	processor := worker.NewBatchProcessor(engine, limiter, cfg.Memory.Path,
		cfg.Extraction.MinDocumentBytes, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Reading manifest...\n")
	results, err := processor.ProcessManifest(ctx, manifest)
	if err != nil {
		return fmt.Errorf("process manifest: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Processed %d meetings\n", len(results))
	fmt.Fprintf(os.Stderr, "\n")

	successCount := 0
	failureCount := 0
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Entry.MinutesPath, result.Error)
			continue
		}

		successCount++

		slug := sanitizeFilename(result.Entry.MinutesPath)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Entry.MinutesPath, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Entry.MinutesPath, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s (%d votes, quality %.0f%%)\n",
			result.Entry.MinutesPath, len(result.Result.Votes), result.Result.Validation.QualityScore*100)
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d meetings\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// sanitizeFilename turns a minutes path into a report file slug
func sanitizeFilename(path string) string {
	s := filepath.Base(path)
	s = strings.TrimSuffix(s, filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "meeting"
	}

	return s
}
