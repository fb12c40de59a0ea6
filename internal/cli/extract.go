package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencouncil/votescan/internal/jurisdiction"
	"github.com/opencouncil/votescan/internal/memory"
	"github.com/opencouncil/votescan/internal/model"
	"github.com/opencouncil/votescan/internal/pipeline"
)

var (
	agendaFile  string
	cityHint    string
	memoryPath  string
	profileDir  string
	outJSON     string
	outMD       string
	timeout     time.Duration
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <minutes-file>",
	Short: "Extract vote records from one meeting's minutes",
	Long: `Extract processes a single meeting to:
- Normalize and segment the minutes into motion blocks
- Parse movers, seconders, tallies, and per-member ballots
- Correlate each vote with an agenda item
- Validate against the jurisdiction's roster and quorum rules
- Score extraction quality and retry with a fallback pass when low

Example:
  votescan extract minutes/2024-01-16.txt
  votescan extract minutes.txt --agenda agenda.txt --city "Santa Ana"
  votescan extract minutes.txt --memory ~/.votescan/memory.json
  votescan extract minutes.txt --llm --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Input flags
	extractCmd.Flags().StringVar(&agendaFile, "agenda", "", "agenda file for item correlation (optional)")
	extractCmd.Flags().StringVar(&cityHint, "city", "", "jurisdiction name (default: auto-detect from the minutes)")
	extractCmd.Flags().StringVar(&profileDir, "profiles", "", "directory of extra jurisdiction profile YAML files")
	extractCmd.Flags().StringVar(&memoryPath, "memory", "", "learning-memory JSON file (default: no persistence)")
	extractCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall extraction timeout")

	// Output flags
	extractCmd.Flags().StringVar(&outJSON, "json", "result.json", "output JSON path")
	extractCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	extractCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// LLM flags
	extractCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	extractCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runExtract(cmd *cobra.Command, args []string) error {
	minutesFile := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Extracting: %s\n", minutesFile)
		if agendaFile != "" {
			fmt.Fprintf(os.Stderr, "Agenda: %s\n", agendaFile)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Length problems surface as a failed result, not a CLI error
	input, err := pipeline.LoadMeeting(minutesFile, agendaFile, 0)
	if err != nil {
		return fmt.Errorf("load meeting: %w", err)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	var profile *jurisdiction.Profile
	if cfg.Extraction.Jurisdiction != "" {
		profile = registry.Select(cfg.Extraction.Jurisdiction)
	} else {
		profile = registry.AutoDetect(input.Minutes.Text)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Jurisdiction: %s (registry %s)\n", profile.City, registry.State())
	}

	store := memory.Open(cfg.Memory.Path, cfg.Memory.ExampleCap)
	engine, err := pipeline.NewEngine(cfg, profile, store)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}

	result, err := engine.Process(ctx, input)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d vote records\n", len(result.Votes))
		fmt.Fprintf(os.Stderr, "✓ Quality score: %.0f%%\n", result.Validation.QualityScore*100)
		if result.LLM != nil && result.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", result.LLM.Provider, result.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if err := renderer.RenderResult(result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the effective configuration from flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Extraction.Jurisdiction = cityHint
	cfg.Extraction.ProfileDir = profileDir
	cfg.Memory.Path = memoryPath
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

// buildRegistry creates the jurisdiction registry, with extra profiles
// loaded from the configured profile directory
func buildRegistry(cfg *model.Config) (*jurisdiction.Registry, error) {
	registry := jurisdiction.DefaultRegistry()

	if cfg.Extraction.ProfileDir != "" {
		profiles, err := jurisdiction.LoadDir(cfg.Extraction.ProfileDir)
		if err != nil {
			return nil, fmt.Errorf("load profiles: %w", err)
		}
		for _, p := range profiles {
			if err := registry.Register(p); err != nil {
				return nil, fmt.Errorf("register profile %q: %w", p.City, err)
			}
		}
	}

	return registry, nil
}
