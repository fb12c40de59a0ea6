package model

// Config is the complete votescan configuration
type Config struct {
	Extraction  ExtractionConfig  `yaml:"extraction"`
	Memory      MemoryConfig      `yaml:"memory"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	LLM         LLMConfig         `yaml:"llm"`
	Output      OutputConfig      `yaml:"output"`
}

// ExtractionConfig controls document loading and adapter selection
type ExtractionConfig struct {
	// Jurisdiction is an explicit adapter key; empty triggers auto-detection
	Jurisdiction string `yaml:"jurisdiction"`

	// ProfileDir optionally holds extra jurisdiction profiles as YAML files
	ProfileDir string `yaml:"profile_dir"`

	// MinDocumentBytes is the minimum minutes length treated as readable input
	MinDocumentBytes int `yaml:"min_document_bytes"`
}

// MemoryConfig controls the persistent learning-memory store
type MemoryConfig struct {
	// Path of the learning-memory JSON file; empty disables persistence
	Path string `yaml:"path"`

	// ExampleCap bounds stored extraction examples (oldest evicted)
	ExampleCap int `yaml:"example_cap"`

	// CommitsPerSecond rate-limits memory commits during batch runs.
	// Zero means unlimited.
	CommitsPerSecond float64 `yaml:"commits_per_second"`
}

// ConcurrencyConfig controls batch processing parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// LLMConfig controls the optional post-hoc summarizer
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama", "" (disabled)
	Provider string `yaml:"provider"`

	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout_seconds"`
	MaxTokens int    `yaml:"max_tokens"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Jurisdiction:     "",
			MinDocumentBytes: 100,
		},
		Memory: MemoryConfig{
			Path:       "",
			ExampleCap: 50,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
