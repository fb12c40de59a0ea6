package model

import "time"

// Method identifies which extraction pass produced the final result
type Method string

const (
	MethodRuleBased Method = "rule-based" // Strict jurisdiction rules only
	MethodFallback  Method = "fallback"   // Broader fallback pass won
	MethodHybrid    Method = "hybrid"     // Fallback ran but the rule pass was kept
)

// ExtractionMetadata describes how and when a result was produced
type ExtractionMetadata struct {
	Agent           string    `json:"agent"`
	Version         string    `json:"version"`
	City            string    `json:"city"`
	Timestamp       time.Time `json:"timestamp"`
	MethodUsed      Method    `json:"method_used"`
	ConfidenceScore float64   `json:"confidence_score"`
}

// ValidationSummary aggregates meeting-level quality information
type ValidationSummary struct {
	QualityScore     float64  `json:"quality_score"`
	ValidationPassed bool     `json:"validation_passed"`
	ProcessingNotes  []string `json:"processing_notes"`
}

// ExtractionResult is the complete output for one processed meeting.
// Returned to the caller; not retained by the engine.
type ExtractionResult struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Votes      []VoteRecord       `json:"votes"`
	Metadata   ExtractionMetadata `json:"extraction_metadata"`
	Validation ValidationSummary  `json:"validation_results"`

	// LLM holds the optional post-hoc narrative summary. It is generated
	// after scoring and never affects extraction or quality scores.
	LLM *MeetingSummary `json:"llm,omitempty"`
}

// MeetingSummary contains an optional LLM-generated meeting narrative
type MeetingSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
