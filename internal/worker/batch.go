package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/opencouncil/votescan/internal/model"
	"github.com/opencouncil/votescan/internal/pipeline"
)

// Extractor processes one loaded meeting. Satisfied by pipeline.Engine.
type Extractor interface {
	Process(ctx context.Context, input model.MeetingInput) (*model.ExtractionResult, error)
}

// ManifestEntry names one meeting's documents
type ManifestEntry struct {
	MinutesPath string
	AgendaPath  string // optional
}

// MeetingJob extracts one meeting from disk
type MeetingJob struct {
	Entry     ManifestEntry
	Extractor Extractor
	MinBytes  int

	// Limiter paces commits against the shared memory file; nil skips
	// pacing
	Limiter    *Limiter
	MemoryPath string
}

// Execute loads the meeting documents and runs the extraction
func (j *MeetingJob) Execute(ctx context.Context) Result {
	input, err := pipeline.LoadMeeting(j.Entry.MinutesPath, j.Entry.AgendaPath, j.MinBytes)
	if err != nil {
		return &MeetingResult{Entry: j.Entry, Error: err}
	}

	// The engine commits to the memory file at the end of Process, so
	// clearance is taken up front
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.MemoryPath); err != nil {
			return &MeetingResult{Entry: j.Entry, Error: err}
		}
	}

	result, err := j.Extractor.Process(ctx, input)
	if err != nil {
		return &MeetingResult{Entry: j.Entry, Error: err}
	}
	return &MeetingResult{Entry: j.Entry, Result: result}
}

// MeetingResult is the outcome of one meeting job
type MeetingResult struct {
	Entry  ManifestEntry
	Result *model.ExtractionResult
	Error  error
}

// GetError returns the job's error, if any
func (r *MeetingResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts many meetings concurrently
type BatchProcessor struct {
	extractor   Extractor
	limiter     *Limiter
	memoryPath  string
	minBytes    int
	concurrency int
}

// NewBatchProcessor creates a batch processor. limiter may be nil when
// commit pacing is not needed.
func NewBatchProcessor(extractor Extractor, limiter *Limiter, memoryPath string, minBytes, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		extractor:   extractor,
		limiter:     limiter,
		memoryPath:  memoryPath,
		minBytes:    minBytes,
		concurrency: concurrency,
	}
}

// ProcessEntries extracts the given meetings concurrently
func (b *BatchProcessor) ProcessEntries(ctx context.Context, entries []ManifestEntry) []*MeetingResult {
	if len(entries) == 0 {
		return []*MeetingResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, entry := range entries {
		pool.Submit(&MeetingJob{
			Entry:      entry,
			Extractor:  b.extractor,
			MinBytes:   b.minBytes,
			Limiter:    b.limiter,
			MemoryPath: b.memoryPath,
		})
	}

	results := pool.Wait()

	meetingResults := make([]*MeetingResult, len(results))
	for i, result := range results {
		meetingResults[i] = result.(*MeetingResult)
	}

	return meetingResults
}

// ProcessManifest reads a meeting manifest and extracts every entry
func (b *BatchProcessor) ProcessManifest(ctx context.Context, path string) ([]*MeetingResult, error) {
	entries, err := ReadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.ProcessEntries(ctx, entries), nil
}

// ReadManifest parses a meeting manifest: one meeting per line, the
// minutes path followed by an optional agenda path, whitespace
// separated. Blank lines and # comments are skipped; duplicate minutes
// paths are dropped.
func ReadManifest(path string) ([]ManifestEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []ManifestEntry
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		entry := ManifestEntry{MinutesPath: fields[0]}
		if len(fields) > 1 {
			entry.AgendaPath = fields[1]
		}

		if !seen[entry.MinutesPath] {
			seen[entry.MinutesPath] = true
			entries = append(entries, entry)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return entries, nil
}
