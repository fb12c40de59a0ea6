// Package memory persists the learning memory that improves future
// extractions: name corrections, discovered agenda-item patterns, and
// quality history.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Example is one bounded extraction example kept for diagnostics
type Example struct {
	BlockText  string    `json:"block_text"`
	Score      float64   `json:"score"`
	Method     string    `json:"method"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Memory is the persisted learning-memory document
type Memory struct {
	SuccessfulPatterns    []string          `json:"successful_patterns"`
	FailedPatterns        []string          `json:"failed_patterns"`
	MemberNameCorrections map[string]string `json:"member_name_corrections"`
	AgendaItemPatterns    []string          `json:"agenda_item_patterns"`
	QualityHistory        []float64         `json:"quality_history"`
	ExtractionExamples    []Example         `json:"extraction_examples"`
	LastUpdated           time.Time         `json:"last_updated"`
}

func newMemory() *Memory {
	return &Memory{
		MemberNameCorrections: make(map[string]string),
	}
}

// DefaultExampleCap bounds stored extraction examples
const DefaultExampleCap = 50

// Store owns one learning-memory file. Reads happen at construction,
// writes once per processed meeting via Commit. The file lock admits at
// most one writer; memory I/O failures degrade to an empty in-memory
// store and never fail an extraction.
type Store struct {
	path       string
	exampleCap int

	mu  sync.Mutex
	mem *Memory

	// Counts at load time; entries beyond these are this run's additions
	histBase int
	exBase   int
}

// Open loads the store. An empty path keeps the memory in-process only.
// A missing, corrupt, or unreadable file yields an empty memory.
func Open(path string, exampleCap int) *Store {
	if exampleCap <= 0 {
		exampleCap = DefaultExampleCap
	}
	s := &Store{path: path, exampleCap: exampleCap, mem: newMemory()}

	if path == "" {
		return s
	}

	lock := flock.New(lockPath(path))
	if err := lock.RLock(); err == nil {
		defer func() { _ = lock.Unlock() }()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var loaded Memory
	if err := json.Unmarshal(data, &loaded); err != nil {
		// Corrupt file: continue with empty memory rather than failing
		return s
	}
	if loaded.MemberNameCorrections == nil {
		loaded.MemberNameCorrections = make(map[string]string)
	}
	s.mem = &loaded
	s.histBase = len(loaded.QualityHistory)
	s.exBase = len(loaded.ExtractionExamples)
	return s
}

// Correction returns a previously learned canonical name for raw
func (s *Store) Correction(raw string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.mem.MemberNameCorrections[strings.ToUpper(raw)]
	return c, ok
}

// LearnCorrection records a noisy-to-canonical name mapping
func (s *Store) LearnCorrection(raw, canonical string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem.MemberNameCorrections[strings.ToUpper(raw)] = canonical
}

// Corrections returns a copy of all learned name corrections
func (s *Store) Corrections() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.mem.MemberNameCorrections))
	for k, v := range s.mem.MemberNameCorrections {
		out[k] = v
	}
	return out
}

// AgendaPatterns returns the learned agenda-item patterns
func (s *Store) AgendaPatterns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.mem.AgendaItemPatterns...)
}

// LearnAgendaPattern records a discovered agenda-item pattern
func (s *Store) LearnAgendaPattern(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.mem.AgendaItemPatterns {
		if existing == pattern {
			return
		}
	}
	s.mem.AgendaItemPatterns = append(s.mem.AgendaItemPatterns, pattern)
}

// RecordPattern tracks which named rules produced or failed to produce
// records
func (s *Store) RecordPattern(name string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if success {
		s.mem.SuccessfulPatterns = appendUnique(s.mem.SuccessfulPatterns, name)
	} else {
		s.mem.FailedPatterns = appendUnique(s.mem.FailedPatterns, name)
	}
}

// RecordQuality appends a meeting score to the quality history
func (s *Store) RecordQuality(score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem.QualityHistory = append(s.mem.QualityHistory, score)
}

// QualityHistory returns past meeting scores, oldest first
func (s *Store) QualityHistory() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64{}, s.mem.QualityHistory...)
}

// AddExample stores an extraction example, evicting the oldest beyond
// the cap
func (s *Store) AddExample(ex Example) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem.ExtractionExamples = append(s.mem.ExtractionExamples, ex)
	if over := len(s.mem.ExtractionExamples) - s.exampleCap; over > 0 {
		s.mem.ExtractionExamples = s.mem.ExtractionExamples[over:]
	}
}

// Examples returns the stored extraction examples, oldest first
func (s *Store) Examples() []Example {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Example{}, s.mem.ExtractionExamples...)
}

// Commit writes the memory to durable storage under the exclusive file
// lock, merging with what a parallel worker may have committed since
// this store was opened. A blank path or write failure is not an error
// for the caller's extraction: persistence is best-effort by design of
// the error taxonomy, but the error is returned for logging.
func (s *Store) Commit() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lock := flock.New(lockPath(s.path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire memory lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	// Merge the last-committed snapshot so parallel meetings don't
	// clobber each other's learning
	if data, err := os.ReadFile(s.path); err == nil {
		var disk Memory
		if err := json.Unmarshal(data, &disk); err == nil {
			s.mergeLocked(&disk)
		}
	}

	s.mem.LastUpdated = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create memory dir: %w", err)
	}

	data, err := json.MarshalIndent(s.mem, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}

	// Write-then-rename keeps readers off partial writes
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write memory file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace memory file: %w", err)
	}
	s.histBase = len(s.mem.QualityHistory)
	s.exBase = len(s.mem.ExtractionExamples)
	return nil
}

// mergeLocked folds the on-disk snapshot into the working memory.
// Local values win on correction conflicts; histories append.
func (s *Store) mergeLocked(disk *Memory) {
	for raw, canonical := range disk.MemberNameCorrections {
		if _, ok := s.mem.MemberNameCorrections[raw]; !ok {
			s.mem.MemberNameCorrections[raw] = canonical
		}
	}
	for _, p := range disk.AgendaItemPatterns {
		found := false
		for _, existing := range s.mem.AgendaItemPatterns {
			if existing == p {
				found = true
				break
			}
		}
		if !found {
			s.mem.AgendaItemPatterns = append(s.mem.AgendaItemPatterns, p)
		}
	}
	for _, p := range disk.SuccessfulPatterns {
		s.mem.SuccessfulPatterns = appendUnique(s.mem.SuccessfulPatterns, p)
	}
	for _, p := range disk.FailedPatterns {
		s.mem.FailedPatterns = appendUnique(s.mem.FailedPatterns, p)
	}
	// Histories append: the disk's committed entries first, then whatever
	// this run added since Open
	freshHist := s.mem.QualityHistory[min(s.histBase, len(s.mem.QualityHistory)):]
	s.mem.QualityHistory = append(append([]float64{}, disk.QualityHistory...), freshHist...)

	freshEx := s.mem.ExtractionExamples[min(s.exBase, len(s.mem.ExtractionExamples)):]
	s.mem.ExtractionExamples = append(append([]Example{}, disk.ExtractionExamples...), freshEx...)
	if over := len(s.mem.ExtractionExamples) - s.exampleCap; over > 0 {
		s.mem.ExtractionExamples = s.mem.ExtractionExamples[over:]
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func lockPath(path string) string {
	return path + ".lock"
}
