package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opencouncil/votescan/internal/model"
)

// MockExtractor implements Extractor
type MockExtractor struct {
	ShouldError bool
}

func (m *MockExtractor) Process(ctx context.Context, input model.MeetingInput) (*model.ExtractionResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("extraction error")
	}
	return &model.ExtractionResult{
		Success: true,
		Message: "Extracted 1 votes with 90% quality",
	}, nil
}

func minutesFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := strings.Repeat("MOTION: Councilmember Bacerra moved to approve. MOTION CARRIED 7-0. ", 5)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessEntries(t *testing.T) {
	dir := t.TempDir()
	entries := []ManifestEntry{
		{MinutesPath: minutesFixture(t, dir, "2024-01-16.txt")},
		{MinutesPath: minutesFixture(t, dir, "2024-02-06.txt")},
		{MinutesPath: minutesFixture(t, dir, "2024-02-20.txt")},
	}

	processor := NewBatchProcessor(&MockExtractor{}, nil, "", 0, 2)
	results := processor.ProcessEntries(context.Background(), entries)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Entry.MinutesPath, res.Error)
			continue
		}
		if res.Result == nil || !res.Result.Success {
			t.Errorf("expected successful result for %s", res.Entry.MinutesPath)
		}
	}
}

func TestBatchProcessor_ExtractorError(t *testing.T) {
	dir := t.TempDir()
	entries := []ManifestEntry{{MinutesPath: minutesFixture(t, dir, "meeting.txt")}}

	processor := NewBatchProcessor(&MockExtractor{ShouldError: true}, nil, "", 0, 2)
	results := processor.ProcessEntries(context.Background(), entries)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_MissingMinutes(t *testing.T) {
	entries := []ManifestEntry{{MinutesPath: "/nonexistent/minutes.txt"}}

	processor := NewBatchProcessor(&MockExtractor{}, nil, "", 0, 2)
	results := processor.ProcessEntries(context.Background(), entries)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected load error for missing minutes file")
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockExtractor{}, nil, "", 0, 2)

	results := processor.ProcessEntries(context.Background(), []ManifestEntry{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_CommitPacing(t *testing.T) {
	dir := t.TempDir()
	entries := []ManifestEntry{
		{MinutesPath: minutesFixture(t, dir, "a.txt")},
		{MinutesPath: minutesFixture(t, dir, "b.txt")},
	}

	memoryPath := filepath.Join(dir, "memory.json")
	limiter := NewLimiter(100, 1)
	processor := NewBatchProcessor(&MockExtractor{}, limiter, memoryPath, 0, 2)

	results := processor.ProcessEntries(context.Background(), entries)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error: %v", res.Error)
		}
	}
}

func TestReadManifest(t *testing.T) {
	content := `minutes/2024-01-16.txt agendas/2024-01-16.txt
# regular meeting, no agenda published
minutes/2024-02-06.txt

minutes/2024-02-20.txt   agendas/2024-02-20.txt`

	path := filepath.Join(t.TempDir(), "manifest.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}

	expected := []ManifestEntry{
		{MinutesPath: "minutes/2024-01-16.txt", AgendaPath: "agendas/2024-01-16.txt"},
		{MinutesPath: "minutes/2024-02-06.txt"},
		{MinutesPath: "minutes/2024-02-20.txt", AgendaPath: "agendas/2024-02-20.txt"},
	}
	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d", len(expected), len(entries))
	}

	for i, entry := range entries {
		if entry != expected[i] {
			t.Errorf("expected entry %+v at index %d, got %+v", expected[i], i, entry)
		}
	}
}

func TestReadManifest_Deduplication(t *testing.T) {
	content := `minutes/2024-01-16.txt
minutes/2024-01-16.txt agendas/2024-01-16.txt`

	path := filepath.Join(t.TempDir(), "manifest.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}

	if len(entries) != 1 {
		t.Errorf("expected 1 entry after deduplication, got %d", len(entries))
	}
}

func TestReadManifest_NonExistent(t *testing.T) {
	_, err := ReadManifest("non_existent_manifest.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestMeetingResult_GetError(t *testing.T) {
	r1 := &MeetingResult{Entry: ManifestEntry{MinutesPath: "a.txt"}}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("extraction failed")
	r2 := &MeetingResult{Entry: ManifestEntry{MinutesPath: "a.txt"}, Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessManifest(t *testing.T) {
	dir := t.TempDir()
	a := minutesFixture(t, dir, "a.txt")
	b := minutesFixture(t, dir, "b.txt")

	manifest := filepath.Join(dir, "manifest.txt")
	content := a + "\n# comment\n\n" + b + "\n"
	if err := os.WriteFile(manifest, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&MockExtractor{}, nil, "", 0, 2)
	results, err := processor.ProcessManifest(context.Background(), manifest)
	if err != nil {
		t.Fatalf("ProcessManifest failed: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessManifest_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockExtractor{}, nil, "", 0, 2)

	_, err := processor.ProcessManifest(context.Background(), "no_such_manifest.txt")
	if err == nil {
		t.Error("expected error for non-existent manifest, got nil")
	}
}
