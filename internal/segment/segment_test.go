package segment

import (
	"strings"
	"testing"
)

func TestSegment_SplitsAtMotionMarkers(t *testing.T) {
	s := New(nil, nil, nil)

	minutes := "MOTION: COUNCILMEMBER BACERRA moved to approve Item 12, seconded by COUNCILMEMBER PHAN. " +
		"The MOTION carried, 7-0. AYES: BACERRA, PHAN " +
		"MOTION: COUNCILMEMBER LOPEZ moved to adopt the ordinance. " +
		"The MOTION carried, 6-1. AYES: LOPEZ, PHAN NOES: BACERRA"

	blocks := s.Segment(minutes)
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	if !strings.Contains(blocks[0].Text, "Item 12") {
		t.Errorf("First block missing first motion text: %q", blocks[0].Text)
	}
	if !strings.Contains(blocks[1].Text, "ordinance") {
		t.Errorf("Second block missing second motion text: %q", blocks[1].Text)
	}
}

func TestSegment_DiscardsDiscussionOnlyMotions(t *testing.T) {
	s := New(nil, nil, nil)

	minutes := "MOTION: COUNCILMEMBER PHAN moved to open public comment. Discussion followed without a vote. " +
		"MOTION: COUNCILMEMBER BACERRA moved to approve the budget. The MOTION carried, 7-0. AYES: BACERRA, PHAN"

	blocks := s.Segment(minutes)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block (discussion-only discarded), got %d", len(blocks))
	}
	if !strings.Contains(blocks[0].Text, "budget") {
		t.Errorf("Kept the wrong block: %q", blocks[0].Text)
	}
}

func TestSegment_PreservesChronologicalOrder(t *testing.T) {
	s := New(nil, nil, nil)

	minutes := "MOTION: first item passed, 7-0. AYES: A " +
		"MOTION: second item carried, 5-2. AYES: B " +
		"MOTION: third item failed, 3-4. AYES: C"

	blocks := s.Segment(minutes)
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}
	for i, want := range []string{"first", "second", "third"} {
		if !strings.Contains(blocks[i].Text, want) {
			t.Errorf("Block %d out of order: %q", i, blocks[i].Text)
		}
		if blocks[i].Index != i {
			t.Errorf("Block %d has index %d", i, blocks[i].Index)
		}
	}
}

func TestSegment_NoMarkersYieldsNothing(t *testing.T) {
	s := New(nil, nil, nil)

	blocks := s.Segment("The council met and adjourned without any business.")
	if len(blocks) != 0 {
		t.Errorf("Expected 0 blocks, got %d", len(blocks))
	}
}

func TestSegmentLoose_AcceptsBareMotionMarker(t *testing.T) {
	s := New(nil, nil, nil)

	minutes := "MOTION to receive and file the report. No objections were recorded."

	if strict := s.Segment(minutes); len(strict) != 0 {
		t.Fatalf("Strict pass should reject block without vote indicator, got %d", len(strict))
	}

	loose := s.SegmentLoose(minutes)
	if len(loose) != 1 {
		t.Fatalf("Loose pass expected 1 block, got %d", len(loose))
	}
}

func TestSegment_MovedByPhraseStartsBlock(t *testing.T) {
	s := New(nil, nil, nil)

	minutes := "It was moved by Councilmember Vazquez to continue the hearing. The motion carried, 7-0. AYES: VAZQUEZ"

	blocks := s.Segment(minutes)
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block from 'it was moved by' marker, got %d", len(blocks))
	}
}
