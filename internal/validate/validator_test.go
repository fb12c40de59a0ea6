package validate

import (
	"strings"
	"testing"

	"github.com/opencouncil/votescan/internal/model"
)

func cleanRecord() *model.VoteRecord {
	return &model.VoteRecord{
		AgendaItemNumber: "12",
		Outcome:          model.OutcomePass,
		Tally:            model.Tally{Ayes: 7},
		VoteCount:        "7-0",
		MemberVotes: model.MemberBallot{
			"Amezcua": model.VoteAye, "Bacerra": model.VoteAye, "Hernandez": model.VoteAye,
			"Lopez": model.VoteAye, "Penaloza": model.VoteAye, "Phan": model.VoteAye,
			"Vazquez": model.VoteAye,
		},
	}
}

func TestCheck_ConsistentRecordHasNoNotes(t *testing.T) {
	c := NewChecker(7, 4)

	notes := c.Check(cleanRecord())
	if len(notes) != 0 {
		t.Errorf("Expected no notes for consistent record, got %v", notes)
	}
}

func TestCheck_TallyBallotMismatchFlagged(t *testing.T) {
	c := NewChecker(7, 4)

	record := cleanRecord()
	// One member actually voted Nay while the outcome string still says 7-0
	record.MemberVotes["Phan"] = model.VoteNay

	notes := c.Check(record)
	if len(notes) == 0 {
		t.Fatal("Expected a mismatch note")
	}
	if !strings.Contains(notes[0], "disagrees with counted ballots") {
		t.Errorf("Expected tally mismatch note, got %v", notes)
	}
	// The reported tally is preserved as-is
	if record.Tally.Ayes != 7 || record.Tally.Noes != 0 {
		t.Errorf("Reported tally must not be corrected, got %+v", record.Tally)
	}
}

func TestCheck_OutcomeTallyDisagreementFlagged(t *testing.T) {
	c := NewChecker(7, 4)

	record := cleanRecord()
	record.Outcome = model.OutcomeFail // 7-0 but reported as failed

	notes := c.Check(record)
	found := false
	for _, n := range notes {
		if strings.Contains(n, "outcome Fail disagrees") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected outcome disagreement note, got %v", notes)
	}
	if record.Outcome != model.OutcomeFail {
		t.Error("Reported outcome must be preserved as-is")
	}
}

func TestCheck_BelowQuorumFlagged(t *testing.T) {
	c := NewChecker(7, 4)

	record := &model.VoteRecord{
		Outcome: model.OutcomePass,
		Tally:   model.Tally{Ayes: 3},
	}

	notes := c.Check(record)
	found := false
	for _, n := range notes {
		if strings.Contains(n, "below quorum") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected quorum note, got %v", notes)
	}
}

func TestCheck_TallyOverflowFlaggedNeverClamped(t *testing.T) {
	c := NewChecker(7, 4)

	record := &model.VoteRecord{
		Outcome: model.OutcomePass,
		Tally:   model.Tally{Ayes: 6, Noes: 2, Absent: 1}, // 9 > 7 seats
	}

	notes := c.Check(record)
	found := false
	for _, n := range notes {
		if strings.Contains(n, "exceeds council size") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected overflow note, got %v", notes)
	}
	if record.Tally.Total() != 9 {
		t.Errorf("Tally must never be clamped, got total %d", record.Tally.Total())
	}
}

func TestCheck_NotesAreAdditive(t *testing.T) {
	c := NewChecker(7, 4)

	// Below quorum AND outcome disagreement at once
	record := &model.VoteRecord{
		Outcome: model.OutcomePass,
		Tally:   model.Tally{Ayes: 1, Noes: 2},
	}

	notes := c.Check(record)
	if len(notes) < 2 {
		t.Errorf("Expected independent notes for each violation, got %v", notes)
	}
	if len(record.ValidationNotes) != len(notes) {
		t.Errorf("Notes should be appended to the record, got %v", record.ValidationNotes)
	}
}
