package score

import (
	"testing"

	"github.com/opencouncil/votescan/internal/model"
)

func fullRecord() *model.VoteRecord {
	return &model.VoteRecord{
		AgendaItemNumber: "12",
		AgendaItemTitle:  "Approval of the agreement",
		Outcome:          model.OutcomePass,
		Tally:            model.Tally{Ayes: 7},
		MotionText:       "to approve the staff recommendation",
		Mover:            "Bacerra",
		Seconder:         "Phan",
		MemberVotes: model.MemberBallot{
			"Amezcua": model.VoteAye, "Bacerra": model.VoteAye, "Hernandez": model.VoteAye,
			"Lopez": model.VoteAye, "Penaloza": model.VoteAye, "Phan": model.VoteAye,
			"Vazquez": model.VoteAye,
		},
	}
}

func TestRecord_FullyConsistentScoresHigh(t *testing.T) {
	s := NewScorer(7)

	score, signals := s.Record(fullRecord())
	if score < 0.95 {
		t.Errorf("Expected near-perfect score, got %.2f", score)
	}
	if len(signals) != 5 {
		t.Errorf("Expected 5 signals, got %d", len(signals))
	}
}

func TestRecord_UnknownAgendaItemLowersScore(t *testing.T) {
	s := NewScorer(7)

	full, _ := s.Record(fullRecord())

	record := fullRecord()
	record.AgendaItemNumber = "Unknown"
	unresolved, _ := s.Record(record)

	if unresolved >= full {
		t.Errorf("Expected lower score for unresolved agenda item: %.2f >= %.2f", unresolved, full)
	}
}

func TestRecord_MissingBallotsLowersScore(t *testing.T) {
	s := NewScorer(7)

	record := fullRecord()
	record.MemberVotes = model.MemberBallot{}
	score, _ := s.Record(record)

	full, _ := s.Record(fullRecord())
	if score >= full {
		t.Errorf("Expected lower score without ballots: %.2f >= %.2f", score, full)
	}
	if score <= 0 {
		t.Errorf("Tally-only record should still score above zero, got %.2f", score)
	}
}

func TestRecord_ScoreStaysInRange(t *testing.T) {
	s := NewScorer(7)

	records := []*model.VoteRecord{
		{},
		fullRecord(),
		{Outcome: model.OutcomeFail, Tally: model.Tally{Noes: 9}},
	}
	for _, r := range records {
		score, _ := s.Record(r)
		if score < 0.0 || score > 1.0 {
			t.Errorf("Score out of range: %.2f for %+v", score, r)
		}
	}
}

func TestMeeting_MeanOfRecordScores(t *testing.T) {
	s := NewScorer(7)

	records := []model.VoteRecord{*fullRecord(), *fullRecord()}
	meeting := s.Meeting(records)
	single, _ := s.Record(fullRecord())

	if diff := meeting - single; diff > 0.001 || diff < -0.001 {
		t.Errorf("Expected mean %.3f, got %.3f", single, meeting)
	}
}

func TestMeeting_EmptyIsZero(t *testing.T) {
	s := NewScorer(7)

	if got := s.Meeting(nil); got != 0.0 {
		t.Errorf("Expected 0.0 for empty meeting, got %.2f", got)
	}
}
