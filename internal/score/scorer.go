// Package score computes transparent extraction-quality scores.
package score

import (
	"fmt"

	"github.com/opencouncil/votescan/internal/model"
)

// Signal is one diagnostic component of a record's score, with the
// inputs that produced it kept visible.
type Signal struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Scorer calculates per-record and meeting-level quality scores.
// Components are weighted to sum to 1.0 for a fully-consistent record.
type Scorer struct {
	councilSize int
}

// NewScorer creates a scorer for a council of the given size
func NewScorer(councilSize int) *Scorer {
	if councilSize <= 0 {
		councilSize = 7
	}
	return &Scorer{councilSize: councilSize}
}

// Record scores a single vote record between 0.0 and 1.0
func (s *Scorer) Record(record *model.VoteRecord) (float64, []Signal) {
	var signals []Signal
	var total float64

	// 1. Roster coverage (0-0.30): fraction of seats with a ballot
	coverage := float64(len(record.MemberVotes)) / float64(s.councilSize)
	if coverage > 1 {
		coverage = 1
	}
	part := coverage * 0.30
	total += part
	signals = append(signals, Signal{
		Type:        "roster_coverage",
		Description: fmt.Sprintf("%d of %d members balloted", len(record.MemberVotes), s.councilSize),
		Data: map[string]interface{}{
			"ballots": len(record.MemberVotes),
			"seats":   s.councilSize,
			"score":   part,
			"formula": "min(ballots/seats, 1) * 0.30",
		},
	})

	// 2. Tally consistency (0-0.25)
	part = 0.0
	counted := record.CountedTally()
	consistent := len(record.MemberVotes) > 0 &&
		counted.Ayes == record.Tally.Ayes && counted.Noes == record.Tally.Noes
	switch {
	case consistent:
		part = 0.25
	case !record.Tally.IsZero():
		// A tally without ballots (or a disputed one) is partial signal
		part = 0.10
	}
	total += part
	signals = append(signals, Signal{
		Type:        "tally_consistency",
		Description: fmt.Sprintf("reported %d-%d, counted %d-%d", record.Tally.Ayes, record.Tally.Noes, counted.Ayes, counted.Noes),
		Data: map[string]interface{}{
			"consistent": consistent,
			"score":      part,
		},
	})

	// 3. Outcome agreement with tally (0-0.15)
	expected := model.OutcomeFail
	if record.Tally.Ayes > record.Tally.Noes {
		expected = model.OutcomePass
	}
	part = 0.0
	if record.Outcome == expected {
		part = 0.15
	}
	total += part
	signals = append(signals, Signal{
		Type:        "outcome_agreement",
		Description: fmt.Sprintf("outcome %s, tally implies %s", record.Outcome, expected),
		Data:        map[string]interface{}{"score": part},
	})

	// 4. Agenda item resolved (0-0.15)
	part = 0.0
	if record.AgendaItemNumber != "" && record.AgendaItemNumber != "Unknown" {
		part = 0.15
	}
	total += part
	signals = append(signals, Signal{
		Type:        "agenda_resolution",
		Description: fmt.Sprintf("agenda item %q", record.AgendaItemNumber),
		Data:        map[string]interface{}{"score": part},
	})

	// 5. Motion substance (0-0.15): non-placeholder motion text plus
	// resolved principals
	part = 0.0
	if len(record.MotionText) >= 10 {
		part += 0.10
	}
	if record.Mover != "" && record.Seconder != "" {
		part += 0.05
	}
	total += part
	signals = append(signals, Signal{
		Type:        "motion_substance",
		Description: fmt.Sprintf("motion text %d chars, mover %q, seconder %q", len(record.MotionText), record.Mover, record.Seconder),
		Data:        map[string]interface{}{"score": part},
	})

	if total > 1 {
		total = 1
	}
	return total, signals
}

// Meeting returns the aggregate meeting-level score: the mean of the
// per-record scores, 0.0 when nothing was extracted.
func (s *Scorer) Meeting(records []model.VoteRecord) float64 {
	if len(records) == 0 {
		return 0.0
	}

	var sum float64
	for i := range records {
		score, _ := s.Record(&records[i])
		sum += score
	}
	return sum / float64(len(records))
}
