// Package validate cross-checks extracted vote records for internal
// consistency and jurisdiction rules.
package validate

import (
	"fmt"

	"github.com/opencouncil/votescan/internal/model"
)

// Checker validates vote records against jurisdiction rules. Checks are
// additive: each violation produces its own note, nothing is ever
// auto-corrected or blocked from emission.
type Checker struct {
	councilSize int
	quorum      int
}

// NewChecker creates a checker for a council of the given size and quorum
func NewChecker(councilSize, quorum int) *Checker {
	return &Checker{councilSize: councilSize, quorum: quorum}
}

// Check appends validation notes to the record and returns the notes it
// added. The record's reported values are preserved as-is.
func (c *Checker) Check(record *model.VoteRecord) []string {
	var notes []string

	counted := record.CountedTally()

	// Reported tally must equal the counted ballots when ballots exist
	if len(record.MemberVotes) > 0 {
		if counted.Ayes != record.Tally.Ayes || counted.Noes != record.Tally.Noes {
			notes = append(notes, fmt.Sprintf(
				"reported tally %d-%d disagrees with counted ballots %d-%d",
				record.Tally.Ayes, record.Tally.Noes, counted.Ayes, counted.Noes))
		}
	}

	// Outcome label must agree with the ayes-vs-noes comparison. The
	// reported outcome is flagged, never overwritten.
	expected := model.OutcomeFail
	if record.Tally.Ayes > record.Tally.Noes {
		expected = model.OutcomePass
	}
	if record.Outcome != expected {
		notes = append(notes, fmt.Sprintf(
			"outcome %s disagrees with tally %d-%d",
			record.Outcome, record.Tally.Ayes, record.Tally.Noes))
	}

	// Participating members must meet quorum
	if record.Tally.Participating() < c.quorum {
		notes = append(notes, fmt.Sprintf(
			"below quorum: %d participating, %d required",
			record.Tally.Participating(), c.quorum))
	}

	// Tally can never account for more members than the council seats
	if record.Tally.Total() > c.councilSize {
		notes = append(notes, fmt.Sprintf(
			"tally total %d exceeds council size %d",
			record.Tally.Total(), c.councilSize))
	}

	for _, note := range notes {
		record.AddNote(note)
	}
	return notes
}
