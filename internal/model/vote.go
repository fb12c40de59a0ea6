package model

// VoteChoice is a member's recorded position on a single motion
type VoteChoice string

const (
	VoteAye     VoteChoice = "Aye"     // Voted in favor
	VoteNay     VoteChoice = "Nay"     // Voted against
	VoteAbstain VoteChoice = "Abstain" // Present, declined to vote
	VoteAbsent  VoteChoice = "Absent"  // Not present for the vote
	VoteRecusal VoteChoice = "Recusal" // Abstained with a conflict-of-interest reason
)

// Outcome is the recorded result of a motion
type Outcome string

const (
	OutcomePass Outcome = "Pass"
	OutcomeFail Outcome = "Fail"
)

// MemberBallot maps canonical member names to their vote choice.
// Keys must be resolved through the roster validator; unresolved
// names are dropped with a validation note, never kept as free text.
type MemberBallot map[string]VoteChoice

// Tally holds the four-way vote count for a motion
type Tally struct {
	Ayes    int `json:"ayes"`
	Noes    int `json:"noes"`
	Abstain int `json:"abstain"`
	Absent  int `json:"absent"`
}

// Total returns the number of members accounted for in the tally
func (t Tally) Total() int {
	return t.Ayes + t.Noes + t.Abstain + t.Absent
}

// Participating returns the number of members who cast an aye or nay
func (t Tally) Participating() int {
	return t.Ayes + t.Noes
}

// IsZero reports whether no counts have been recorded
func (t Tally) IsZero() bool {
	return t.Total() == 0
}

// CountBallots computes a tally from individual member ballots
func CountBallots(ballots MemberBallot) Tally {
	var t Tally
	for _, choice := range ballots {
		switch choice {
		case VoteAye:
			t.Ayes++
		case VoteNay:
			t.Noes++
		case VoteAbstain, VoteRecusal:
			t.Abstain++
		case VoteAbsent:
			t.Absent++
		}
	}
	return t
}

// VoteRecord is one validated motion-and-vote extracted from minutes.
// Immutable after scoring; serialized to the caller's result object.
type VoteRecord struct {
	MotionID         string            `json:"motion_id,omitempty"`
	AgendaItemNumber string            `json:"agenda_item_number"`
	AgendaItemTitle  string            `json:"agenda_item_title"`
	Outcome          Outcome           `json:"outcome"`
	Tally            Tally             `json:"tally"`
	MemberVotes      MemberBallot      `json:"member_votes"`
	VoteCount        string            `json:"vote_count"`        // Reported numeric string, e.g. "6-1"
	MotionText       string            `json:"motion_text"`
	Mover            string            `json:"mover"`
	Seconder         string            `json:"seconder"`
	Recusals         map[string]string `json:"recusals,omitempty"` // member -> reason
	Motion           *MotionContext    `json:"motion,omitempty"`
	ValidationNotes  []string          `json:"validation_notes"`
}

// CountedTally computes the tally implied by the member ballots
func (r *VoteRecord) CountedTally() Tally {
	return CountBallots(r.MemberVotes)
}

// AddNote appends a validation note to the record
func (r *VoteRecord) AddNote(note string) {
	r.ValidationNotes = append(r.ValidationNotes, note)
}
