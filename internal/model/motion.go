package model

import (
	"strings"
	"time"
)

// MotionType categorizes the parliamentary nature of a motion
type MotionType string

const (
	MotionOriginal   MotionType = "original"
	MotionSubstitute MotionType = "substitute"
	MotionAmendment  MotionType = "amendment"
	MotionProcedural MotionType = "procedural"
)

// MotionStatus tracks the lifecycle of a motion within a meeting
type MotionStatus string

const (
	MotionPending   MotionStatus = "pending"
	MotionVoted     MotionStatus = "voted"
	MotionWithdrawn MotionStatus = "withdrawn"
	MotionFailed    MotionStatus = "failed"
)

// MotionContext carries the parliamentary detail behind a VoteRecord.
// One MotionContext belongs to exactly one VoteRecord; created during
// parsing, immutable after validation.
type MotionContext struct {
	ID           string       `json:"id"`
	Type         MotionType   `json:"type"`
	Text         string       `json:"text"`
	Mover        string       `json:"mover"`
	Seconder     string       `json:"seconder"`
	AgendaItemID string       `json:"agenda_item_id,omitempty"`
	Status       MotionStatus `json:"status"`
	Timestamp    time.Time    `json:"timestamp"`
}

// ClassifyMotion infers the motion type from its text
func ClassifyMotion(text string) MotionType {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "substitute motion"):
		return MotionSubstitute
	case strings.Contains(lower, "amendment"), strings.Contains(lower, "amend "):
		return MotionAmendment
	case strings.Contains(lower, "adjourn"),
		strings.Contains(lower, "recess"),
		strings.Contains(lower, "continue to"),
		strings.Contains(lower, "postpone"),
		strings.Contains(lower, "table the"):
		return MotionProcedural
	default:
		return MotionOriginal
	}
}
