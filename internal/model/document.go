package model

// DocumentKind distinguishes the two inputs of a meeting
type DocumentKind string

const (
	DocumentAgenda  DocumentKind = "agenda"
	DocumentMinutes DocumentKind = "minutes"
)

// MeetingDocument is the raw text of one input document.
// Immutable once loaded; owned by the pipeline invocation.
type MeetingDocument struct {
	Kind             DocumentKind
	Path             string
	Text             string
	JurisdictionHint string
}

// MeetingInput bundles the two documents for one meeting
type MeetingInput struct {
	Agenda  MeetingDocument
	Minutes MeetingDocument
}
