package pipeline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/opencouncil/votescan/internal/model"
	"github.com/opencouncil/votescan/internal/textutil"
)

// ErrDocumentTooShort marks minutes too small to be a readable document
var ErrDocumentTooShort = errors.New("document below minimum readable length")

// LoadDocument reads one meeting document from disk. HTML exports are
// stripped to visible text.
func LoadDocument(path string, kind model.DocumentKind, minBytes int) (model.MeetingDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.MeetingDocument{}, fmt.Errorf("read %s: %w", kind, err)
	}

	text := string(data)
	if textutil.LooksLikeHTML(text) {
		text = textutil.StripHTML(text)
	}
	text = strings.TrimSpace(text)

	// Only the minutes carry a hard length requirement; a thin agenda
	// just means weaker correlation
	if kind == model.DocumentMinutes && len(text) < minBytes {
		return model.MeetingDocument{}, fmt.Errorf("%s (%d bytes, need %d): %w", path, len(text), minBytes, ErrDocumentTooShort)
	}

	return model.MeetingDocument{
		Kind: kind,
		Path: path,
		Text: text,
	}, nil
}

// LoadMeeting loads the minutes and the optional agenda for one
// meeting. agendaPath may be empty.
func LoadMeeting(minutesPath, agendaPath string, minBytes int) (model.MeetingInput, error) {
	minutes, err := LoadDocument(minutesPath, model.DocumentMinutes, minBytes)
	if err != nil {
		return model.MeetingInput{}, err
	}

	input := model.MeetingInput{Minutes: minutes}
	if agendaPath != "" {
		agenda, err := LoadDocument(agendaPath, model.DocumentAgenda, 0)
		if err != nil {
			return model.MeetingInput{}, err
		}
		input.Agenda = agenda
	}
	return input, nil
}
