package agenda

import (
	"strings"
	"testing"
)

const sampleAgenda = `CITY COUNCIL REGULAR MEETING AGENDA

Item 12. Approval of the Professional Services Agreement with Acme Engineering
Item 13. Public Hearing on the Housing Element Update
Item 24. RESOLUTION NO. 2024-031 - Approving the lease of city property at 100 Main Street

RESOLUTION NO. 2024-032 - Adopting the annual budget
ORDINANCE NO. NS-3012 - Amending the municipal code regarding sidewalk vending
`

func TestCorrelate_ResolutionNumberFirst(t *testing.T) {
	c := NewCorrelator("Santa Ana", sampleAgenda, nil)

	number, title := c.Correlate("moved to adopt RESOLUTION NO. 2024-032, the MOTION carried 7-0")
	if number != "Resolution 2024-032" {
		t.Errorf("Expected Resolution 2024-032, got %q", number)
	}
	if !strings.Contains(title, "annual budget") {
		t.Errorf("Expected title from agenda, got %q", title)
	}
}

func TestCorrelate_OrdinanceNumber(t *testing.T) {
	c := NewCorrelator("Santa Ana", sampleAgenda, nil)

	number, title := c.Correlate("moved to adopt ORDINANCE NO. NS-3012 as amended")
	if number != "Ordinance NS-3012" {
		t.Errorf("Expected Ordinance NS-3012, got %q", number)
	}
	if !strings.Contains(title, "sidewalk vending") {
		t.Errorf("Expected title from agenda, got %q", title)
	}
}

func TestCorrelate_ItemNumberAgainstAgendaList(t *testing.T) {
	c := NewCorrelator("Santa Ana", sampleAgenda, nil)

	number, title := c.Correlate("moved to approve Item 12 as recommended by staff")
	if number != "12" {
		t.Errorf("Expected item 12, got %q", number)
	}
	if !strings.Contains(title, "Acme Engineering") {
		t.Errorf("Expected agenda title, got %q", title)
	}
}

func TestCorrelate_BareNumberContainment(t *testing.T) {
	c := NewCorrelator("Santa Ana", sampleAgenda, nil)

	number, title := c.Correlate("moved to continue the hearing for 13 to the next meeting")
	if number != "13" {
		t.Errorf("Expected item 13 by containment, got %q", number)
	}
	if !strings.Contains(title, "Housing Element") {
		t.Errorf("Expected agenda title, got %q", title)
	}
}

func TestCorrelate_UnknownSentinel(t *testing.T) {
	c := NewCorrelator("Santa Ana", sampleAgenda, nil)

	number, title := c.Correlate("moved to approve the minutes of the prior meeting")
	if number != "Unknown" {
		t.Errorf("Expected Unknown, got %q", number)
	}
	if title != "Santa Ana Council Item" {
		t.Errorf("Expected sentinel title, got %q", title)
	}
}

func TestCorrelate_TitleNeverFromBlock(t *testing.T) {
	c := NewCorrelator("Santa Ana", "", nil)

	// Resolution number present in the block but absent from the agenda:
	// the number is kept, the title falls back to the sentinel
	number, title := c.Correlate("adopt RESOLUTION NO. 2099-999 regarding the secret annex")
	if number != "Resolution 2099-999" {
		t.Errorf("Expected resolution number kept, got %q", number)
	}
	if strings.Contains(title, "secret annex") {
		t.Errorf("Title must not be fabricated from the block, got %q", title)
	}
	if title != "Santa Ana Council Item" {
		t.Errorf("Expected sentinel title, got %q", title)
	}
}

func TestCorrelate_LearnedPattern(t *testing.T) {
	c := NewCorrelator("Santa Ana", sampleAgenda, []string{`(?i)agenda matter (\d+)`})

	// No built-in rule matches "agenda matter" phrasing and 99 is not on
	// the agenda, so only the learned pattern can resolve a number
	number, title := c.Correlate("moved to approve agenda matter 99 without discussion")
	if number != "99" {
		t.Errorf("Expected learned pattern to resolve item 99, got %q", number)
	}
	if title != c.SentinelTitle() {
		t.Errorf("Expected sentinel title for off-agenda item, got %q", title)
	}
}

func TestCorrelate_HTMLAgenda(t *testing.T) {
	htmlAgenda := `<html><body>
	<p>Item 12. Approval of the Professional Services Agreement with Acme Engineering</p>
	</body></html>`
	c := NewCorrelator("Santa Ana", htmlAgenda, nil)

	number, title := c.Correlate("moved to approve Item 12")
	if number != "12" {
		t.Errorf("Expected item 12 from HTML agenda, got %q", number)
	}
	if !strings.Contains(title, "Acme Engineering") {
		t.Errorf("Expected title from stripped HTML, got %q", title)
	}
}
