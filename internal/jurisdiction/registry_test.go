package jurisdiction

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSelect_KnownCityBindsProfile(t *testing.T) {
	r := DefaultRegistry()

	p := r.Select("santa ana")
	if p.City != "Santa Ana" {
		t.Errorf("Expected Santa Ana profile, got %s", p.City)
	}
	if r.State() != StateBound {
		t.Errorf("Expected bound state, got %s", r.State())
	}
	if r.Bound() != p {
		t.Error("Expected Bound() to return the selected profile")
	}
}

func TestSelect_UnknownCityBindsGeneric(t *testing.T) {
	r := DefaultRegistry()

	p := r.Select("Springfield")
	if p.City != GenericCity {
		t.Errorf("Expected generic profile for unknown city, got %s", p.City)
	}
	if p.FallbackThreshold != 0.5 {
		t.Errorf("Expected generic threshold 0.5, got %.2f", p.FallbackThreshold)
	}
}

func TestAutoDetect_SignatureHitsBindProfile(t *testing.T) {
	r := DefaultRegistry()

	text := "MINUTES OF THE SANTA ANA CITY COUNCIL. Councilmember Bacerra moved, " +
		"seconded by Penaloza. City of Santa Ana."
	p := r.AutoDetect(text)
	if p.City != "Santa Ana" {
		t.Errorf("Expected Santa Ana from signatures, got %s", p.City)
	}
}

func TestAutoDetect_BelowThresholdBindsGeneric(t *testing.T) {
	r := DefaultRegistry()

	// Single signature hit is below the detection threshold of 2
	p := r.AutoDetect("The motion was made by Councilmember Bacerra.")
	if p.City != GenericCity {
		t.Errorf("Expected generic below detection threshold, got %s", p.City)
	}
}

func TestAutoDetect_IsDeterministic(t *testing.T) {
	text := "City of Santa Ana. Santa Ana City Council. Amezcua presided."

	first := DefaultRegistry().AutoDetect(text).City
	for i := 0; i < 10; i++ {
		if got := DefaultRegistry().AutoDetect(text).City; got != first {
			t.Fatalf("Detection not deterministic: %s then %s", first, got)
		}
	}
}

func TestAutoDetect_TieBreaksToEarlierRegistration(t *testing.T) {
	r := NewRegistry()
	a := &Profile{City: "Alpha", CouncilSize: 5, Quorum: 3, FallbackThreshold: 0.7,
		Signatures: []string{"COUNCIL CHAMBERS"}, DetectionThreshold: 1}
	b := &Profile{City: "Beta", CouncilSize: 5, Quorum: 3, FallbackThreshold: 0.7,
		Signatures: []string{"COUNCIL CHAMBERS"}, DetectionThreshold: 1}
	if err := r.Register(a); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(b); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if p := r.AutoDetect("Meeting held in the Council Chambers."); p.City != "Alpha" {
		t.Errorf("Expected tie to break to first registered, got %s", p.City)
	}
}

func TestRegister_AfterBindRejected(t *testing.T) {
	r := DefaultRegistry()
	r.Select("Santa Ana")

	err := r.Register(&Profile{City: "Late", CouncilSize: 5, Quorum: 3})
	if err == nil {
		t.Error("Expected registration after bind to fail")
	}
}

func TestRegister_DuplicateCityRejected(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(SantaAna()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(SantaAna()); err == nil {
		t.Error("Expected duplicate registration to fail")
	}
}

func TestLoad_ProfileFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "irvine.yaml")
	doc := `city: Irvine
council_size: 5
quorum: 3
fallback_threshold: 0.7
detection_threshold: 1
signatures:
  - City of Irvine
roster:
  - name: Khan
    title: Mayor
  - name: Agran
    title: Councilmember
rules:
  outcome:
    - name: outcome:irvine-roll-call
      pattern: '(?i)ROLL CALL VOTE[:\s]+(?P<result>carried|failed)'
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.City != "Irvine" || p.CouncilSize != 5 || p.Quorum != 3 {
		t.Errorf("Unexpected profile fields: %+v", p)
	}
	if len(p.Roster) != 2 || p.Roster[0].Name != "Khan" {
		t.Errorf("Unexpected roster: %+v", p.Roster)
	}

	rs, err := p.RuleSet()
	if err != nil {
		t.Fatalf("RuleSet failed: %v", err)
	}
	if len(rs.Outcome) == 0 || rs.Outcome[0].Name != "outcome:irvine-roll-call" {
		t.Errorf("Expected profile rule first, got %+v", rs.Outcome)
	}
}

func TestLoad_InvalidProfileRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("city: Nowhere\ncouncil_size: 0\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected invalid profile to be rejected")
	}
}

func TestGeneric_ProfileUsesPassthroughResolver(t *testing.T) {
	p := Generic()
	if p.HasRoster() {
		t.Fatal("Generic profile should not carry a roster")
	}

	resolver := p.Resolver(nil)
	name, ok := resolver.Resolve("Councilmember Smith")
	if !ok || name != "Smith" {
		t.Errorf("Expected passthrough resolution Smith, got %q (ok=%v)", name, ok)
	}
}
