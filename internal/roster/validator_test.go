package roster

import (
	"testing"
)

// recordingLearner tracks corrections learned during resolution
type recordingLearner struct {
	corrections map[string]string
	learned     int
}

func newRecordingLearner() *recordingLearner {
	return &recordingLearner{corrections: make(map[string]string)}
}

func (l *recordingLearner) Correction(raw string) (string, bool) {
	c, ok := l.corrections[raw]
	return c, ok
}

func (l *recordingLearner) LearnCorrection(raw, canonical string) {
	l.corrections[raw] = canonical
	l.learned++
}

func santaAnaRoster() []Member {
	return []Member{
		{Name: "Amezcua", Title: "Mayor"},
		{Name: "Bacerra", Title: "Councilmember"},
		{Name: "Hernandez", Title: "Councilmember"},
		{Name: "Lopez", Title: "Councilmember"},
		{Name: "Penaloza", Title: "Councilmember"},
		{Name: "Phan", Title: "Councilmember"},
		{Name: "Vazquez", Title: "Councilmember"},
	}
}

func TestResolve_ExactCaseInsensitive(t *testing.T) {
	v := NewValidator(santaAnaRoster(), nil)

	for _, raw := range []string{"BACERRA", "bacerra", "Bacerra"} {
		name, ok := v.Resolve(raw)
		if !ok {
			t.Fatalf("Expected %q to resolve", raw)
		}
		if name != "Bacerra" {
			t.Errorf("Expected canonical Bacerra, got %q", name)
		}
	}
}

func TestResolve_StripsTitles(t *testing.T) {
	v := NewValidator(santaAnaRoster(), nil)

	cases := []string{"COUNCILMEMBER PHAN", "Mayor Amezcua", "MAYOR PRO TEM HERNANDEZ", "Council Member Lopez"}
	wants := []string{"Phan", "Amezcua", "Hernandez", "Lopez"}

	for i, raw := range cases {
		name, ok := v.Resolve(raw)
		if !ok {
			t.Fatalf("Expected %q to resolve", raw)
		}
		if name != wants[i] {
			t.Errorf("Expected %q, got %q", wants[i], name)
		}
	}
}

func TestResolve_SubstringLearnsCorrection(t *testing.T) {
	learner := newRecordingLearner()
	v := NewValidator(santaAnaRoster(), learner)

	// OCR clipped the final letter
	name, ok := v.Resolve("BACERR")
	if !ok {
		t.Fatal("Expected fuzzy resolution for BACERR")
	}
	if name != "Bacerra" {
		t.Errorf("Expected Bacerra, got %q", name)
	}

	if got, ok := learner.Correction("BACERR"); !ok || got != "Bacerra" {
		t.Errorf("Expected correction BACERR->Bacerra persisted, got %q ok=%v", got, ok)
	}
}

func TestResolve_CachePrecedenceIsStable(t *testing.T) {
	learner := newRecordingLearner()
	v := NewValidator(santaAnaRoster(), learner)

	if _, ok := v.Resolve("PENALOZ"); !ok {
		t.Fatal("Expected first fuzzy resolution")
	}
	if learner.learned != 1 {
		t.Fatalf("Expected one learned correction, got %d", learner.learned)
	}

	// Second call must come from the cache, not re-derive fuzzily
	name, ok := v.Resolve("PENALOZ")
	if !ok || name != "Penaloza" {
		t.Fatalf("Expected cached Penaloza, got %q ok=%v", name, ok)
	}
	if learner.learned != 1 {
		t.Errorf("Expected no re-learning on cached resolution, got %d", learner.learned)
	}
}

func TestResolve_LearnedCorrectionBeforeRoster(t *testing.T) {
	learner := newRecordingLearner()
	// A prior run learned this OCR confusion
	learner.corrections["VASQUEZ"] = "Vazquez"

	v := NewValidator(santaAnaRoster(), learner)

	name, ok := v.Resolve("Vasquez")
	if !ok || name != "Vazquez" {
		t.Errorf("Expected learned correction to resolve, got %q ok=%v", name, ok)
	}
}

func TestResolve_UnknownNeverGuessed(t *testing.T) {
	v := NewValidator(santaAnaRoster(), nil)

	for _, raw := range []string{"SMITHERS", "XYZ", "", "   ", "THE CITY CLERK"} {
		if name, ok := v.Resolve(raw); ok {
			t.Errorf("Expected %q to stay unresolved, got %q", raw, name)
		}
	}
}

func TestResolve_ShortFragmentsNotFuzzyMatched(t *testing.T) {
	v := NewValidator(santaAnaRoster(), nil)

	// "PH" is inside "Phan" but far too ambiguous
	if name, ok := v.Resolve("PH"); ok {
		t.Errorf("Expected short fragment rejected, got %q", name)
	}
}
