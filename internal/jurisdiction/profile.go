// Package jurisdiction holds per-city extraction profiles and the
// registry that selects one for a document.
package jurisdiction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opencouncil/votescan/internal/parse"
	"github.com/opencouncil/votescan/internal/roster"
)

// RulePattern is one named regex a profile contributes to a parsing
// concern. Profile rules are tried before the generic defaults.
type RulePattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// RuleOverrides carries a profile's extra parsing rules per concern
type RuleOverrides struct {
	Motion  []RulePattern `yaml:"motion,omitempty"`
	Outcome []RulePattern `yaml:"outcome,omitempty"`
	Ballot  []RulePattern `yaml:"ballot,omitempty"`
	Recusal []RulePattern `yaml:"recusal,omitempty"`
}

// Profile is everything the engine needs to know about one city's
// minutes: the roster, formatting quirks, and quality expectations.
type Profile struct {
	City        string `yaml:"city"`
	CouncilSize int    `yaml:"council_size"`
	Quorum      int    `yaml:"quorum"`

	Roster []roster.Member `yaml:"roster,omitempty"`

	// Signatures are literal phrases whose presence identifies this
	// jurisdiction's documents during auto-detection.
	Signatures []string `yaml:"signatures,omitempty"`

	// DetectionThreshold is the minimum signature hits before this
	// profile may claim a document.
	DetectionThreshold int `yaml:"detection_threshold,omitempty"`

	// FallbackThreshold is the meeting score below which the fallback
	// extraction pass runs.
	FallbackThreshold float64 `yaml:"fallback_threshold"`

	// Boilerplate patterns are removed during normalization, on top of
	// the built-in page markers.
	Boilerplate []string `yaml:"boilerplate,omitempty"`

	// MotionMarkers are extra strict-segmentation start patterns
	MotionMarkers []string `yaml:"motion_markers,omitempty"`

	Rules RuleOverrides `yaml:"rules,omitempty"`
}

// RuleSet builds the profile's parsing rules: profile overrides first,
// generic defaults after, so jurisdiction-specific patterns win.
func (p *Profile) RuleSet() (*parse.RuleSet, error) {
	rs := &parse.RuleSet{
		Motion:  toRules(p.Rules.Motion),
		Outcome: toRules(p.Rules.Outcome),
		Ballot:  toRules(p.Rules.Ballot),
		Recusal: toRules(p.Rules.Recusal),
	}
	rs = rs.Merge(parse.DefaultRuleSet())
	if err := rs.CompileAll(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.City, err)
	}
	return rs, nil
}

// HasRoster reports whether the profile carries a canonical roster
func (p *Profile) HasRoster() bool {
	return len(p.Roster) > 0
}

// Resolver returns the member-name resolver for this profile: a roster
// validator when a roster is configured, a passthrough otherwise.
func (p *Profile) Resolver(learner roster.Learner) parse.MemberResolver {
	if p.HasRoster() {
		return roster.NewValidator(p.Roster, learner)
	}
	return roster.Passthrough{}
}

func toRules(patterns []RulePattern) []parse.Rule {
	rules := make([]parse.Rule, 0, len(patterns))
	for _, rp := range patterns {
		rules = append(rules, parse.Rule{Name: rp.Name, Pattern: rp.Pattern})
	}
	return rules
}

// Load reads a profile from a YAML file
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", filepath.Base(path), err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

// LoadDir reads every *.yaml profile in a directory, sorted by name so
// registration order is stable across runs.
func LoadDir(dir string) ([]*Profile, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var profiles []*Profile
	for _, path := range matches {
		p, err := Load(path)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (p *Profile) validate() error {
	if strings.TrimSpace(p.City) == "" {
		return fmt.Errorf("city is required")
	}
	if p.CouncilSize <= 0 {
		return fmt.Errorf("council_size must be positive")
	}
	if p.Quorum <= 0 || p.Quorum > p.CouncilSize {
		return fmt.Errorf("quorum %d invalid for council of %d", p.Quorum, p.CouncilSize)
	}
	if p.FallbackThreshold < 0 || p.FallbackThreshold > 1 {
		return fmt.Errorf("fallback_threshold must be in [0,1]")
	}
	return nil
}

// GenericCity names the profile used when no jurisdiction matches
const GenericCity = "Generic"

// SantaAna returns the built-in Santa Ana profile
func SantaAna() *Profile {
	return &Profile{
		City:        "Santa Ana",
		CouncilSize: 7,
		Quorum:      4,
		Roster: []roster.Member{
			{Name: "Amezcua", Title: "Mayor"},
			{Name: "Bacerra", Title: "Councilmember"},
			{Name: "Hernandez", Title: "Councilmember"},
			{Name: "Lopez", Title: "Councilmember"},
			{Name: "Penaloza", Title: "Councilmember"},
			{Name: "Phan", Title: "Mayor Pro Tem"},
			{Name: "Vazquez", Title: "Councilmember"},
		},
		Signatures: []string{
			"City of Santa Ana",
			"Santa Ana City Council",
			"Amezcua", "Bacerra", "Penaloza", "Vazquez",
		},
		DetectionThreshold: 2,
		FallbackThreshold:  0.7,
		Boilerplate: []string{
			`(?i)CITY OF SANTA ANA\s*[-\x{2013}]\s*MINUTES`,
			`(?i)SANTA ANA CITY COUNCIL REGULAR MEETING`,
		},
	}
}

// Anaheim returns the built-in Anaheim profile
func Anaheim() *Profile {
	return &Profile{
		City:        "Anaheim",
		CouncilSize: 7,
		Quorum:      4,
		Roster: []roster.Member{
			{Name: "Aitken", Title: "Mayor"},
			{Name: "Diaz", Title: "Councilmember"},
			{Name: "Faessel", Title: "Councilmember"},
			{Name: "Kurtz", Title: "Councilmember"},
			{Name: "Leon", Title: "Councilmember"},
			{Name: "Meeks", Title: "Councilmember"},
			{Name: "Rubalcava", Title: "Councilmember"},
		},
		Signatures: []string{
			"City of Anaheim",
			"Anaheim City Council",
			"Faessel", "Rubalcava", "Aitken",
		},
		DetectionThreshold: 2,
		FallbackThreshold:  0.7,
	}
}

// Generic returns the catch-all profile for unrecognized jurisdictions.
// It carries no roster, so member names pass through uncorrected, and
// its lower threshold reflects the weaker expectations.
func Generic() *Profile {
	return &Profile{
		City:              GenericCity,
		CouncilSize:       7,
		Quorum:            4,
		FallbackThreshold: 0.5,
	}
}
