// Package roster canonicalizes member-name tokens against a
// per-jurisdiction roster, learning corrections as it goes.
package roster

import (
	"regexp"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Member is one canonical roster entry
type Member struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title,omitempty"` // e.g. "Mayor", "Councilmember"
}

// Learner is the learning-memory hook for name corrections. A learned
// correction is consulted before any roster matching on later calls.
type Learner interface {
	Correction(raw string) (string, bool)
	LearnCorrection(raw, canonical string)
}

var titlePrefix = regexp.MustCompile(`(?i)^(council\s?member|mayor\s+pro\s+tem|vice\s+mayor|mayor|commissioner|chair(?:person)?|dr\.?|mr\.?|ms\.?|mrs\.?)\s+`)

// Validator resolves raw name fragments to canonical roster names.
// Matching priority: session cache, learned corrections, exact
// case-insensitive, bidirectional substring. Unknown names resolve to
// false and are never guessed.
type Validator struct {
	members []Member
	byFold  map[string]string
	cache   *gocache.Cache
	learner Learner
}

// NewValidator creates a validator for the given roster. learner may be
// nil when no learning memory is attached.
func NewValidator(members []Member, learner Learner) *Validator {
	v := &Validator{
		members: members,
		byFold:  make(map[string]string, len(members)),
		cache:   gocache.New(gocache.NoExpiration, 0),
		learner: learner,
	}
	for _, m := range members {
		v.byFold[strings.ToUpper(m.Name)] = m.Name
	}
	return v
}

// Members returns the canonical roster
func (v *Validator) Members() []Member {
	return v.members
}

// Resolve canonicalizes a raw name fragment. The second return is false
// when the fragment matches no roster entry.
func (v *Validator) Resolve(raw string) (string, bool) {
	clean := cleanFragment(raw)
	if clean == "" {
		return "", false
	}
	key := strings.ToUpper(clean)

	// Fast path: previously resolved in this session
	if hit, found := v.cache.Get(key); found {
		return hit.(string), true
	}

	// Learned corrections take precedence over fresh matching
	if v.learner != nil {
		if canonical, ok := v.learner.Correction(key); ok {
			v.cache.Set(key, canonical, gocache.NoExpiration)
			return canonical, true
		}
	}

	// Exact case-insensitive roster match
	if canonical, ok := v.byFold[key]; ok {
		v.cache.Set(key, canonical, gocache.NoExpiration)
		return canonical, true
	}

	// Fuzzy: substring containment either direction. Short fragments are
	// too ambiguous to match this way.
	if len(key) >= 4 {
		for _, m := range v.members {
			fold := strings.ToUpper(m.Name)
			if strings.Contains(fold, key) || strings.Contains(key, fold) {
				if v.learner != nil {
					v.learner.LearnCorrection(key, m.Name)
				}
				v.cache.Set(key, m.Name, gocache.NoExpiration)
				return m.Name, true
			}
		}
	}

	return "", false
}

// Passthrough accepts any plausible cleaned fragment as its own
// canonical form, for jurisdictions without a configured roster.
type Passthrough struct{}

// Resolve strips titles and punctuation and accepts the remainder when
// it still looks like a name.
func (Passthrough) Resolve(raw string) (string, bool) {
	clean := cleanFragment(raw)
	if len(clean) < 2 {
		return "", false
	}
	return clean, true
}

// cleanFragment strips titles and stray punctuation from a raw token
func cleanFragment(raw string) string {
	s := strings.TrimSpace(raw)
	for {
		stripped := titlePrefix.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = strings.TrimSpace(stripped)
	}
	return strings.Trim(s, " .,:;")
}
