package jurisdiction

import (
	"fmt"
	"strings"
	"sync"
)

// State tracks the registry lifecycle: profiles are registered while
// Unconfigured, a document drives Selecting, and the chosen profile is
// Bound for the rest of the meeting.
type State int

const (
	StateUnconfigured State = iota
	StateSelecting
	StateBound
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateSelecting:
		return "selecting"
	case StateBound:
		return "bound"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Registry holds the known jurisdiction profiles and selects one per
// meeting. Selection is deterministic: the same registration order and
// the same document always bind the same profile.
type Registry struct {
	mu       sync.Mutex
	profiles []*Profile
	state    State
	bound    *Profile
}

// NewRegistry creates an empty registry in the unconfigured state
func NewRegistry() *Registry {
	return &Registry{state: StateUnconfigured}
}

// DefaultRegistry returns a registry with the built-in profiles. The
// generic profile registers last so real jurisdictions win ties.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(SantaAna())
	_ = r.Register(Anaheim())
	_ = r.Register(Generic())
	return r
}

// Register adds a profile. Registration is only valid before a profile
// has been bound; duplicate cities are rejected.
func (r *Registry) Register(p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateBound {
		return fmt.Errorf("registry already bound to %s", r.bound.City)
	}
	for _, existing := range r.profiles {
		if strings.EqualFold(existing.City, p.City) {
			return fmt.Errorf("profile for %s already registered", p.City)
		}
	}
	r.profiles = append(r.profiles, p)
	return nil
}

// Profiles returns the registered profiles in registration order
func (r *Registry) Profiles() []*Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Profile{}, r.profiles...)
}

// State returns the current lifecycle state
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Bound returns the bound profile, nil before binding
func (r *Registry) Bound() *Profile {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bound
}

// Select binds the profile whose city matches the hint. An unknown hint
// binds the generic profile rather than failing: the caller asked for
// extraction, not for jurisdiction bookkeeping.
func (r *Registry) Select(hint string) *Profile {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateSelecting
	hint = strings.TrimSpace(hint)
	for _, p := range r.profiles {
		if strings.EqualFold(p.City, hint) {
			return r.bind(p)
		}
	}
	return r.bind(r.generic())
}

// AutoDetect binds the profile with the most signature hits in the
// document text. A profile qualifies only when its hits meet its own
// detection threshold; ties break toward the earlier registration. No
// qualifying profile binds generic.
func (r *Registry) AutoDetect(text string) *Profile {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateSelecting
	folded := strings.ToUpper(text)

	var best *Profile
	bestHits := 0
	for _, p := range r.profiles {
		hits := 0
		for _, sig := range p.Signatures {
			if strings.Contains(folded, strings.ToUpper(sig)) {
				hits++
			}
		}
		threshold := p.DetectionThreshold
		if threshold <= 0 {
			threshold = 1
		}
		if hits >= threshold && hits > bestHits {
			best = p
			bestHits = hits
		}
	}
	if best == nil {
		best = r.generic()
	}
	return r.bind(best)
}

func (r *Registry) bind(p *Profile) *Profile {
	r.bound = p
	r.state = StateBound
	return p
}

// generic finds the catch-all profile, synthesizing one if the registry
// was built without it
func (r *Registry) generic() *Profile {
	for _, p := range r.profiles {
		if strings.EqualFold(p.City, GenericCity) {
			return p
		}
	}
	return Generic()
}
