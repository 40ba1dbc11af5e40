package gazetteer

import "strings"

// MatchKind tells which part of a place matched an address.
type MatchKind string

const (
	MatchDistrictName MatchKind = "district_name"
	MatchAlias        MatchKind = "alias"
)

// Match is the result of resolving an address.
type Match struct {
	District     string    `json:"district"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Kind         MatchKind `json:"matchType"`
	MatchedAlias string    `json:"matchedAlias,omitempty"`
}

// Matcher resolves free-text addresses against a gazetteer by unanchored,
// case-insensitive substring search. Entries are tried in dataset order; for
// each entry the canonical name is tried before its aliases, and the first hit
// wins. Short aliases may match inside unrelated words.
type Matcher struct {
	entries []matchEntry
}

type matchEntry struct {
	place   Place
	name    string
	aliases []string
}

// NewMatcher prepares a matcher over g.
func NewMatcher(g *Gazetteer) *Matcher {
	m := &Matcher{entries: make([]matchEntry, 0, len(g.places))}
	for _, p := range g.places {
		e := matchEntry{place: p, name: strings.ToLower(p.Name)}
		for _, a := range p.Aliases {
			e.aliases = append(e.aliases, strings.ToLower(a))
		}
		m.entries = append(m.entries, e)
	}
	return m
}

// Match returns the first place whose name or alias occurs in address.
func (m *Matcher) Match(address string) (Match, bool) {
	if address == "" {
		return Match{}, false
	}
	addr := strings.ToLower(address)

	for _, e := range m.entries {
		if strings.Contains(addr, e.name) {
			return Match{
				District:  e.place.Name,
				Latitude:  e.place.Latitude,
				Longitude: e.place.Longitude,
				Kind:      MatchDistrictName,
			}, true
		}
		for i, alias := range e.aliases {
			if alias != "" && strings.Contains(addr, alias) {
				return Match{
					District:     e.place.Name,
					Latitude:     e.place.Latitude,
					Longitude:    e.place.Longitude,
					Kind:         MatchAlias,
					MatchedAlias: e.place.Aliases[i],
				}, true
			}
		}
	}
	return Match{}, false
}
