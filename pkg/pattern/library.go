package pattern

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Library is a catalogue of archetypal patterns keyed by id. Lookup of an
// absent id simply misses; there is no error path.
type Library struct {
	patterns map[string]Pattern
	order    []string
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{patterns: make(map[string]Pattern)}
}

// Builtin returns the fixed catalogue of archetypal patterns the engine
// ships with.
func Builtin() *Library {
	l := NewLibrary()
	l.Put("hero_journey", Pattern{
		Name:       "The Hero's Journey",
		CoreThemes: []string{"transformation", "return", "sacrifice"},
		CharacterRoles: map[string]string{
			"mentor":             "guide",
			"shadow":             "challenger",
			"threshold_guardian": "gatekeeper",
		},
		Symbols: map[string]float64{
			"crossing_threshold": 0.8,
			"descent":            0.7,
			"rebirth":            0.9,
		},
		Tensions: []TensionPair{
			{A: "ordinary", B: "extraordinary"},
			{A: "fear", B: "courage"},
			{A: "death", B: "rebirth"},
		},
	})
	l.Put("tragic_fall", Pattern{
		Name:       "Tragic Fall",
		CoreThemes: []string{"hubris", "nemesis", "recognition"},
		CharacterRoles: map[string]string{
			"tragic_hero": "protagonist",
			"nemesis":     "antagonist",
			"chorus":      "witness",
		},
		Symbols: map[string]float64{
			"fatal_flaw":  0.9,
			"prophecy":    0.7,
			"recognition": 0.8,
		},
		Tensions: []TensionPair{
			{A: "pride", B: "fall"},
			{A: "destiny", B: "free_will"},
			{A: "knowledge", B: "ignorance"},
		},
	})
	l.Put("rebirth", Pattern{
		Name:       "Rebirth",
		CoreThemes: []string{"redemption", "forgiveness", "renewal"},
		CharacterRoles: map[string]string{
			"fallen_hero": "protagonist",
			"catalyst":    "guide",
			"witness":     "observer",
		},
		Symbols: map[string]float64{
			"darkness": 0.8,
			"light":    0.8,
			"water":    0.7,
			"spring":   0.6,
		},
		Tensions: []TensionPair{
			{A: "sin", B: "redemption"},
			{A: "isolation", B: "connection"},
			{A: "past", B: "future"},
		},
	})
	l.Put("quest", Pattern{
		Name:       "The Quest",
		CoreThemes: []string{"seeking", "discovery", "trial"},
		CharacterRoles: map[string]string{
			"seeker":    "protagonist",
			"helper":    "ally",
			"adversary": "challenger",
		},
		Symbols: map[string]float64{
			"journey":  0.9,
			"artifact": 0.8,
			"obstacle": 0.7,
		},
		Tensions: []TensionPair{
			{A: "ignorance", B: "wisdom"},
			{A: "weakness", B: "strength"},
			{A: "doubt", B: "faith"},
		},
	})
	return l
}

// Load reads a pattern catalogue from a YAML file, merged on top of nothing.
// Symbol weights outside [0,1] are an authoring error.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern catalogue: %w", err)
	}

	var raw struct {
		Patterns map[string]Pattern `yaml:"patterns"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse pattern catalogue: %w", err)
	}

	l := NewLibrary()
	for id, p := range raw.Patterns {
		for symbol, weight := range p.Symbols {
			if weight < 0 || weight > 1 {
				return nil, fmt.Errorf("pattern %q: symbol %q weight %.2f outside [0,1]", id, symbol, weight)
			}
		}
		l.Put(id, p)
	}
	return l, nil
}

// Put inserts or replaces a pattern.
func (l *Library) Put(id string, p Pattern) {
	if _, exists := l.patterns[id]; !exists {
		l.order = append(l.order, id)
	}
	l.patterns[id] = p
}

// Get returns the pattern with the given id.
func (l *Library) Get(id string) (Pattern, bool) {
	p, ok := l.patterns[id]
	return p, ok
}

// IDs returns pattern ids in insertion order.
func (l *Library) IDs() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Len returns the number of patterns in the library.
func (l *Library) Len() int {
	return len(l.patterns)
}

// Merge copies every pattern from other into the library, replacing patterns
// that share an id.
func (l *Library) Merge(other *Library) {
	if other == nil {
		return
	}
	for _, id := range other.order {
		l.Put(id, other.patterns[id])
	}
}
