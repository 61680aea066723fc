package pattern

// TensionPair is a pair of opposing narrative forces, e.g. fear and courage.
type TensionPair struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// Pattern is a named archetypal narrative structure: the themes it turns on,
// the character roles it expects, the symbols that signal it and the axes of
// tension it plays out. Patterns are static data; they are never mutated
// after the library is built.
type Pattern struct {
	Name           string             `json:"name" yaml:"name"`
	CoreThemes     []string           `json:"core_themes" yaml:"core_themes"`
	CharacterRoles map[string]string  `json:"character_roles,omitempty" yaml:"character_roles,omitempty"` // character id -> archetypal role
	Symbols        map[string]float64 `json:"symbols,omitempty" yaml:"symbols,omitempty"`                 // symbol -> base resonance weight
	Tensions       []TensionPair      `json:"tensions,omitempty" yaml:"tensions,omitempty"`
}

// HasCoreTheme reports whether theme is one of the pattern's core themes.
func (p Pattern) HasCoreTheme(theme string) bool {
	for _, t := range p.CoreThemes {
		if t == theme {
			return true
		}
	}
	return false
}

// HasRoleFor reports whether the pattern assigns an archetypal role to the
// given character id.
func (p Pattern) HasRoleFor(characterID string) bool {
	_, ok := p.CharacterRoles[characterID]
	return ok
}
