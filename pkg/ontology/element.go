package ontology

// ElementType classifies a narrative element.
type ElementType string

const (
	ElementCharacter ElementType = "character"
	ElementLocation  ElementType = "location"
	ElementTheme     ElementType = "theme"
)

// Element is one fundamental unit of the narrative ontology: a character, a
// location or a theme, described by scored attribute, relationship and
// archetypal-resonance maps so that variants can be compared element by
// element against a reference narrative.
type Element struct {
	ID                  string             `json:"id"`
	Type                ElementType        `json:"type"`
	Name                string             `json:"name"`
	Attributes          map[string]float64 `json:"attributes,omitempty"`
	Relationships       map[string]float64 `json:"relationships,omitempty"`
	ArchetypalResonance map[string]float64 `json:"archetypal_resonance,omitempty"` // pattern id -> resonance
	ReferenceSource     string             `json:"reference_source,omitempty"`     // reference id the element was registered under
}

// Named weights for the element similarity blend.
const (
	attributeWeight    = 0.3
	relationshipWeight = 0.4
	resonanceWeight    = 0.3
)

// similarity scores how alike two elements are, in [0,1]. Each component is
// the sum of pairwise minimums over shared keys, normalized by the sum of
// pairwise maximums over all keys; two identical maps score 1.0 and two
// empty maps count as a vacuous match.
func similarity(a, b *Element) float64 {
	return mapSimilarity(a.Attributes, b.Attributes)*attributeWeight +
		mapSimilarity(a.Relationships, b.Relationships)*relationshipWeight +
		mapSimilarity(a.ArchetypalResonance, b.ArchetypalResonance)*resonanceWeight
}

func mapSimilarity(a, b map[string]float64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	minSum, maxSum := 0.0, 0.0
	for key, av := range a {
		bv := b[key]
		minSum += min(av, bv)
		maxSum += max(av, bv)
	}
	for key, bv := range b {
		if _, shared := a[key]; !shared {
			maxSum += bv
		}
	}

	if maxSum == 0 {
		return 0.0
	}
	return minSum / maxSum
}
