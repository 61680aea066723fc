package ontology

import (
	"github.com/mfagan/canondrift/pkg/beat"
)

// extractElements distills a beat sequence into uniquely-identified
// character, location and theme elements. Attribute and relationship maps
// are built deterministically from the beats, so identical sequences yield
// identical elements.
func (b *Builder) extractElements(beats []*beat.NarrativeBeat, activePatterns map[string]float64) map[string]*Element {
	elements := make(map[string]*Element)
	if len(beats) == 0 {
		return elements
	}
	n := float64(len(beats))

	charThemes := make(map[string]map[string]float64)  // character -> action theme -> max strength
	coPresence := make(map[string]map[string]int)      // character -> co-present character -> beat count
	locThemes := make(map[string]map[string]float64)   // location -> theme -> max strength
	locCharacters := make(map[string]map[string]int)   // location -> character -> beat count
	themeStrength := make(map[string]float64)          // theme -> max strength
	themeCo := make(map[string]map[string]int)         // theme -> co-occurring theme -> beat count

	for _, bt := range beats {
		for _, charID := range bt.Characters {
			if charThemes[charID] == nil {
				charThemes[charID] = make(map[string]float64)
				coPresence[charID] = make(map[string]int)
			}
			for _, other := range bt.Characters {
				if other != charID {
					coPresence[charID][other]++
				}
			}
			for _, a := range bt.Actions[charID] {
				for theme, strength := range a.Themes {
					if strength > charThemes[charID][theme] {
						charThemes[charID][theme] = strength
					}
				}
			}
		}

		if bt.Location != "" {
			if locThemes[bt.Location] == nil {
				locThemes[bt.Location] = make(map[string]float64)
				locCharacters[bt.Location] = make(map[string]int)
			}
			for theme, strength := range bt.Themes {
				if strength > locThemes[bt.Location][theme] {
					locThemes[bt.Location][theme] = strength
				}
			}
			for _, charID := range bt.Characters {
				locCharacters[bt.Location][charID]++
			}
		}

		for theme, strength := range bt.Themes {
			if strength > themeStrength[theme] {
				themeStrength[theme] = strength
			}
			if themeCo[theme] == nil {
				themeCo[theme] = make(map[string]int)
			}
			for other := range bt.Themes {
				if other != theme {
					themeCo[theme][other]++
				}
			}
		}
	}

	for charID, themes := range charThemes {
		el := &Element{
			ID:                  "character_" + charID,
			Type:                ElementCharacter,
			Name:                charID,
			Attributes:          themes,
			Relationships:       fractions(coPresence[charID], n),
			ArchetypalResonance: make(map[string]float64),
		}
		for patternID, res := range activePatterns {
			if p, ok := b.excavator.Library().Get(patternID); ok && p.HasRoleFor(charID) {
				el.ArchetypalResonance[patternID] = res
			}
		}
		elements[el.ID] = el
	}

	for loc, themes := range locThemes {
		elements["location_"+loc] = &Element{
			ID:            "location_" + loc,
			Type:          ElementLocation,
			Name:          loc,
			Attributes:    themes,
			Relationships: fractions(locCharacters[loc], n),
		}
	}

	for theme, strength := range themeStrength {
		el := &Element{
			ID:                  "theme_" + theme,
			Type:                ElementTheme,
			Name:                theme,
			Attributes:          map[string]float64{"strength": strength},
			Relationships:       fractions(themeCo[theme], n),
			ArchetypalResonance: make(map[string]float64),
		}
		for patternID, res := range activePatterns {
			if p, ok := b.excavator.Library().Get(patternID); ok && p.HasCoreTheme(theme) {
				el.ArchetypalResonance[patternID] = res
			}
		}
		elements[el.ID] = el
	}

	return elements
}

// structuralSimilarities compares the shape of the variant against the
// reference along three axes.
func structuralSimilarities(variant, ref map[string]*Element) map[string]float64 {
	return map[string]float64{
		"character_network":     networkSimilarity(variant, ref, ElementCharacter),
		"thematic_structure":    thematicSimilarity(variant, ref),
		"narrative_progression": countSimilarity(variant, ref),
	}
}

// networkSimilarity averages relationship-map similarity over the union of
// elements of the given type.
func networkSimilarity(variant, ref map[string]*Element, typ ElementType) float64 {
	ids := make(map[string]struct{})
	for id, el := range variant {
		if el.Type == typ {
			ids[id] = struct{}{}
		}
	}
	for id, el := range ref {
		if el.Type == typ {
			ids[id] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return 1.0
	}

	total := 0.0
	for id := range ids {
		v, r := variant[id], ref[id]
		if v == nil || r == nil {
			continue // element exists on one side only, contributes zero
		}
		total += mapSimilarity(v.Relationships, r.Relationships)
	}
	return total / float64(len(ids))
}

// thematicSimilarity compares the aggregate theme-strength profiles.
func thematicSimilarity(variant, ref map[string]*Element) float64 {
	return mapSimilarity(themeProfile(variant), themeProfile(ref))
}

func themeProfile(elements map[string]*Element) map[string]float64 {
	profile := make(map[string]float64)
	for _, el := range elements {
		if el.Type == ElementTheme {
			profile[el.Name] = el.Attributes["strength"]
		}
	}
	return profile
}

// countSimilarity is the size ratio of the two element sets.
func countSimilarity(variant, ref map[string]*Element) float64 {
	nv, nr := float64(len(variant)), float64(len(ref))
	if nv == 0 && nr == 0 {
		return 1.0
	}
	return min(nv, nr) / max(nv, nr)
}

func fractions(counts map[string]int, n float64) map[string]float64 {
	out := make(map[string]float64, len(counts))
	for key, count := range counts {
		out[key] = float64(count) / n
	}
	return out
}
