package ontology

import (
	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/textmatch"
)

// styleWork is the thematic fingerprint of one work in the reference corpus.
type styleWork struct {
	Themes         []string
	Symbols        []string
	CharacterTypes []string
	Mythos         Mythos
}

// Per-work weights for the style resonance blend.
const (
	styleThemeWeight     = 0.4
	styleSymbolWeight    = 0.3
	styleCharacterWeight = 0.3
)

// styleCorpus holds the fixed fingerprints of the reference author's works.
var styleCorpus = map[string]styleWork{
	"moby_dick": {
		Themes:         []string{"obsession", "isolation", "nature", "faith", "revenge"},
		Symbols:        []string{"whale", "sea", "whiteness", "ship"},
		CharacterTypes: []string{"monomaniac", "isolato", "prophet"},
		Mythos:         MythosTragedy,
	},
	"billy_budd": {
		Themes:         []string{"innocence", "authority", "duty", "moral_ambiguity"},
		Symbols:        []string{"handsome_sailor", "mutiny", "law", "hanging"},
		CharacterTypes: []string{"innocent", "authority_figure", "tragic_witness"},
		Mythos:         MythosTragedy,
	},
	"bartleby": {
		Themes:         []string{"resistance", "alienation", "capitalism", "humanity"},
		Symbols:        []string{"wall", "office", "dead_letters", "preference"},
		CharacterTypes: []string{"passive_resister", "corporate_figure", "observer"},
		Mythos:         MythosIrony,
	},
}

// styleResonance measures how strongly a beat sequence echoes the reference
// corpus fingerprints, in [0,1]. Accumulates per beat and per work, then
// averages over the works and clamps.
func styleResonance(beats []*beat.NarrativeBeat) float64 {
	if len(beats) == 0 {
		return 0.0
	}

	total := 0.0
	for _, b := range beats {
		for _, work := range styleCorpus {
			themeMatches := 0
			for _, theme := range work.Themes {
				if _, ok := b.Themes[theme]; ok {
					themeMatches++
				}
			}

			symbolMatches := 0
			for _, symbol := range work.Symbols {
				if textmatch.Contains(b.Description, symbol) {
					symbolMatches++
				}
			}

			characterMatches := 0
			for _, charType := range work.CharacterTypes {
				if actionTextMentions(b, charType) {
					characterMatches++
				}
			}

			size := float64(len(work.Themes) + len(work.Symbols) + len(work.CharacterTypes))
			total += (float64(themeMatches)*styleThemeWeight +
				float64(symbolMatches)*styleSymbolWeight +
				float64(characterMatches)*styleCharacterWeight) / size
		}
	}

	score := total / float64(len(styleCorpus))
	if score > 1.0 {
		return 1.0
	}
	return score
}
