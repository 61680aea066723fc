package ontology

import (
	"sort"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/pattern"
	"github.com/mfagan/canondrift/pkg/textmatch"
)

// Mythos is one of the four seasonal narrative categories of archetypal
// literary criticism.
type Mythos string

const (
	MythosComedy  Mythos = "comedy"  // spring
	MythosRomance Mythos = "romance" // summer
	MythosTragedy Mythos = "tragedy" // autumn
	MythosIrony   Mythos = "irony"   // winter
)

// MythosThreshold is the resonance a mythos pattern must exceed to count as
// present in a narrative.
const MythosThreshold = 0.3

// Per-beat weights for the mythos resonance blend.
const (
	mythosCharacterWeight = 0.4
	mythosSymbolWeight    = 0.3
	mythosThemeWeight     = 0.3
)

// MythosPattern is one phase of a mythos: the character types, plot
// movements, symbols, themes and typical conflicts that signal it.
type MythosPattern struct {
	Mythos         Mythos
	Phase          int // 1-6 phases within each mythos
	CharacterTypes []string
	PlotMovements  []string
	Symbols        []string
	Themes         []string
	Conflicts      []pattern.TensionPair
	Resonance      float64 // measured presence, set during analysis
}

// mythosCatalogue is the fixed secondary pattern set folded into variant
// analysis as a literary-critical signal.
func mythosCatalogue() []MythosPattern {
	return []MythosPattern{
		{
			Mythos:         MythosComedy,
			Phase:          1,
			CharacterTypes: []string{"young lover", "blocking figure", "helper"},
			PlotMovements:  []string{"obstacles to union", "recognition", "festive conclusion"},
			Symbols:        []string{"spring", "garden", "festival", "marriage"},
			Themes:         []string{"renewal", "reconciliation", "harmony"},
			Conflicts: []pattern.TensionPair{
				{A: "youth", B: "age"},
				{A: "freedom", B: "society"},
			},
		},
		{
			Mythos:         MythosRomance,
			Phase:          1,
			CharacterTypes: []string{"hero", "companion", "antagonist"},
			PlotMovements:  []string{"quest", "journey", "triumph"},
			Symbols:        []string{"sword", "holy grail", "magical weapon"},
			Themes:         []string{"adventure", "idealism", "victory"},
			Conflicts: []pattern.TensionPair{
				{A: "good", B: "evil"},
				{A: "order", B: "chaos"},
			},
		},
		{
			Mythos:         MythosTragedy,
			Phase:          1,
			CharacterTypes: []string{"tragic hero", "nemesis", "chorus"},
			PlotMovements:  []string{"hubris", "fall", "recognition"},
			Symbols:        []string{"autumn", "sunset", "storm"},
			Themes:         []string{"fate", "pride", "justice"},
			Conflicts: []pattern.TensionPair{
				{A: "individual", B: "fate"},
				{A: "ambition", B: "limitation"},
			},
		},
		{
			Mythos:         MythosIrony,
			Phase:          1,
			CharacterTypes: []string{"anti-hero", "victim", "society"},
			PlotMovements:  []string{"alienation", "absurdity", "cyclic return"},
			Symbols:        []string{"winter", "darkness", "maze"},
			Themes:         []string{"disillusionment", "absurdity", "limitation"},
			Conflicts: []pattern.TensionPair{
				{A: "illusion", B: "reality"},
				{A: "individual", B: "society"},
			},
		},
	}
}

// analyzeMythos measures every catalogue pattern against the beats and
// returns the ones above MythosThreshold, strongest first.
func analyzeMythos(beats []*beat.NarrativeBeat) []MythosPattern {
	var active []MythosPattern

	for _, p := range mythosCatalogue() {
		r := mythosResonance(p, beats)
		if r > MythosThreshold {
			p.Resonance = r
			active = append(active, p)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].Resonance > active[j].Resonance
	})
	return active
}

// mythosResonance averages per-beat scores: character types matched in
// action text, symbols matched in the description, themes matched by name.
func mythosResonance(p MythosPattern, beats []*beat.NarrativeBeat) float64 {
	if len(beats) == 0 {
		return 0.0
	}

	total := 0.0
	for _, b := range beats {
		characterScore := 0.0
		if len(p.CharacterTypes) > 0 {
			matched := 0
			for _, charType := range p.CharacterTypes {
				if actionTextMentions(b, charType) {
					matched++
				}
			}
			characterScore = float64(matched) / float64(len(p.CharacterTypes))
		}

		symbolScore := 0.0
		if len(p.Symbols) > 0 {
			matched := 0
			for _, symbol := range p.Symbols {
				if textmatch.Contains(b.Description, symbol) {
					matched++
				}
			}
			symbolScore = float64(matched) / float64(len(p.Symbols))
		}

		themeScore := 0.0
		if len(p.Themes) > 0 {
			matched := 0
			for _, theme := range p.Themes {
				if _, ok := b.Themes[theme]; ok {
					matched++
				}
			}
			themeScore = float64(matched) / float64(len(p.Themes))
		}

		total += characterScore*mythosCharacterWeight +
			symbolScore*mythosSymbolWeight +
			themeScore*mythosThemeWeight
	}

	return total / float64(len(beats))
}

func actionTextMentions(b *beat.NarrativeBeat, term string) bool {
	for _, actions := range b.Actions {
		for _, a := range actions {
			if textmatch.Contains(a.Text, term) {
				return true
			}
		}
	}
	return false
}
