package resonance

import (
	"math"
	"testing"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/pattern"
)

const tolerance = 1e-9

func voyagePattern() pattern.Pattern {
	return pattern.Pattern{
		Name:       "The Voyage",
		CoreThemes: []string{"obsession", "nature"},
		Symbols:    map[string]float64{"whale": 0.8},
		Tensions:   []pattern.TensionPair{{A: "man", B: "nature"}},
	}
}

func voyageBeats() []*beat.NarrativeBeat {
	return []*beat.NarrativeBeat{
		{
			ID:          "sighting",
			Description: "The whale breaches",
			Themes:      map[string]float64{"obsession": 0.6, "nature": 0.4},
		},
		{
			ID:          "defiance",
			Description: "man against nature on deck",
			Themes:      map[string]float64{"obsession": 0.8},
		},
	}
}

func TestMeasureEmptySequence(t *testing.T) {
	c := NewCalculator()
	if got := c.Measure(voyagePattern(), nil); got != 0.0 {
		t.Errorf("Measure on empty sequence = %v, want 0.0", got)
	}
}

func TestThematic(t *testing.T) {
	c := NewCalculator()

	// obsession averages 0.7, nature averages 0.2, blended to 0.45.
	got := c.Thematic(voyagePattern(), voyageBeats())
	if math.Abs(got-0.45) > tolerance {
		t.Errorf("Thematic = %v, want 0.45", got)
	}

	empty := pattern.Pattern{Name: "Empty"}
	if got := c.Thematic(empty, voyageBeats()); got != 0.0 {
		t.Errorf("Thematic with no core themes = %v, want 0.0", got)
	}
}

func TestSymbolic(t *testing.T) {
	c := NewCalculator()

	// One of two beats mentions the whale, weighted by 0.8.
	got := c.Symbolic(voyagePattern(), voyageBeats())
	if math.Abs(got-0.4) > tolerance {
		t.Errorf("Symbolic = %v, want 0.4", got)
	}
}

func TestSymbolicMatchesActionText(t *testing.T) {
	c := NewCalculator()
	beats := []*beat.NarrativeBeat{
		{
			ID:          "hunt",
			Description: "The boats are lowered",
			Actions: map[string][]beat.BeatAction{
				"ahab": {{CharacterID: "ahab", Text: "harpoons the whale", ImpactLevel: 0.9}},
			},
		},
	}

	got := c.Symbolic(voyagePattern(), beats)
	if math.Abs(got-0.8) > tolerance {
		t.Errorf("Symbolic = %v, want 0.8", got)
	}
}

func TestTension(t *testing.T) {
	c := NewCalculator()

	// Only the second beat co-mentions both poles in its description.
	got := c.Tension(voyagePattern(), voyageBeats())
	if math.Abs(got-0.5) > tolerance {
		t.Errorf("Tension = %v, want 0.5", got)
	}
}

func TestTensionViaThemeStrength(t *testing.T) {
	c := NewCalculator()
	p := pattern.Pattern{
		Name:     "Opposed",
		Tensions: []pattern.TensionPair{{A: "fear", B: "courage"}},
	}
	beats := []*beat.NarrativeBeat{
		{ID: "strong", Themes: map[string]float64{"fear": 0.5, "courage": 0.6}},
		{ID: "weak", Themes: map[string]float64{"fear": 0.2, "courage": 0.6}},
	}

	// Both poles exceed the threshold only in the first beat.
	got := c.Tension(p, beats)
	if math.Abs(got-0.5) > tolerance {
		t.Errorf("Tension = %v, want 0.5", got)
	}
}

func TestMeasure(t *testing.T) {
	c := NewCalculator()

	// 0.45*0.4 + 0.4*0.3 + 0.5*0.3
	got := c.Measure(voyagePattern(), voyageBeats())
	if math.Abs(got-0.45) > tolerance {
		t.Errorf("Measure = %v, want 0.45", got)
	}
	if got < 0 || got > 1 {
		t.Errorf("Measure = %v outside [0,1]", got)
	}
}

func TestWithWeights(t *testing.T) {
	c := NewCalculator().WithWeights(Weights{Thematic: 1, Symbolic: 0, Tension: 0})

	got := c.Measure(voyagePattern(), voyageBeats())
	if math.Abs(got-0.45) > tolerance {
		t.Errorf("Measure with thematic-only weights = %v, want 0.45", got)
	}
}

func TestMeasureBuiltinRange(t *testing.T) {
	c := NewCalculator()
	lib := pattern.Builtin()
	beats := voyageBeats()

	for _, id := range lib.IDs() {
		p, _ := lib.Get(id)
		score := c.Measure(p, beats)
		if score < 0 || score > 1 {
			t.Errorf("pattern %s resonance %v outside [0,1]", id, score)
		}
	}
}
