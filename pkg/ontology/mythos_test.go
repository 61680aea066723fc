package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfagan/canondrift/pkg/beat"
)

func tragedyBeats() []*beat.NarrativeBeat {
	return []*beat.NarrativeBeat{
		{
			ID:          "downfall",
			Description: "An autumn storm gathers at sunset",
			Themes:      map[string]float64{"fate": 0.8, "pride": 0.9, "justice": 0.5},
			Actions: map[string][]beat.BeatAction{
				"captain": {{CharacterID: "captain", Text: "the tragic hero defies his nemesis", ImpactLevel: 0.9}},
			},
		},
	}
}

func ironyBeats() []*beat.NarrativeBeat {
	return []*beat.NarrativeBeat{
		{
			ID:          "dead_end",
			Description: "winter darkness in the maze",
			Themes:      map[string]float64{"disillusionment": 0.7, "absurdity": 0.8, "limitation": 0.6},
			Actions: map[string][]beat.BeatAction{
				"clerk": {{CharacterID: "clerk", Text: "the anti-hero drifts past society unseen", ImpactLevel: 0.4}},
			},
		},
	}
}

func TestAnalyzeMythosTragedy(t *testing.T) {
	active := analyzeMythos(tragedyBeats())

	require.NotEmpty(t, active, "expected at least one active mythos")
	assert.Equal(t, MythosTragedy, active[0].Mythos)
	assert.Greater(t, active[0].Resonance, MythosThreshold)

	for _, p := range active {
		assert.NotEqual(t, MythosComedy, p.Mythos, "no comedy signals in these beats")
	}
}

func TestAnalyzeMythosIrony(t *testing.T) {
	active := analyzeMythos(ironyBeats())

	require.NotEmpty(t, active)
	assert.Equal(t, MythosIrony, active[0].Mythos)
}

func TestAnalyzeMythosOrdering(t *testing.T) {
	beats := append(tragedyBeats(), ironyBeats()...)

	active := analyzeMythos(beats)
	for i := 1; i < len(active); i++ {
		assert.GreaterOrEqual(t, active[i-1].Resonance, active[i].Resonance,
			"active patterns must be sorted strongest first")
	}
}

func TestAnalyzeMythosEmptySequence(t *testing.T) {
	assert.Empty(t, analyzeMythos(nil))
}

func TestStyleResonance(t *testing.T) {
	melvillean := []*beat.NarrativeBeat{
		{
			ID:          "pursuit",
			Description: "the whale crosses the sea",
			Themes:      map[string]float64{"obsession": 0.9, "isolation": 0.6, "revenge": 0.8},
		},
	}
	neutral := []*beat.NarrativeBeat{
		{
			ID:          "meadow",
			Description: "a quiet afternoon in the meadow",
			Themes:      map[string]float64{"whimsy": 0.4},
		},
	}

	strong := styleResonance(melvillean)
	weak := styleResonance(neutral)

	assert.Greater(t, strong, weak)
	assert.Zero(t, weak)
	assert.GreaterOrEqual(t, strong, 0.0)
	assert.LessOrEqual(t, strong, 1.0)
	assert.Zero(t, styleResonance(nil))
}
