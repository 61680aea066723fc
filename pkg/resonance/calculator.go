package resonance

import (
	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/pattern"
	"github.com/mfagan/canondrift/pkg/textmatch"
)

// TensionThemeThreshold is the theme strength above which both poles of a
// tension pair count as present even without textual co-occurrence.
const TensionThemeThreshold = 0.3

// Weights blends the three resonance sub-scores into one scalar.
type Weights struct {
	Thematic float64
	Symbolic float64
	Tension  float64
}

// DefaultWeights is the fixed blend used across the engine.
func DefaultWeights() Weights {
	return Weights{Thematic: 0.4, Symbolic: 0.3, Tension: 0.3}
}

// Calculator measures how strongly an archetypal pattern resonates through a
// beat sequence. It is a pure computation: same inputs, same score, no side
// effects. Malformed inputs (empty sequences, empty pattern sets) degrade to
// zero rather than failing, so one bad pattern cannot abort a whole session.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a calculator with the default weight blend.
func NewCalculator() *Calculator {
	return &Calculator{weights: DefaultWeights()}
}

// WithWeights overrides the blend. Returns the calculator for chaining.
func (c *Calculator) WithWeights(w Weights) *Calculator {
	c.weights = w
	return c
}

// Measure returns the pattern's overall resonance across the beats, in [0,1].
// An empty beat sequence scores 0.0.
func (c *Calculator) Measure(p pattern.Pattern, beats []*beat.NarrativeBeat) float64 {
	if len(beats) == 0 {
		return 0.0
	}

	score := c.Thematic(p, beats)*c.weights.Thematic +
		c.Symbolic(p, beats)*c.weights.Symbolic +
		c.Tension(p, beats)*c.weights.Tension

	return clamp01(score)
}

// Thematic is the average, over the pattern's core themes, of each theme's
// mean strength across the beats.
func (c *Calculator) Thematic(p pattern.Pattern, beats []*beat.NarrativeBeat) float64 {
	if len(beats) == 0 || len(p.CoreThemes) == 0 {
		return 0.0
	}

	total := 0.0
	for _, theme := range p.CoreThemes {
		presence := 0.0
		for _, b := range beats {
			presence += b.Themes[theme]
		}
		total += presence / float64(len(beats))
	}
	return total / float64(len(p.CoreThemes))
}

// Symbolic is the average, over the pattern's symbols, of the fraction of
// beats whose description or action text mentions the symbol, weighted by the
// symbol's base strength.
func (c *Calculator) Symbolic(p pattern.Pattern, beats []*beat.NarrativeBeat) float64 {
	if len(beats) == 0 || len(p.Symbols) == 0 {
		return 0.0
	}

	total := 0.0
	for symbol, baseWeight := range p.Symbols {
		mentions := 0
		for _, b := range beats {
			if beatMentions(b, symbol) {
				mentions++
			}
		}
		total += float64(mentions) / float64(len(beats)) * baseWeight
	}
	return total / float64(len(p.Symbols))
}

// Tension is the average, over the pattern's opposing pairs, of the fraction
// of beats where both poles are in play: either co-occurring in the
// description or both active as themes above the threshold.
func (c *Calculator) Tension(p pattern.Pattern, beats []*beat.NarrativeBeat) float64 {
	if len(beats) == 0 || len(p.Tensions) == 0 {
		return 0.0
	}

	total := 0.0
	for _, pair := range p.Tensions {
		present := 0
		for _, b := range beats {
			if textmatch.ContainsBoth(b.Description, pair.A, pair.B) ||
				(b.Themes[pair.A] > TensionThemeThreshold && b.Themes[pair.B] > TensionThemeThreshold) {
				present++
			}
		}
		total += float64(present) / float64(len(beats))
	}
	return total / float64(len(p.Tensions))
}

func beatMentions(b *beat.NarrativeBeat, symbol string) bool {
	if textmatch.Contains(b.Description, symbol) {
		return true
	}
	for _, actions := range b.Actions {
		for _, a := range actions {
			if textmatch.Contains(a.Text, symbol) {
				return true
			}
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
