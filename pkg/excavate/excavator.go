package excavate

import (
	"log/slog"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/pattern"
	"github.com/mfagan/canondrift/pkg/resonance"
	"github.com/mfagan/canondrift/pkg/textmatch"
)

// ActiveThreshold is the resonance a pattern must exceed to count as active
// in a narrative.
const ActiveThreshold = 0.4

// Contributions to a symbol's per-beat depth. The sum is clamped to [0,1].
const (
	depthDescriptionWeight = 0.3 // symbol literally present in the description
	depthActionWeight      = 0.2 // per action mentioning the symbol
	depthThemeFactor       = 0.3 // times the strength of a matching theme
	depthImpactFactor      = 0.2 // times the impact level of a mentioning action
)

// Excavator runs the resonance calculator across a whole pattern library to
// surface which archetypal patterns are active in a beat sequence, and
// measures per-symbol narrative depth as diagnostic output.
type Excavator struct {
	library *pattern.Library
	calc    *resonance.Calculator
	vocab   *textmatch.Vocabulary
	logger  *slog.Logger
}

// NewExcavator creates an excavator over the given pattern library.
func NewExcavator(library *pattern.Library, logger *slog.Logger) *Excavator {
	if logger == nil {
		logger = slog.Default()
	}

	vocab := textmatch.NewVocabulary()
	for _, id := range library.IDs() {
		p, _ := library.Get(id)
		for symbol := range p.Symbols {
			vocab.Add(symbol)
		}
	}

	return &Excavator{
		library: library,
		calc:    resonance.NewCalculator(),
		vocab:   vocab,
		logger:  logger,
	}
}

// Library returns the pattern library the excavator scores against.
func (e *Excavator) Library() *pattern.Library {
	return e.library
}

// Excavate measures every library pattern against the beats and returns the
// patterns whose resonance exceeds ActiveThreshold, keyed by pattern id.
func (e *Excavator) Excavate(beats []*beat.NarrativeBeat) map[string]float64 {
	active := make(map[string]float64)

	for _, id := range e.library.IDs() {
		p, _ := e.library.Get(id)
		r := e.calc.Measure(p, beats)
		if r > ActiveThreshold {
			active[id] = r
			e.logger.Info("Found archetypal pattern", "pattern", id, "resonance", r)
		}
	}

	return active
}

// AnalyzeDepth measures, per symbol in the library vocabulary, how deeply the
// symbol is worked into each beat that uses it. Values accumulate in beat
// order; each value is clamped to [0,1]. The result is diagnostic only and
// never feeds back into drift.
func (e *Excavator) AnalyzeDepth(beats []*beat.NarrativeBeat) map[string][]float64 {
	depths := make(map[string][]float64)
	if len(beats) == 0 {
		return depths
	}

	for _, b := range beats {
		for _, symbol := range e.extractSymbols(b) {
			depths[symbol] = append(depths[symbol], e.symbolDepth(symbol, b))
		}
	}

	e.logger.Info("Analyzed narrative depth", "beats", len(beats), "symbols", len(depths))
	return depths
}

// extractSymbols collects the folded symbol tokens present in a beat: words
// from the description and action text, and theme names, that belong to the
// library's symbol vocabulary.
func (e *Excavator) extractSymbols(b *beat.NarrativeBeat) []string {
	var symbols []string
	seen := make(map[string]struct{})

	add := func(tokens []string) {
		for _, token := range tokens {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			symbols = append(symbols, token)
		}
	}

	add(e.vocab.MatchWords(b.Description))
	for _, actions := range b.Actions {
		for _, a := range actions {
			add(e.vocab.MatchWords(a.Text))
		}
	}
	for theme := range b.Themes {
		if e.vocab.Has(theme) {
			add([]string{textmatch.Fold(theme)})
		}
	}

	return symbols
}

// symbolDepth scores one symbol's presence in one beat, clamped to [0,1].
func (e *Excavator) symbolDepth(symbol string, b *beat.NarrativeBeat) float64 {
	depth := 0.0

	if textmatch.Contains(b.Description, symbol) {
		depth += depthDescriptionWeight
	}

	for _, actions := range b.Actions {
		for _, a := range actions {
			if textmatch.Contains(a.Text, symbol) {
				depth += depthActionWeight
				depth += a.ImpactLevel * depthImpactFactor
			}
		}
	}

	for theme, strength := range b.Themes {
		if textmatch.Contains(theme, symbol) {
			depth += strength * depthThemeFactor
		}
	}

	if depth > 1.0 {
		return 1.0
	}
	return depth
}
