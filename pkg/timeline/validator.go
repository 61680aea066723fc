package timeline

import (
	"log/slog"
	"math"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/excavate"
	"github.com/mfagan/canondrift/pkg/ontology"
)

// Decision thresholds and drift formula weights. Constants inherited from
// the scoring model; changing them changes every session's drift trajectory.
const (
	// PatternConsistencyFloor rejects transitions that fall below it.
	PatternConsistencyFloor = 0.4
	// DivergenceCeiling rejects near-ending transitions whose drift exceeds it.
	DivergenceCeiling = 0.8
	// EndingWindow is the final fraction of the corpus ordering treated as
	// near the ending.
	EndingWindow = 0.2

	canonicalDriftFactor = 0.7 // drift decay when moving onto a canonical beat
	divergentDriftFactor = 1.3 // drift growth when moving off the canon
	driftCarryWeight     = 0.4
	thematicDriftWeight  = 0.3
	patternDriftWeight   = 0.3

	themeConsistencyWeight = 0.6
	roleConsistencyWeight  = 0.4

	// DefaultThemeImportance weights themes absent from the importance table.
	DefaultThemeImportance = 0.5

	// canonicalActionDriftLimit keeps canonical actions always available
	// while the session is still close to the reference narrative.
	canonicalActionDriftLimit = 0.5
)

// defaultThemeImportance is the builtin theme importance table.
func defaultThemeImportance() map[string]float64 {
	return map[string]float64{
		"revenge":    0.8,
		"obsession":  0.9,
		"isolation":  0.7,
		"friendship": 0.6,
		"fate":       0.8,
		"nature":     0.7,
	}
}

// Validator decides whether a session may progress from its current beat to
// a proposed next beat, and maintains the session's canonical drift. The
// active-pattern profile of the corpus is excavated lazily on first use and
// memoized for the validator's lifetime.
//
// A Validator is scoped to one session and is not safe for concurrent use;
// callers sharing one across goroutines must serialize access.
type Validator struct {
	corpus    *beat.Corpus
	excavator *excavate.Excavator
	builder   *ontology.Builder
	logger    *slog.Logger

	themeImportance  map[string]float64
	canonicalBeats   map[string]struct{}
	characterActions map[string][]beat.BeatAction

	activePatterns map[string]float64
	narrativeDepth map[string][]float64
	excavated      bool

	variantID   string
	referenceID string
}

// NewValidator creates a validator over the authored corpus. The ontology
// builder is optional; when present and a variant id is set, variant
// analysis runs as a diagnostic side effect of the first validation.
func NewValidator(corpus *beat.Corpus, excavator *excavate.Excavator, builder *ontology.Builder, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		corpus:           corpus,
		excavator:        excavator,
		builder:          builder,
		logger:           logger,
		themeImportance:  defaultThemeImportance(),
		canonicalBeats:   make(map[string]struct{}),
		characterActions: make(map[string][]beat.BeatAction),
	}
}

// WithThemeImportance replaces the theme importance table. Returns the
// validator for chaining.
func (v *Validator) WithThemeImportance(importance map[string]float64) *Validator {
	v.themeImportance = importance
	return v
}

// SetVariant marks the session as a variant of a registered reference, so
// the first validation also produces an ontological mapping.
func (v *Validator) SetVariant(variantID, referenceID string) {
	v.variantID = variantID
	v.referenceID = referenceID
}

// RegisterCanonicalBeat marks a beat as part of the reference narrative.
func (v *Validator) RegisterCanonicalBeat(id string) {
	v.canonicalBeats[id] = struct{}{}
}

// RegisterCanonicalAction records a character action from the reference
// narrative, making it eligible for AvailableActions.
func (v *Validator) RegisterCanonicalAction(characterID string, action beat.BeatAction) {
	v.characterActions[characterID] = append(v.characterActions[characterID], action)
	v.logger.Info("Registered canonical action", "character", characterID, "action", action.Text)
}

// AvailableActions returns the registered actions a character may take given
// the session state.
func (v *Validator) AvailableActions(characterID string, st *beat.StoryState) []beat.BeatAction {
	if st == nil {
		v.logger.Warn("Story state not initialized when getting actions")
		return nil
	}

	var available []beat.BeatAction
	for _, action := range v.characterActions[characterID] {
		if v.isActionValid(action, st) {
			available = append(available, action)
		}
	}
	return available
}

// ActivePatterns returns the memoized corpus pattern profile, excavating on
// first call.
func (v *Validator) ActivePatterns() map[string]float64 {
	v.ensureExcavated()
	return v.activePatterns
}

// NarrativeDepth returns the memoized per-symbol depth diagnostic.
func (v *Validator) NarrativeDepth() map[string][]float64 {
	v.ensureExcavated()
	return v.narrativeDepth
}

// ValidateTransition decides whether the session may move from its current
// beat to next, returning the updated canonical drift when it may. The
// state is not mutated; callers apply the drift via StoryState.Advance on
// acceptance.
func (v *Validator) ValidateTransition(st *beat.StoryState, next *beat.NarrativeBeat) Result {
	if st == nil {
		return Result{Allowed: false, Drift: 1.0, Reason: ReasonUninitializedState}
	}

	// Without available actions there is no adjacency to check.
	if len(st.AvailableActions) == 0 {
		return Result{Allowed: true, Drift: st.CanonicalDrift, Reason: ReasonNoActions}
	}

	if !contains(st.AvailableActions[0].Consequences, next.ID) {
		return Result{Allowed: false, Drift: 1.0, Reason: ReasonDisconnected}
	}

	v.ensureExcavated()
	if v.variantID != "" && v.builder != nil && !v.variantAnalyzed() {
		if _, err := v.builder.AnalyzeVariant(v.corpus.Beats, v.variantID, v.referenceID); err != nil {
			v.logger.Error("Variant analysis failed during validation", "variant", v.variantID, "error", err)
			return Result{Allowed: false, Drift: 1.0, Reason: ReasonInternalError}
		}
	}

	consistency := v.patternConsistency(next)
	if consistency < PatternConsistencyFloor {
		return Result{Allowed: false, Drift: 1.0, Reason: ReasonPatternInconsistent}
	}

	thematicDrift := v.thematicDrift(st.ActiveThemes, next.Themes)

	_, isCanonical := v.canonicalBeats[next.ID]
	newDrift := v.updateDrift(st.CanonicalDrift, isCanonical, thematicDrift, consistency)

	if newDrift > DivergenceCeiling && v.nearEnding(next) {
		return Result{Allowed: false, Drift: newDrift, Reason: ReasonExceededDivergence}
	}

	return Result{Allowed: true, Drift: newDrift, Reason: ReasonValid}
}

// ensureExcavated populates the memoized pattern profile once per validator.
func (v *Validator) ensureExcavated() {
	if v.excavated {
		return
	}
	v.activePatterns = v.excavator.Excavate(v.corpus.Beats)
	v.narrativeDepth = v.excavator.AnalyzeDepth(v.corpus.Beats)
	v.excavated = true
}

func (v *Validator) variantAnalyzed() bool {
	if v.builder == nil {
		return true
	}
	_, ok := v.builder.Mapping(v.variantID)
	return ok
}

// patternConsistency measures how well next sustains the corpus's active
// patterns: per pattern, a blend of theme overlap and character-role
// overlap, weighted by the pattern's resonance, averaged over all active
// patterns. With no active patterns the transition is vacuously consistent.
func (v *Validator) patternConsistency(next *beat.NarrativeBeat) float64 {
	if len(v.activePatterns) == 0 {
		return 1.0
	}

	total, counted := 0.0, 0
	for patternID, res := range v.activePatterns {
		p, ok := v.excavator.Library().Get(patternID)
		if !ok {
			continue
		}

		themeScore := 1.0
		if len(p.CoreThemes) > 0 {
			matched := 0
			for _, theme := range p.CoreThemes {
				if _, present := next.Themes[theme]; present {
					matched++
				}
			}
			themeScore = float64(matched) / float64(len(p.CoreThemes))
		}

		roleScore := 1.0
		if len(next.Characters) > 0 {
			matched := 0
			for _, charID := range next.Characters {
				if p.HasRoleFor(charID) {
					matched++
				}
			}
			roleScore = float64(matched) / float64(len(next.Characters))
		}

		total += (themeScore*themeConsistencyWeight + roleScore*roleConsistencyWeight) * res
		counted++
	}

	if counted == 0 {
		return 1.0
	}
	return total / float64(counted)
}

// thematicDrift is the importance-weighted mean absolute difference between
// the current and next theme strengths, over the union of both theme sets
// and the active patterns' core themes. Themes held by active patterns
// weigh heavier, inflated by (1 + resonance) per holding pattern.
func (v *Validator) thematicDrift(current, next map[string]float64) float64 {
	themes := make(map[string]struct{})
	for theme := range current {
		themes[theme] = struct{}{}
	}
	for theme := range next {
		themes[theme] = struct{}{}
	}
	for patternID := range v.activePatterns {
		if p, ok := v.excavator.Library().Get(patternID); ok {
			for _, theme := range p.CoreThemes {
				themes[theme] = struct{}{}
			}
		}
	}

	totalDrift, totalWeight := 0.0, 0.0
	for theme := range themes {
		weight, ok := v.themeImportance[theme]
		if !ok {
			weight = DefaultThemeImportance
		}
		for patternID, res := range v.activePatterns {
			if p, found := v.excavator.Library().Get(patternID); found && p.HasCoreTheme(theme) {
				weight *= 1 + res
			}
		}

		totalDrift += math.Abs(current[theme]-next[theme]) * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.0
	}
	return totalDrift / totalWeight
}

// updateDrift applies the drift formula: the carried drift decays toward
// the canon on canonical beats and grows off it, blended with the thematic
// drift and the pattern inconsistency, clamped to [0,1].
func (v *Validator) updateDrift(current float64, isCanonical bool, thematicDrift, consistency float64) float64 {
	factor := divergentDriftFactor
	if isCanonical {
		factor = canonicalDriftFactor
	}

	drift := current*factor*driftCarryWeight +
		thematicDrift*thematicDriftWeight +
		(1-consistency)*patternDriftWeight

	return math.Min(math.Max(drift, 0.0), 1.0)
}

// nearEnding reports whether a beat sits at or near the narrative's ending:
// it has no successors, or its authored position falls within the final
// EndingWindow fraction of the corpus.
func (v *Validator) nearEnding(b *beat.NarrativeBeat) bool {
	if b.IsTerminal() {
		return true
	}
	pos, ok := v.corpus.Position(b.ID)
	if !ok || v.corpus.Len() == 0 {
		return false
	}
	return float64(pos) >= (1.0-EndingWindow)*float64(v.corpus.Len())
}

// isActionValid keeps canonical actions available while the session remains
// close to the reference narrative; once drift passes the limit only
// non-canonical actions stay open.
func (v *Validator) isActionValid(action beat.BeatAction, st *beat.StoryState) bool {
	if action.IsCanonical {
		return st.CanonicalDrift < canonicalActionDriftLimit
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
