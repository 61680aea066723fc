package ontology

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/excavate"
)

// ErrUnknownReference is returned when a variant is analyzed against a
// reference id that was never registered.
var ErrUnknownReference = errors.New("unknown reference narrative")

// similarityFloor drops element pairings too weak to be meaningful.
const similarityFloor = 0.3

// Named weights for the canonical fidelity blend.
const (
	elementFidelityWeight = 0.5
	patternFidelityWeight = 0.2
	styleFidelityWeight   = 0.3
)

// CanonicalMapping records how one variant maps onto its reference
// narrative. It is produced whole by AnalyzeVariant and never updated
// incrementally.
type CanonicalMapping struct {
	ReferenceID            string                        `json:"reference_id"`
	VariantID              string                        `json:"variant_id"`
	ElementMappings        map[string]map[string]float64 `json:"element_mappings"` // variant element id -> reference element id -> similarity
	StructuralSimilarities map[string]float64            `json:"structural_similarities"`
	ArchetypalShifts       map[string]float64            `json:"archetypal_shifts"` // pattern id -> variant resonance minus reference resonance
	MythosPatterns         []MythosPattern               `json:"mythos_patterns,omitempty"`
	StyleResonance         float64                       `json:"style_resonance"`
	CanonicalFidelity      float64                       `json:"canonical_fidelity"`
}

// reference is the stored profile of a registered reference narrative.
type reference struct {
	patterns map[string]float64
	elements map[string]*Element
	style    float64
}

// Builder maps variant narratives onto registered reference narratives.
// Unlike the resonance layer, structural problems here are hard failures:
// a fidelity score computed over a broken pairing would be meaningless, so
// errors are returned rather than degraded.
type Builder struct {
	excavator  *excavate.Excavator
	references map[string]*reference
	mappings   map[string]*CanonicalMapping
	logger     *slog.Logger
}

// NewBuilder creates an ontology builder over the excavator's pattern
// library.
func NewBuilder(excavator *excavate.Excavator, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		excavator:  excavator,
		references: make(map[string]*reference),
		mappings:   make(map[string]*CanonicalMapping),
		logger:     logger,
	}
}

// RegisterReference stores a narrative as a reference point: its pattern
// profile, its extracted elements and its style resonance.
func (b *Builder) RegisterReference(id string, beats []*beat.NarrativeBeat) error {
	if id == "" {
		return errors.New("reference id is required")
	}
	if len(beats) == 0 {
		return fmt.Errorf("reference %q has no beats", id)
	}

	patterns := b.excavator.Excavate(beats)
	elements := b.extractElements(beats, patterns)
	if len(elements) == 0 {
		err := fmt.Errorf("reference %q yields no narrative elements", id)
		b.logger.Error("Failed to register reference", "reference", id, "error", err)
		return err
	}
	for _, el := range elements {
		el.ReferenceSource = id
	}

	b.references[id] = &reference{
		patterns: patterns,
		elements: elements,
		style:    styleResonance(beats),
	}

	b.logger.Info("Registered reference narrative", "reference", id, "elements", len(elements), "patterns", len(patterns))
	return nil
}

// AnalyzeVariant maps a variant beat sequence onto a registered reference
// and scores its canonical fidelity. The mapping is recomputed from scratch
// over the full sequence on every call.
func (b *Builder) AnalyzeVariant(beats []*beat.NarrativeBeat, variantID, referenceID string) (*CanonicalMapping, error) {
	ref, ok := b.references[referenceID]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownReference, referenceID)
		b.logger.Error("Failed to analyze variant", "variant", variantID, "error", err)
		return nil, err
	}
	if len(beats) == 0 {
		err := fmt.Errorf("variant %q has no beats", variantID)
		b.logger.Error("Failed to analyze variant", "variant", variantID, "error", err)
		return nil, err
	}

	variantPatterns := b.excavator.Excavate(beats)
	elements := b.extractElements(beats, variantPatterns)

	mapping := &CanonicalMapping{
		ReferenceID:     referenceID,
		VariantID:       variantID,
		ElementMappings: make(map[string]map[string]float64, len(elements)),
	}

	for id, el := range elements {
		mapping.ElementMappings[id] = b.elementSimilarities(el, ref)
	}

	mapping.StructuralSimilarities = structuralSimilarities(elements, ref.elements)
	mapping.ArchetypalShifts = archetypalShifts(ref.patterns, variantPatterns)
	mapping.MythosPatterns = analyzeMythos(beats)
	mapping.StyleResonance = styleResonance(beats)

	mapping.CanonicalFidelity = canonicalFidelity(
		mapping.ElementMappings,
		mapping.ArchetypalShifts,
		mapping.StyleResonance,
		ref.style,
	)

	b.mappings[variantID] = mapping
	b.logger.Info("Completed ontological analysis",
		"variant", variantID,
		"reference", referenceID,
		"fidelity", mapping.CanonicalFidelity)
	return mapping, nil
}

// Mapping returns the stored analysis for a variant id.
func (b *Builder) Mapping(variantID string) (*CanonicalMapping, bool) {
	m, ok := b.mappings[variantID]
	return m, ok
}

// elementSimilarities scores one variant element against every reference
// element of the same type, keeping scores above the floor.
func (b *Builder) elementSimilarities(el *Element, ref *reference) map[string]float64 {
	similarities := make(map[string]float64)
	for refID, refEl := range ref.elements {
		if refEl.Type != el.Type {
			continue
		}
		if score := similarity(el, refEl); score > similarityFloor {
			similarities[refID] = score
		}
	}
	return similarities
}

// canonicalFidelity blends element fidelity, pattern-shift fidelity and
// style fidelity into one scalar in [0,1].
func canonicalFidelity(elementMappings map[string]map[string]float64, shifts map[string]float64, variantStyle, referenceStyle float64) float64 {
	elementFidelity := 0.0
	for _, similarities := range elementMappings {
		best := 0.0
		for _, score := range similarities {
			if score > best {
				best = score
			}
		}
		elementFidelity += best
	}
	if len(elementMappings) > 0 {
		elementFidelity /= float64(len(elementMappings))
	}

	patternFidelity := 1.0
	if len(shifts) > 0 {
		totalShift := 0.0
		for _, shift := range shifts {
			totalShift += math.Abs(shift)
		}
		patternFidelity = 1.0 - totalShift/float64(len(shifts))
	}

	styleFidelity := 1.0 - math.Abs(variantStyle-referenceStyle)

	fidelity := elementFidelity*elementFidelityWeight +
		patternFidelity*patternFidelityWeight +
		styleFidelity*styleFidelityWeight

	if fidelity < 0 {
		return 0
	}
	if fidelity > 1 {
		return 1
	}
	return fidelity
}

// archetypalShifts is the signed per-pattern resonance delta between the
// variant and the reference, over the union of their active patterns.
func archetypalShifts(referencePatterns, variantPatterns map[string]float64) map[string]float64 {
	shifts := make(map[string]float64)
	for id := range referencePatterns {
		shifts[id] = variantPatterns[id] - referencePatterns[id]
	}
	for id, strength := range variantPatterns {
		if _, seen := referencePatterns[id]; !seen {
			shifts[id] = strength
		}
	}
	return shifts
}
