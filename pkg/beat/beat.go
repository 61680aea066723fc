package beat

// BeatAction is one character's action within a beat.
type BeatAction struct {
	CharacterID  string             `json:"character_id" validate:"required"`
	Text         string             `json:"text"`                                         // free-text description of the action
	ImpactLevel  float64            `json:"impact_level" validate:"gte=0,lte=1"`          // 0.0 to 1.0
	Themes       map[string]float64 `json:"themes,omitempty" validate:"dive,gte=0,lte=1"` // theme name -> strength
	Consequences []string           `json:"consequences,omitempty"`                       // IDs of beats this action can lead to
	IsCanonical  bool               `json:"is_canonical,omitempty"`                       // whether the action belongs to the reference narrative
}

// NarrativeBeat is a single scene or moment in the story timeline.
// Beats are authored once and treated as read-only afterward.
type NarrativeBeat struct {
	ID          string                  `json:"id" validate:"required"`
	Title       string                  `json:"title,omitempty"`
	Description string                  `json:"description"`
	Themes      map[string]float64      `json:"themes,omitempty" validate:"dive,gte=0,lte=1"` // theme name -> strength
	Characters  []string                `json:"characters,omitempty"`                         // character IDs present in the scene
	Location    string                  `json:"location,omitempty"`
	Actions     map[string][]BeatAction `json:"actions,omitempty" validate:"dive,dive"` // character ID -> available actions
	NextBeats   []string                `json:"next_beats,omitempty"`                   // IDs of beats that may follow this one
	IsDecision  bool                    `json:"is_decision,omitempty"`                  // marks a major branch point
}

// AllActions flattens the per-character action lists into a single slice.
// Iteration order over characters is not stable; callers must not depend on it.
func (b *NarrativeBeat) AllActions() []BeatAction {
	var out []BeatAction
	for _, actions := range b.Actions {
		out = append(out, actions...)
	}
	return out
}

// IsTerminal reports whether the beat has no successors.
func (b *NarrativeBeat) IsTerminal() bool {
	return len(b.NextBeats) == 0
}

// LeadsTo reports whether id appears in the beat's successor set.
func (b *NarrativeBeat) LeadsTo(id string) bool {
	for _, next := range b.NextBeats {
		if next == id {
			return true
		}
	}
	return false
}
