package beat

import (
	"time"

	"github.com/google/uuid"
)

// StoryState is the mutable record of one play session. It is created at
// session start and mutated only by the timeline validator when a transition
// is accepted.
type StoryState struct {
	ID               uuid.UUID                     `json:"id"` // unique per session
	CurrentBeatID    string                        `json:"current_beat_id"`
	CanonicalDrift   float64                       `json:"canonical_drift"` // 0.0 = faithful to the reference, 1.0 = fully divergent
	ActiveThemes     map[string]float64            `json:"active_themes,omitempty"`
	CharacterStates  map[string]map[string]float64 `json:"character_states,omitempty"`
	AvailableActions []BeatAction                  `json:"available_actions,omitempty"`

	// Save metadata
	StoryID  string    `json:"story_id,omitempty"`
	SaveSlot int       `json:"save_slot,omitempty"`
	SavedAt  time.Time `json:"saved_at,omitempty"`
	Version  string    `json:"version,omitempty"`
}

const StateVersion = "1.0"

// NewStoryState creates a session state positioned at the given opening beat.
func NewStoryState(storyID string, opening *NarrativeBeat) *StoryState {
	st := &StoryState{
		ID:              uuid.New(),
		StoryID:         storyID,
		SaveSlot:        1,
		Version:         StateVersion,
		ActiveThemes:    make(map[string]float64),
		CharacterStates: make(map[string]map[string]float64),
	}
	if opening != nil {
		st.CurrentBeatID = opening.ID
		for theme, strength := range opening.Themes {
			st.ActiveThemes[theme] = strength
		}
		st.AvailableActions = opening.AllActions()
	}
	return st
}

// Advance moves the session onto the accepted beat, replacing the active
// themes and available actions with the new beat's and recording the drift
// returned by the validator.
func (st *StoryState) Advance(next *NarrativeBeat, drift float64) {
	st.CurrentBeatID = next.ID
	st.CanonicalDrift = drift
	st.ActiveThemes = make(map[string]float64, len(next.Themes))
	for theme, strength := range next.Themes {
		st.ActiveThemes[theme] = strength
	}
	st.AvailableActions = next.AllActions()
}
