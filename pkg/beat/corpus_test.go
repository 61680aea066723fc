package beat

import (
	"os"
	"path/filepath"
	"testing"
)

func testBeats() []*NarrativeBeat {
	return []*NarrativeBeat{
		{ID: "departure", Title: "Departure", NextBeats: []string{"storm"}},
		{ID: "storm", Title: "The Storm", NextBeats: []string{"landfall"}},
		{ID: "landfall", Title: "Landfall"},
	}
}

func TestNewCorpus(t *testing.T) {
	c, err := NewCorpus("voyage", testBeats())
	if err != nil {
		t.Fatalf("NewCorpus() error: %v", err)
	}

	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if got := c.Opening(); got == nil || got.ID != "departure" {
		t.Errorf("Opening() = %v, want departure", got)
	}
	if got := c.Get("storm"); got == nil || got.Title != "The Storm" {
		t.Errorf("Get(storm) = %v", got)
	}
	if got := c.Get("mutiny"); got != nil {
		t.Errorf("Get(mutiny) = %v, want nil", got)
	}

	pos, ok := c.Position("landfall")
	if !ok || pos != 2 {
		t.Errorf("Position(landfall) = %d, %v, want 2, true", pos, ok)
	}
	if _, ok := c.Position("mutiny"); ok {
		t.Error("Position(mutiny) should not resolve")
	}
}

func TestNewCorpusDuplicateID(t *testing.T) {
	beats := []*NarrativeBeat{
		{ID: "departure"},
		{ID: "departure"},
	}
	if _, err := NewCorpus("voyage", beats); err == nil {
		t.Error("expected error for duplicate beat id")
	}
}

func TestNewCorpusMissingID(t *testing.T) {
	if _, err := NewCorpus("voyage", []*NarrativeBeat{{Title: "Untitled"}}); err == nil {
		t.Error("expected error for beat without id")
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voyage.json")
	data := `{
		"name": "voyage",
		"beats": [
			{"id": "departure", "themes": {"seeking": 0.8}, "next_beats": ["storm"]},
			{"id": "storm"}
		]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write corpus: %v", err)
	}

	c, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}
	if c.Name != "voyage" || c.Len() != 2 {
		t.Errorf("loaded corpus = %q with %d beats", c.Name, c.Len())
	}
	if got := c.Get("departure").Themes["seeking"]; got != 0.8 {
		t.Errorf("seeking theme = %v, want 0.8", got)
	}
}

func TestLoadCorpusMissingFile(t *testing.T) {
	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing corpus file")
	}
}

func TestNewStoryState(t *testing.T) {
	opening := &NarrativeBeat{
		ID:     "departure",
		Themes: map[string]float64{"seeking": 0.8},
		Actions: map[string][]BeatAction{
			"ishmael": {{CharacterID: "ishmael", Text: "signs on", ImpactLevel: 0.3}},
		},
	}

	st := NewStoryState("voyage", opening)

	if st.StoryID != "voyage" {
		t.Errorf("StoryID = %q", st.StoryID)
	}
	if st.CurrentBeatID != "departure" {
		t.Errorf("CurrentBeatID = %q", st.CurrentBeatID)
	}
	if st.CanonicalDrift != 0 {
		t.Errorf("CanonicalDrift = %v, want 0", st.CanonicalDrift)
	}
	if st.ActiveThemes["seeking"] != 0.8 {
		t.Errorf("ActiveThemes = %v", st.ActiveThemes)
	}
	if len(st.AvailableActions) != 1 {
		t.Errorf("AvailableActions = %v", st.AvailableActions)
	}
	if st.Version != StateVersion {
		t.Errorf("Version = %q, want %q", st.Version, StateVersion)
	}
}

func TestStoryStateAdvance(t *testing.T) {
	opening := &NarrativeBeat{ID: "departure", Themes: map[string]float64{"seeking": 0.8}}
	next := &NarrativeBeat{
		ID:     "storm",
		Themes: map[string]float64{"nature": 0.9},
		Actions: map[string][]BeatAction{
			"ahab": {{CharacterID: "ahab", Text: "defies the storm", ImpactLevel: 0.8}},
		},
	}

	st := NewStoryState("voyage", opening)
	st.Advance(next, 0.2)

	if st.CurrentBeatID != "storm" {
		t.Errorf("CurrentBeatID = %q, want storm", st.CurrentBeatID)
	}
	if st.CanonicalDrift != 0.2 {
		t.Errorf("CanonicalDrift = %v, want 0.2", st.CanonicalDrift)
	}
	if _, stale := st.ActiveThemes["seeking"]; stale {
		t.Error("active themes should be replaced, not merged")
	}
	if st.ActiveThemes["nature"] != 0.9 {
		t.Errorf("ActiveThemes = %v", st.ActiveThemes)
	}
	if len(st.AvailableActions) != 1 || st.AvailableActions[0].CharacterID != "ahab" {
		t.Errorf("AvailableActions = %v", st.AvailableActions)
	}
}
