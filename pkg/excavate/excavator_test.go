package excavate

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/pattern"
)

const tolerance = 1e-9

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLibrary() *pattern.Library {
	l := pattern.NewLibrary()
	l.Put("voyage", pattern.Pattern{
		Name:       "The Voyage",
		CoreThemes: []string{"obsession", "nature"},
		Symbols:    map[string]float64{"whale": 0.9, "sea": 0.6},
		Tensions:   []pattern.TensionPair{{A: "man", B: "nature"}},
	})
	l.Put("quiet", pattern.Pattern{
		Name:       "Quiet Interlude",
		CoreThemes: []string{"stillness"},
		Symbols:    map[string]float64{"harbor": 0.5},
	})
	return l
}

func voyageBeats() []*beat.NarrativeBeat {
	return []*beat.NarrativeBeat{
		{
			ID:          "sighting",
			Description: "The whale breaches the sea",
			Themes:      map[string]float64{"obsession": 0.9, "nature": 0.8},
		},
		{
			ID:          "defiance",
			Description: "man against nature, the whale returns",
			Themes:      map[string]float64{"obsession": 0.8, "nature": 0.7},
		},
	}
}

func TestExcavate(t *testing.T) {
	e := NewExcavator(testLibrary(), quietLogger())

	active := e.Excavate(voyageBeats())

	// thematic 0.8, symbolic 0.6, tension 0.5 under the default blend
	want := 0.8*0.4 + 0.6*0.3 + 0.5*0.3
	got, ok := active["voyage"]
	if !ok {
		t.Fatal("expected voyage pattern to be active")
	}
	if math.Abs(got-want) > tolerance {
		t.Errorf("voyage resonance = %v, want %v", got, want)
	}

	if _, ok := active["quiet"]; ok {
		t.Error("quiet pattern has no presence in the beats and should stay inactive")
	}
}

func TestExcavateEmptySequence(t *testing.T) {
	e := NewExcavator(testLibrary(), quietLogger())

	if active := e.Excavate(nil); len(active) != 0 {
		t.Errorf("Excavate(nil) = %v, want empty", active)
	}
}

func TestAnalyzeDepth(t *testing.T) {
	e := NewExcavator(testLibrary(), quietLogger())
	beats := []*beat.NarrativeBeat{
		{
			ID:          "hunt",
			Description: "The whale is sighted",
			Actions: map[string][]beat.BeatAction{
				"ahab": {{CharacterID: "ahab", Text: "strikes at the whale", ImpactLevel: 0.5}},
			},
		},
	}

	depths := e.AnalyzeDepth(beats)

	got, ok := depths["whale"]
	if !ok || len(got) != 1 {
		t.Fatalf("depths[whale] = %v, want one entry", got)
	}
	// description 0.3, action 0.2, impact 0.5*0.2
	if math.Abs(got[0]-0.6) > tolerance {
		t.Errorf("whale depth = %v, want 0.6", got[0])
	}

	if _, ok := depths["sea"]; ok {
		t.Error("sea is never mentioned and should not appear")
	}
}

func TestAnalyzeDepthClamped(t *testing.T) {
	e := NewExcavator(testLibrary(), quietLogger())
	heavy := beat.BeatAction{CharacterID: "crew", Text: "whale, whale, whale", ImpactLevel: 1.0}
	beats := []*beat.NarrativeBeat{
		{
			ID:          "frenzy",
			Description: "whale everywhere",
			Actions: map[string][]beat.BeatAction{
				"crew": {heavy, heavy, heavy, heavy},
			},
		},
	}

	depths := e.AnalyzeDepth(beats)
	for _, d := range depths["whale"] {
		if d < 0 || d > 1 {
			t.Errorf("depth %v outside [0,1]", d)
		}
	}
	if got := depths["whale"][0]; got != 1.0 {
		t.Errorf("saturated depth = %v, want 1.0", got)
	}
}

func TestAnalyzeDepthThemeSymbol(t *testing.T) {
	e := NewExcavator(testLibrary(), quietLogger())
	beats := []*beat.NarrativeBeat{
		{
			ID:          "undercurrent",
			Description: "a shadow moves below",
			Themes:      map[string]float64{"whale": 0.5},
		},
	}

	depths := e.AnalyzeDepth(beats)

	got, ok := depths["whale"]
	if !ok || len(got) != 1 {
		t.Fatalf("depths[whale] = %v, want one entry", got)
	}
	if math.Abs(got[0]-0.15) > tolerance {
		t.Errorf("theme-only depth = %v, want 0.15", got[0])
	}
}

func TestAnalyzeDepthEmptySequence(t *testing.T) {
	e := NewExcavator(testLibrary(), quietLogger())

	if depths := e.AnalyzeDepth(nil); len(depths) != 0 {
		t.Errorf("AnalyzeDepth(nil) = %v, want empty", depths)
	}
}
