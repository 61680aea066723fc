package pattern

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBuiltin(t *testing.T) {
	l := Builtin()

	wantIDs := []string{"hero_journey", "tragic_fall", "rebirth", "quest"}
	if got := l.IDs(); !reflect.DeepEqual(got, wantIDs) {
		t.Errorf("IDs() = %v, want %v", got, wantIDs)
	}
	if l.Len() != 4 {
		t.Errorf("Len() = %d, want 4", l.Len())
	}

	hero, ok := l.Get("hero_journey")
	if !ok {
		t.Fatal("expected hero_journey in builtin catalogue")
	}
	if hero.Name != "The Hero's Journey" {
		t.Errorf("hero_journey name = %q", hero.Name)
	}
	if !hero.HasCoreTheme("transformation") {
		t.Error("hero_journey should carry the transformation theme")
	}
	if hero.HasCoreTheme("hubris") {
		t.Error("hubris belongs to tragic_fall, not hero_journey")
	}
	if !hero.HasRoleFor("mentor") {
		t.Error("hero_journey should assign a role to mentor")
	}
	if hero.HasRoleFor("chorus") {
		t.Error("chorus belongs to tragic_fall, not hero_journey")
	}
	if got := hero.Symbols["rebirth"]; got != 0.9 {
		t.Errorf("rebirth symbol weight = %v, want 0.9", got)
	}

	// Every symbol weight must already satisfy the catalogue invariant.
	for _, id := range l.IDs() {
		p, _ := l.Get(id)
		for symbol, weight := range p.Symbols {
			if weight < 0 || weight > 1 {
				t.Errorf("pattern %s symbol %s weight %v outside [0,1]", id, symbol, weight)
			}
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	catalogue := `patterns:
  voyage:
    name: The Voyage
    core_themes:
      - obsession
      - nature
    character_roles:
      captain: protagonist
    symbols:
      whale: 0.9
      sea: 0.6
    tensions:
      - a: man
        b: nature
`
	if err := os.WriteFile(path, []byte(catalogue), 0o644); err != nil {
		t.Fatalf("failed to write catalogue: %v", err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}

	voyage, ok := l.Get("voyage")
	if !ok {
		t.Fatal("expected voyage pattern")
	}
	if voyage.Name != "The Voyage" {
		t.Errorf("name = %q", voyage.Name)
	}
	if got := voyage.Symbols["whale"]; got != 0.9 {
		t.Errorf("whale weight = %v, want 0.9", got)
	}
	if len(voyage.Tensions) != 1 || voyage.Tensions[0].A != "man" || voyage.Tensions[0].B != "nature" {
		t.Errorf("tensions = %v", voyage.Tensions)
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "patterns.yaml")
	catalogue := `patterns:
  broken:
    name: Broken
    symbols:
      whale: 1.4
`
	if err := os.WriteFile(path, []byte(catalogue), 0o644); err != nil {
		t.Fatalf("failed to write catalogue: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for symbol weight outside [0,1]")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing catalogue file")
	}
}

func TestMerge(t *testing.T) {
	l := Builtin()
	other := NewLibrary()
	other.Put("voyage", Pattern{Name: "The Voyage", CoreThemes: []string{"obsession"}})
	other.Put("hero_journey", Pattern{Name: "Overridden", CoreThemes: []string{"transformation"}})

	l.Merge(other)

	if l.Len() != 5 {
		t.Errorf("Len() after merge = %d, want 5", l.Len())
	}
	hero, _ := l.Get("hero_journey")
	if hero.Name != "Overridden" {
		t.Errorf("merge should replace shared ids, got name %q", hero.Name)
	}
	if _, ok := l.Get("voyage"); !ok {
		t.Error("merge should add new patterns")
	}

	l.Merge(nil)
	if l.Len() != 5 {
		t.Error("merging nil should be a no-op")
	}
}
