package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mfagan/canondrift/pkg/beat"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <corpus.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	cv := &CorpusValidator{validate: validator.New()}

	if err := cv.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Corpus file is valid!")
}

type CorpusValidator struct {
	validate *validator.Validate
	errors   []string
}

func (v *CorpusValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	// Validate filename format
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("corpus file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidCorpusFilename(nameWithoutExt) {
		return fmt.Errorf("corpus filename '%s' must be lowercase snake_case (e.g., my_story.json, not my-story.json or MyStory.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var c beat.Corpus
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&c); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	if err := v.validate.Struct(&c); err != nil {
		return fmt.Errorf("file %s failed struct validation: %w", filename, err)
	}

	v.validateCorpus(&c)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *CorpusValidator) validateCorpus(c *beat.Corpus) {
	seen := make(map[string]bool, len(c.Beats))
	for i, b := range c.Beats {
		if b == nil {
			v.addError(fmt.Sprintf("beat at position %d is null", i))
			continue
		}
		if seen[b.ID] {
			v.addError(fmt.Sprintf("duplicate beat ID '%s'", b.ID))
		}
		seen[b.ID] = true
		v.validateIDFormat("beat ID", b.ID)
	}

	for _, b := range c.Beats {
		if b == nil {
			continue
		}
		v.validateBeat(b, seen)
	}
}

func (v *CorpusValidator) validateBeat(b *beat.NarrativeBeat, ids map[string]bool) {
	v.validateIDFormat("location ID", b.Location)

	for _, characterID := range b.Characters {
		v.validateIDFormat("character ID", characterID)
	}

	// Successor edges must resolve within the corpus
	for _, next := range b.NextBeats {
		if !ids[next] {
			v.addError(fmt.Sprintf("beat '%s' lists unknown next beat '%s'", b.ID, next))
		}
	}

	for characterID, actions := range b.Actions {
		v.validateIDFormat("action character ID", characterID)
		for _, action := range actions {
			if action.CharacterID != characterID {
				v.addError(fmt.Sprintf("beat '%s': action under character '%s' declares character_id '%s'", b.ID, characterID, action.CharacterID))
			}
			for _, target := range action.Consequences {
				if !ids[target] {
					v.addError(fmt.Sprintf("beat '%s': action for '%s' has unknown consequence beat '%s'", b.ID, characterID, target))
				}
			}
		}
	}
}

func (v *CorpusValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *CorpusValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var (
	validIDRegex       = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*[a-z0-9]$|^[a-z0-9]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidCorpusFilename(name string) bool {
	return validFilenameRegex.MatchString(name)
}
