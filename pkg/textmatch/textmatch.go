package textmatch

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var wordPattern = regexp.MustCompile(`[\pL\pN_]+`)

// Fold lowercases text using Unicode case folding, so that matching behaves
// the same for authored content regardless of casing conventions.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Contains reports whether term occurs anywhere in text, ignoring case.
func Contains(text, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(Fold(text), Fold(term))
}

// ContainsBoth reports whether both terms occur in text, ignoring case.
func ContainsBoth(text, a, b string) bool {
	folded := Fold(text)
	return a != "" && b != "" &&
		strings.Contains(folded, Fold(a)) &&
		strings.Contains(folded, Fold(b))
}

// Vocabulary matches individual words of free text against a fixed term set.
// Terms are folded on insertion; lookups fold their input.
type Vocabulary struct {
	terms map[string]struct{}
}

// NewVocabulary creates a vocabulary from the given terms.
func NewVocabulary(terms ...string) *Vocabulary {
	v := &Vocabulary{terms: make(map[string]struct{}, len(terms))}
	for _, term := range terms {
		v.Add(term)
	}
	return v
}

// Add inserts a term into the vocabulary.
func (v *Vocabulary) Add(term string) {
	if term == "" {
		return
	}
	v.terms[Fold(term)] = struct{}{}
}

// Has reports whether the folded term is part of the vocabulary.
func (v *Vocabulary) Has(term string) bool {
	_, ok := v.terms[Fold(term)]
	return ok
}

// MatchWords returns the folded words of text that belong to the vocabulary,
// deduplicated, in order of first occurrence.
func (v *Vocabulary) MatchWords(text string) []string {
	var matched []string
	seen := make(map[string]struct{})
	for _, word := range wordPattern.FindAllString(Fold(text), -1) {
		if _, ok := v.terms[word]; !ok {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		matched = append(matched, word)
	}
	return matched
}
