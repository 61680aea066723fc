package beat

import (
	"encoding/json"
	"fmt"
	"os"
)

// Corpus is the full authored beat set for one story, in authored order.
// The ordering is meaningful: the validator uses it to judge how close a
// beat sits to the ending.
type Corpus struct {
	Name  string           `json:"name"`
	Beats []*NarrativeBeat `json:"beats" validate:"required,min=1,dive"`

	index map[string]int
}

// NewCorpus builds a corpus from beats in authored order. Duplicate beat IDs
// are an authoring error.
func NewCorpus(name string, beats []*NarrativeBeat) (*Corpus, error) {
	c := &Corpus{Name: name, Beats: beats}
	if err := c.buildIndex(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCorpus reads a corpus from a JSON file.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var c Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal corpus: %w", err)
	}
	if err := c.buildIndex(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Corpus) buildIndex() error {
	c.index = make(map[string]int, len(c.Beats))
	for i, b := range c.Beats {
		if b == nil || b.ID == "" {
			return fmt.Errorf("corpus %q: beat at position %d has no id", c.Name, i)
		}
		if _, exists := c.index[b.ID]; exists {
			return fmt.Errorf("corpus %q: duplicate beat id %q", c.Name, b.ID)
		}
		c.index[b.ID] = i
	}
	return nil
}

// Get returns the beat with the given id, or nil if absent.
func (c *Corpus) Get(id string) *NarrativeBeat {
	if i, ok := c.index[id]; ok {
		return c.Beats[i]
	}
	return nil
}

// Position returns the authored position of a beat id.
func (c *Corpus) Position(id string) (int, bool) {
	i, ok := c.index[id]
	return i, ok
}

// Len returns the number of beats in the corpus.
func (c *Corpus) Len() int {
	return len(c.Beats)
}

// Opening returns the first authored beat, or nil for an empty corpus.
func (c *Corpus) Opening() *NarrativeBeat {
	if len(c.Beats) == 0 {
		return nil
	}
	return c.Beats[0]
}
