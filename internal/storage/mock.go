package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/pattern"
)

// MockStorage is an in-memory Storage implementation for tests.
type MockStorage struct {
	States  map[uuid.UUID]*beat.StoryState
	Corpora map[string]*beat.Corpus
	Library *pattern.Library

	PingErr error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		States:  make(map[uuid.UUID]*beat.StoryState),
		Corpora: make(map[string]*beat.Corpus),
		Library: pattern.Builtin(),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveStoryState(ctx context.Context, id uuid.UUID, st *beat.StoryState) error {
	m.States[id] = st
	return nil
}

func (m *MockStorage) LoadStoryState(ctx context.Context, id uuid.UUID) (*beat.StoryState, error) {
	return m.States[id], nil
}

func (m *MockStorage) DeleteStoryState(ctx context.Context, id uuid.UUID) error {
	delete(m.States, id)
	return nil
}

func (m *MockStorage) ListCorpora(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.Corpora))
	for filename, c := range m.Corpora {
		out[c.Name] = filename
	}
	return out, nil
}

func (m *MockStorage) GetCorpus(ctx context.Context, filename string) (*beat.Corpus, error) {
	c, ok := m.Corpora[filename]
	if !ok {
		return nil, fmt.Errorf("corpus not found: %s", filename)
	}
	return c, nil
}

func (m *MockStorage) GetPatternLibrary(ctx context.Context) (*pattern.Library, error) {
	return m.Library, nil
}
