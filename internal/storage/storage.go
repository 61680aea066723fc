package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/pattern"
)

// Storage persists story sessions and serves authored static content
// (beat corpora, pattern catalogues).
type Storage interface {
	// Ping tests the backing connection
	Ping(ctx context.Context) error

	// Close closes the backing connection
	Close() error

	// SaveStoryState saves a session state under its session ID
	SaveStoryState(ctx context.Context, id uuid.UUID, st *beat.StoryState) error

	// LoadStoryState retrieves a session state by ID.
	// Returns nil if the session doesn't exist.
	LoadStoryState(ctx context.Context, id uuid.UUID) (*beat.StoryState, error)

	// DeleteStoryState removes a session state by ID
	DeleteStoryState(ctx context.Context, id uuid.UUID) error

	// ListCorpora maps corpus names to their filenames
	ListCorpora(ctx context.Context) (map[string]string, error)

	// GetCorpus loads an authored beat corpus by filename
	GetCorpus(ctx context.Context, filename string) (*beat.Corpus, error)

	// GetPatternLibrary returns the builtin pattern catalogue merged with
	// any authored catalogue on disk
	GetPatternLibrary(ctx context.Context) (*pattern.Library, error)
}
