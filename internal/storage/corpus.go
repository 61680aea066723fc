package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mfagan/canondrift/pkg/beat"
	"github.com/mfagan/canondrift/pkg/pattern"
)

// Corpus and catalogue operations (filesystem-backed)

func (r *RedisStorage) ListCorpora(ctx context.Context) (map[string]string, error) {
	corporaDir := filepath.Join(r.dataDir, "corpora")
	corpora := make(map[string]string)

	err := filepath.WalkDir(corporaDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		c, err := beat.LoadCorpus(path)
		if err != nil {
			r.logger.Warn("Failed to load corpus file", "path", path, "error", err)
			return nil
		}

		corpora[c.Name] = filepath.Base(path)
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to walk corpora directory", "error", err)
		return nil, fmt.Errorf("failed to list corpora: %w", err)
	}

	return corpora, nil
}

func (r *RedisStorage) GetCorpus(ctx context.Context, filename string) (*beat.Corpus, error) {
	path := filepath.Join(r.dataDir, "corpora", filename)
	r.logger.Debug("Loading corpus", "filename", filename, "full_path", path)

	c, err := beat.LoadCorpus(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Error("Corpus file not found", "path", path)
			return nil, fmt.Errorf("corpus not found: %s", filename)
		}
		return nil, err
	}

	return c, nil
}

// GetPatternLibrary returns the builtin catalogue, merged with the authored
// catalogue at <dataDir>/patterns.yaml when one exists.
func (r *RedisStorage) GetPatternLibrary(ctx context.Context) (*pattern.Library, error) {
	library := pattern.Builtin()

	path := filepath.Join(r.dataDir, "patterns.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return library, nil
	}

	authored, err := pattern.Load(path)
	if err != nil {
		r.logger.Error("Failed to load authored pattern catalogue", "path", path, "error", err)
		return nil, err
	}

	library.Merge(authored)
	r.logger.Info("Merged authored pattern catalogue", "path", path, "patterns", authored.Len())
	return library, nil
}
