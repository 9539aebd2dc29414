package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/storyatlas/internal/config"
	"github.com/ziadkadry99/storyatlas/internal/db"
	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/search"
	"github.com/ziadkadry99/storyatlas/internal/story"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `storyatlas init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openDatabase opens the library database under the configured data dir.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	return db.Open(filepath.Join(cfg.DataDir, "storyatlas.db"))
}

// newEmbedder creates a search.Embedder for the configured provider, or
// nil when search is set to plain text matching.
func newEmbedder(cfg *config.Config) (search.Embedder, error) {
	model := cfg.Search.Model
	if model == "" {
		model = config.DefaultModel(cfg.Search.Provider)
	}

	switch cfg.Search.Provider {
	case config.SearchProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.SearchProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return search.NewOpenAIEmbedder(apiKey, search.OpenAIModel(model)), nil
	case config.SearchProviderOllama:
		return search.NewOllamaEmbedder(model, 768, cfg.Search.BaseURL), nil
	default:
		return nil, nil
	}
}

// buildIndex creates a chapter index over every story in the library.
// A nil embedder yields a nil index; callers then use the text fallback.
func buildIndex(ctx context.Context, store *library.Store, embedder search.Embedder) (*search.Index, error) {
	if embedder == nil {
		return nil, nil
	}

	idx, err := search.NewIndex(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	recs, err := store.ListStories(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		st, err := store.LoadStory(ctx, rec.Slug)
		if err != nil {
			return nil, err
		}
		if err := idx.IndexStory(ctx, st); err != nil {
			return nil, fmt.Errorf("indexing %s: %w", rec.Slug, err)
		}
	}
	return idx, nil
}

// importStoryFile reads, parses and validates a story file and upserts
// it into the library. A slug already held by a different story gets a
// random suffix instead of silently overwriting it.
func importStoryFile(ctx context.Context, store *library.Store, path string) (*story.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	st, err := story.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	for _, warn := range st.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", path, warn)
	}

	existing, err := store.GetStory(ctx, st.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Title != st.Properties.Title {
		st.Slug = st.Slug + "-" + strings.Split(uuid.New().String(), "-")[0]
	}

	if err := store.UpsertStory(ctx, st.Slug, st.Properties.Title, data); err != nil {
		return nil, err
	}
	return st, nil
}
