package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/search"
)

var (
	searchSlug  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search a story's chapters",
	Long: `Finds the chapters most relevant to a query. Uses vector similarity
when an embedding provider is configured, plain text matching
otherwise. Defaults to the first story in the library.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		query := strings.Join(args, " ")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()
		store := library.NewStore(database)

		slug := searchSlug
		if slug == "" {
			slug, err = store.FirstSlug(ctx)
			if err != nil {
				return err
			}
		}
		if slug == "" {
			return fmt.Errorf("the library is empty; run `storyatlas import <story.yaml>` first")
		}
		st, err := store.LoadStory(ctx, slug)
		if err != nil {
			return err
		}
		if st == nil {
			return fmt.Errorf("no story %q in the library", slug)
		}

		embedder, err := newEmbedder(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		var matches []search.Match
		if embedder != nil {
			idx, err := search.NewIndex(embedder)
			if err != nil {
				return fmt.Errorf("creating search index: %w", err)
			}
			if err := idx.IndexStory(ctx, st); err != nil {
				return fmt.Errorf("indexing %s: %w", slug, err)
			}
			matches, err = idx.Search(ctx, slug, query, searchLimit)
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}
		} else {
			matches = search.Fallback(st, query, searchLimit)
		}

		if len(matches) == 0 {
			fmt.Printf("No chapters in %s match %q\n", slug, query)
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%2d. %s (%s)  similarity %.2f\n", m.Index+1, m.Title, m.ChapterID, m.Similarity)
			if m.Snippet != "" {
				fmt.Printf("    %s\n", m.Snippet)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchSlug, "story", "", "story slug to search (defaults to the first in the library)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "maximum number of matches")
	rootCmd.AddCommand(searchCmd)
}
