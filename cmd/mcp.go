package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/library"
	mcpserver "github.com/ziadkadry99/storyatlas/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the story library to AI agents: story overviews, chapter content and chapter search.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

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

		// A broken embedder setup must not keep agents from reading
		// stories; search_chapters degrades to text matching.
		embedder, err := newEmbedder(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\nsearch_chapters will use text matching.\n", err)
			embedder = nil
		}
		idx, err := buildIndex(ctx, store, embedder)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: building search index: %v\nsearch_chapters will use text matching.\n", err)
			idx = nil
		}

		mcpserver.Version = Version

		indexed := 0
		if idx != nil {
			indexed = idx.Count()
		}
		fmt.Fprintf(os.Stderr, "storyatlas MCP server started on stdio (db=%s, chapters indexed=%d)\n", database.Path(), indexed)

		srv := mcpserver.NewServer(store, idx)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
