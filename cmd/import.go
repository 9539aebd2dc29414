package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import <story.yaml>...",
	Short: "Import story files into the library",
	Long: `Validates story files and stores them in the library database so the
server and MCP tools can serve them. Re-importing a story updates it in
place; a slug taken by a different story gets a random suffix.`,
	Args: cobra.MinimumNArgs(1),
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

		reporter := progress.NewReporter("Importing stories")
		reporter.Start(len(args))

		for i, path := range args {
			reporter.Update(i+1, path)
			st, err := importStoryFile(ctx, store, path)
			if err != nil {
				reporter.Finish()
				return err
			}
			if verbose {
				fmt.Printf("%s -> %s (%d chapters)\n", path, st.Slug, st.Count())
			}
		}
		reporter.Finish()

		fmt.Printf("Imported %d story file(s) into %s\n", len(args), database.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
