package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/config"
	"github.com/ziadkadry99/storyatlas/internal/library"
	"github.com/ziadkadry99/storyatlas/internal/site"
	"github.com/ziadkadry99/storyatlas/internal/story"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the library as a static reading site",
	Long: `Generates a self-contained static HTML site from the stories in the
library: a library index, an intro page per story and a page per
chapter, with client-side search. An empty library falls back to the
configured story file.`,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Bool("serve", false, "start a local HTTP server after generating")
	buildCmd.Flags().Int("port", 8081, "port for the local preview server")
	buildCmd.Flags().Bool("open", false, "open browser automatically when serving")
	buildCmd.Flags().String("output", "", "override output directory")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.Site.OutputDir
	}

	stories, err := collectStories(ctx, cfg)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		return fmt.Errorf("nothing to build: the library is empty and no story file exists at %s", cfg.Story)
	}

	generator := site.NewGenerator(outputDir, cfg.Site.Title)
	pageCount, err := generator.Generate(stories)
	if err != nil {
		return fmt.Errorf("generating site: %w", err)
	}
	fmt.Printf("Static site generated: %s (%d pages)\n", outputDir, pageCount)

	serve, _ := cmd.Flags().GetBool("serve")
	if serve {
		port, _ := cmd.Flags().GetInt("port")
		openBrowser, _ := cmd.Flags().GetBool("open")
		if err := site.Serve(outputDir, port, openBrowser); err != nil {
			return fmt.Errorf("serving site: %w", err)
		}
	}
	return nil
}

// collectStories loads every story in the library, or parses the
// configured story file when the library is empty or absent.
func collectStories(ctx context.Context, cfg *config.Config) ([]*story.Story, error) {
	var stories []*story.Story
	if database, dbErr := openDatabase(cfg); dbErr == nil {
		defer database.Close()
		store := library.NewStore(database)
		recs, err := store.ListStories(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			st, err := store.LoadStory(ctx, rec.Slug)
			if err != nil {
				return nil, err
			}
			stories = append(stories, st)
		}
	}

	if len(stories) == 0 {
		if _, statErr := os.Stat(cfg.Story); statErr == nil {
			st, err := story.Load(cfg.Story)
			if err != nil {
				return nil, err
			}
			stories = append(stories, st)
		}
	}
	return stories, nil
}
