package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/library"
)

var statsRecent int

var statsCmd = &cobra.Command{
	Use:   "stats [slug]",
	Short: "Show viewing statistics for a story",
	Long:  `Reports how many sessions a story has had and which chapters were entered most. Defaults to the first story in the library.`,
	Args:  cobra.MaximumNArgs(1),
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

		var slug string
		if len(args) > 0 {
			slug = args[0]
		} else {
			slug, err = store.FirstSlug(ctx)
			if err != nil {
				return err
			}
		}
		if slug == "" {
			return fmt.Errorf("the library is empty; run `storyatlas import <story.yaml>` first")
		}

		stats, err := store.Stats(ctx, slug)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", slug)
		fmt.Printf("  Sessions: %d\n", stats.Sessions)
		fmt.Printf("  Chapter entries: %d\n", stats.Views)
		if len(stats.Chapters) > 0 {
			fmt.Println("  Most entered chapters:")
			for _, cv := range stats.Chapters {
				fmt.Printf("    %-24s %d\n", cv.ChapterID, cv.Views)
			}
		}

		if statsRecent > 0 {
			sessions, err := store.RecentSessions(ctx, statsRecent)
			if err != nil {
				return err
			}
			if len(sessions) > 0 {
				fmt.Println("  Recent sessions:")
				for _, s := range sessions {
					at := s.ChapterParam
					if at == "" {
						at = "(intro)"
					}
					fmt.Printf("    %s  %s at %s\n", s.UpdatedAt.Format("2006-01-02 15:04"), s.StorySlug, at)
				}
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsRecent, "recent", 0, "also list the N most recently active sessions")
	rootCmd.AddCommand(statsCmd)
}
