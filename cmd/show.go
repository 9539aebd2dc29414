package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/story"
)

var showStory string

var showCmd = &cobra.Command{
	Use:   "show [chapter-id]",
	Short: "Preview a chapter in the terminal",
	Long: `Renders one chapter's markdown in the terminal. Without an argument it
lists the story's chapters; "intro" shows the story description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := showStory
		if path == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path = cfg.Story
		}

		st, err := story.Load(path)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Printf("%s — %d chapters\n\n", st.Properties.Title, st.Count())
			for i := range st.Chapters {
				ch := &st.Chapters[i]
				line := fmt.Sprintf("%2d. %-20s %s", i+1, ch.ID, ch.Title)
				if ch.Place != "" {
					line += "  (" + ch.Place + ")"
				}
				fmt.Println(line)
			}
			return nil
		}

		var md string
		if args[0] == "intro" {
			md = fmt.Sprintf("# %s\n\n%s", st.Properties.Title, st.Properties.Description)
			if st.Properties.CreatedBy != "" {
				md += fmt.Sprintf("\n\n*A story by %s*", st.Properties.CreatedBy)
			}
		} else {
			i := st.IndexByID(args[0])
			if i < 0 {
				return fmt.Errorf("no chapter %q in %s", args[0], path)
			}
			ch := st.Chapter(i)
			var meta []string
			if ch.Place != "" {
				meta = append(meta, ch.Place)
			}
			if ch.Date != "" {
				meta = append(meta, ch.Date)
			}
			md = fmt.Sprintf("# %s", ch.Title)
			if len(meta) > 0 {
				md += fmt.Sprintf("\n\n*%s*", strings.Join(meta, " — "))
			}
			md += "\n\n" + ch.Content
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			// No usable terminal style; print the raw markdown.
			fmt.Println(md)
			return nil
		}
		out, err := renderer.Render(md)
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showStory, "story", "", "story file to read (overrides config)")
	rootCmd.AddCommand(showCmd)
}
