package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/library"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <slug>",
	Short: "Export a story from the library back to YAML",
	Long:  `Writes a library story's YAML source to a file, or to stdout with -o -. The export is byte-for-byte what was imported, so it round-trips.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]

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

		rec, err := store.GetStory(context.Background(), slug)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no story %q in the library", slug)
		}

		out := exportOutput
		if out == "" {
			out = slug + ".yaml"
		}
		if out == "-" {
			fmt.Print(rec.Data)
			return nil
		}
		if err := os.WriteFile(out, []byte(rec.Data), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Printf("Exported %s to %s\n", slug, out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default <slug>.yaml, - for stdout)")
	rootCmd.AddCommand(exportCmd)
}
