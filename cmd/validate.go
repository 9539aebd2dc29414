package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/storyatlas/internal/progress"
	"github.com/ziadkadry99/storyatlas/internal/story"
)

var validateCmd = &cobra.Command{
	Use:   "validate [story.yaml...]",
	Short: "Check story files for structural problems",
	Long: `Parses and validates story files: unique chapter IDs, coordinates on
the globe, camera options in range. With no arguments it validates the
configured story file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			paths = []string{cfg.Story}
		}

		reporter := progress.NewReporter("Validating stories")
		reporter.Start(len(paths))

		failed := 0
		for i, path := range paths {
			reporter.Update(i+1, path)
			st, err := story.Load(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed++
				continue
			}
			if err := st.Validate(); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed++
				continue
			}
			for _, warn := range st.Warnings() {
				fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", path, warn)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "%s: ok (%d chapters)\n", path, st.Count())
			}
		}
		reporter.Finish()

		if failed > 0 {
			return fmt.Errorf("%d of %d story file(s) failed validation", failed, len(paths))
		}
		fmt.Printf("%d story file(s) valid\n", len(paths))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
