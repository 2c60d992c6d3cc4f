package cli

import (
	"context"
	"fmt"

	"github.com/ppiankov/regulqa/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	labelIn     string
	labelOut    string
	labelSQLite string
)

// labelCmd represents the label command
var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Weak-label the pool for ambiguity",
	Long: `Label applies the ambiguity rule bank (vague terms, comparatives, vague
modals, passive voice, unbounded quantifiers, leading pronouns) to every
requirement of the pool and fills ambig_presence, ambig_type, reg_clause,
severity and notes.

Annotations that are already present are never overwritten, so manual
labels survive a re-run.

Example:
  regulqa label
  regulqa label --in pool.csv --out labeled.csv --sqlite regulqa.db`,
	Args: cobra.NoArgs,
	RunE: runLabel,
}

func init() {
	rootCmd.AddCommand(labelCmd)

	labelCmd.Flags().StringVar(&labelIn, "in", "", "input CSV (default: <processed>/label.input_file)")
	labelCmd.Flags().StringVar(&labelOut, "out", "", "output CSV (default: <processed>/label.output_file)")
	labelCmd.Flags().StringVar(&labelSQLite, "sqlite", "", "also upsert the labels into this SQLite database")
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(labelSQLite)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	result, err := pipeline.NewPipeline(cfg, logger).Label(context.Background(), labelIn, labelOut, store)
	if err != nil {
		return fmt.Errorf("label failed: %w", err)
	}

	ok("Labeled %d rows → %s", len(result.Records), result.Output)
	fmt.Fprintln(cmd.ErrOrStderr())
	printSummary(result.Summary)
	return nil
}
