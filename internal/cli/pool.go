package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/regulqa/internal/dataset"
	"github.com/ppiankov/regulqa/internal/pipeline"
	"github.com/ppiankov/regulqa/internal/pool"
	"github.com/spf13/cobra"
)

var poolSQLite string

// poolCmd represents the pool command
var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Merge raw tables into the deduplicated corpus pool",
	Long: `Pool reads every CSV below the configured raw folders (T1, then T2, then
T3), normalizes and deduplicates the requirement texts, assigns stable ids
and sectors and writes data/processed/regulqa_ambig_pool.csv.

Example:
  regulqa pool
  regulqa pool --sqlite data/processed/regulqa.db`,
	Args: cobra.NoArgs,
	RunE: runPool,
}

func init() {
	rootCmd.AddCommand(poolCmd)

	poolCmd.Flags().StringVar(&poolSQLite, "sqlite", "", "also upsert the pool into this SQLite database")
}

func runPool(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(poolSQLite)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	p := pipeline.NewPipeline(cfg, logger)

	progress("Pooling raw tables from %s", cfg.RawDir())
	result, err := p.BuildPool(context.Background(), store)
	if errors.Is(err, pool.ErrNoInput) {
		fmt.Println("No raw files found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("pool failed: %w", err)
	}

	r := result.Report
	banner("Pool Complete")
	field("Tables", r.TablesRead)
	field("Skipped", r.TablesSkipped)
	field("Rows read", r.RowsRead)
	field("Too short", r.RowsDropped)
	field("Duplicates", r.Duplicates)
	field("Records", r.Records)
	field("Output", p.PoolPath())
	if store != nil {
		field("SQLite", poolSQLite)
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	for _, s := range r.Skipped {
		fail("%s: %s", s.Document, s.Reason)
	}
	return nil
}

// openStore opens the optional SQLite sink; an empty path yields nil
func openStore(path string) (*dataset.Store, error) {
	if path == "" {
		return nil, nil
	}
	store, err := dataset.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return store, nil
}
