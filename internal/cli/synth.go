package cli

import (
	"fmt"
	"path/filepath"

	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/synth"
	"github.com/spf13/cobra"
)

var (
	synthPerSector int
	synthSeed      uint64
)

// synthCmd represents the synth command
var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate the synthetic T2 requirements",
	Long: `Synth fills automotive, medical and aerospace requirement templates
with random verbs, timings and fault conditions and writes
data/raw/t2_synthetic/synthetic_requirements.csv.

The same seed always produces the same table.`,
	Args: cobra.NoArgs,
	RunE: runSynth,
}

func init() {
	rootCmd.AddCommand(synthCmd)

	synthCmd.Flags().IntVar(&synthPerSector, "n", 0, "rows per sector (overrides synth.per_sector)")
	synthCmd.Flags().Uint64Var(&synthSeed, "seed", 0, "random seed (overrides synth.seed)")
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("n") {
		cfg.Synth.PerSector = synthPerSector
	}
	if cmd.Flags().Changed("seed") {
		cfg.Synth.Seed = synthSeed
	}

	t2Dir := filepath.Join(cfg.RawDir(), "t2_synthetic")
	for _, f := range cfg.Pool.Folders {
		if model.TierFromFolder(f.Folder) == model.TierT2 {
			t2Dir = filepath.Join(cfg.RawDir(), f.Folder)
			break
		}
	}

	path, rows, err := synth.NewGenerator(cfg.Synth.Seed).Write(t2Dir, cfg.Synth.PerSector)
	if err != nil {
		return fmt.Errorf("synth failed: %w", err)
	}

	ok("Synthetic → %s rows: %d", path, rows)
	return nil
}
