package cli

import (
	"context"
	"fmt"

	"github.com/ppiankov/regulqa/internal/pipeline"
	"github.com/spf13/cobra"
)

// fetchT1Cmd represents the fetch-t1 command
var fetchT1Cmd = &cobra.Command{
	Use:   "fetch-t1",
	Short: "Download the public T1 datasets",
	Long: `Fetch-t1 downloads the T1 datasets into data/raw:

  t1_pure         PURE archive from its record page, extracted
  t1_promise_exp  Promise+ file from its record page
  t1_nasa_srs     "shall" list items of the NASA Trick SRS as
                  trick_srs_requirements.csv

Record and page URLs come from the t1 section of the config. Downloads go
through the same retry, robots.txt, rate limit and cache as fetch.

Example:
  regulqa fetch-t1
  regulqa fetch-t1 --ca-bundle /etc/ssl/corp-ca.pem`,
	Args: cobra.NoArgs,
	RunE: runFetchT1,
}

func init() {
	rootCmd.AddCommand(fetchT1Cmd)
	addHTTPFlags(fetchT1Cmd)
}

func runFetchT1(cmd *cobra.Command, args []string) error {
	cfg, err := loadFetchConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg, logger)

	banner("RegulQA Fetch T1")
	field("Raw", cfg.RawDir())
	field("Cache", cfg.Cache.Enabled)
	field("Robots", cfg.HTTP.RespectRobots)
	fmt.Fprintln(cmd.ErrOrStderr())

	outcomes, err := p.FetchT1(ctx)
	if err != nil {
		return fmt.Errorf("fetch-t1 failed: %w", err)
	}

	failed := 0
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			fail("%s: %v", o.Dataset, o.Err)
		case o.Dataset == pipeline.DatasetTrickSRS:
			ok("%s → %s (rows=%d)", o.Dataset, o.Path, o.Rows)
		default:
			ok("%s → %s (files=%d)", o.Dataset, o.Path, o.Files)
		}
	}

	banner("Fetch T1 Complete")
	field("Datasets", len(outcomes))
	field("Failures", failed)
	fmt.Fprintln(cmd.ErrOrStderr())

	if failed > 0 {
		return fmt.Errorf("%d of %d T1 datasets failed", failed, len(outcomes))
	}
	return nil
}
