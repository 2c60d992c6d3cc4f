package cli

import (
	"context"
	"fmt"

	"github.com/ppiankov/regulqa/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	extractMinLen int
	extractMaxLen int
	extractRegex  string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract requirement sentences from downloaded documents",
	Long: `Extract reads every pdf, html, xml and txt file in
data/raw/t3_domain/downloads, keeps the sentences that state a requirement
and writes one CSV per document to data/raw/t3_domain/harvested.

All harvested CSVs are merged into t3_domain/ALL_t3_harvested.csv.

Example:
  regulqa extract
  regulqa extract --min-len 20 --max-len 400
  regulqa extract --regex '(?i)\b(shall|must)\b'`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

// convertT1Cmd represents the convert-t1 command
var convertT1Cmd = &cobra.Command{
	Use:   "convert-t1",
	Short: "Convert T1 HTML/XML datasets into CSV",
	Long: `Convert-t1 walks the t1_* raw folders and writes a CSV next to every
html, htm, xhtml and xml file, holding the element texts that contain
"shall" or "should".`,
	Args: cobra.NoArgs,
	RunE: runConvertT1,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(convertT1Cmd)

	extractCmd.Flags().IntVar(&extractMinLen, "min-len", 0, "minimum sentence length in characters (overrides extract.min_len)")
	extractCmd.Flags().IntVar(&extractMaxLen, "max-len", 0, "maximum sentence length in characters (overrides extract.max_len)")
	extractCmd.Flags().StringVar(&extractRegex, "regex", "", "requirement indicator pattern (overrides extract.indicator)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if extractMinLen > 0 {
		cfg.Extract.MinLen = extractMinLen
	}
	if extractMaxLen > 0 {
		cfg.Extract.MaxLen = extractMaxLen
	}
	if extractRegex != "" {
		cfg.Extract.Indicator = extractRegex
	}

	p := pipeline.NewPipeline(cfg, logger)

	banner("RegulQA Extract")
	field("Documents", p.T3Dir())
	field("Length", fmt.Sprintf("%d..%d", cfg.Extract.MinLen, cfg.Extract.MaxLen))
	field("Indicator", cfg.Extract.Indicator)
	fmt.Fprintln(cmd.ErrOrStderr())

	report, err := p.Extract(context.Background())
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	for _, o := range report.Outcomes {
		switch {
		case o.Err != nil:
			fail("%s: %v", o.File, o.Err)
		case o.Rows == 0:
			fmt.Fprintf(cmd.ErrOrStderr(), "[empty] %s\n", o.File)
		default:
			ok("%s → %s (%d rows)", o.File, o.CSV, o.Rows)
		}
	}

	if report.MergedPath != "" {
		ok("Merged %d rows → %s", report.MergedRows, report.MergedPath)
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "No requirements harvested")
	}
	return nil
}

func runConvertT1(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outcomes, err := pipeline.NewPipeline(cfg, logger).ConvertT1(context.Background())
	if err != nil {
		return fmt.Errorf("convert failed: %w", err)
	}
	if len(outcomes) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "No T1 markup files found under %s\n", cfg.RawDir())
		return nil
	}

	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			fail("%s: %v", o.File, o.Err)
		case o.Rows == 0:
			fmt.Fprintf(cmd.ErrOrStderr(), "[empty] %s\n", o.File)
		default:
			ok("%s → %s (%d rows)", o.File, o.CSV, o.Rows)
		}
	}
	return nil
}
