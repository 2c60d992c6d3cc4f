package cli

import (
	"fmt"
	"sort"

	"github.com/ppiankov/regulqa/internal/dataset"
	"github.com/ppiankov/regulqa/internal/validate"
	"github.com/spf13/cobra"
)

var validateMax int

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <csv>",
	Short: "Check a pool or labeled CSV against the dataset invariants",
	Long: `Validate checks id format and uniqueness, text normalization and
uniqueness, tier/source consistency, sectors and the annotation columns of
a pool or labeled table. It exits non-zero when any check fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().IntVar(&validateMax, "max", 20, "maximum number of violations to print (0 prints all)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	records, err := dataset.ReadRecords(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	v := validate.NewValidator(validate.NewProvenanceClassifier(cfg.Pool.Folders))
	report := v.Validate(records)

	if report.OK() {
		ok("%s: %d rows, all checks passed", args[0], report.Checked)
		return nil
	}

	for i, violation := range report.Violations {
		if validateMax > 0 && i >= validateMax {
			fmt.Fprintf(cmd.ErrOrStderr(), "  ... %d more\n", len(report.Violations)-i)
			break
		}
		fail("%s", violation)
	}

	counts := report.Counts()
	checks := make([]string, 0, len(counts))
	for check := range counts {
		checks = append(checks, check)
	}
	sort.Strings(checks)

	banner("Validation Failed")
	for _, check := range checks {
		field(check, counts[check])
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	return fmt.Errorf("%d violations in %d rows", len(report.Violations), report.Checked)
}
