package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/regulqa/internal/model"
)

const rule = "═══════════════════════════════════════════════════════════"

func banner(title string) {
	fmt.Fprintf(os.Stderr, "\n%s\n  %s\n%s\n\n", rule, title, rule)
}

func field(name string, value interface{}) {
	fmt.Fprintf(os.Stderr, "  %-14s%v\n", name+":", value)
}

func ok(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "✓ "+format+"\n", a...)
}

func fail(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "✗ "+format+"\n", a...)
}

func progress(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, "⚙️  "+format+"\n", a...)
}

// printSummary writes the label distribution to stdout
func printSummary(s model.QualitySummary) {
	fmt.Println(rule)
	fmt.Println("  Dataset Summary")
	fmt.Println(rule)
	fmt.Println()
	fmt.Printf("  Total rows:       %d\n", s.Total)
	fmt.Printf("  Duplicate texts:  %d\n", s.DuplicateText)
	printCounts("Presence", s.Presence)
	printCounts("Top ambiguity types", s.TopTypes)
	printCounts("Severity", s.Severity)
	printCounts("Sectors", s.Sectors)

	if len(s.Warnings) > 0 {
		fmt.Println()
		fmt.Println("  Warnings:")
		for _, w := range s.Warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}

func printCounts(title string, counts []model.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  %s:\n", title)
	for _, c := range counts {
		value := c.Value
		if strings.TrimSpace(value) == "" {
			value = "(none)"
		}
		fmt.Printf("    %-40s %6d\n", value, c.N)
	}
}
