package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Func adapts a plain function to Job
type Func func(ctx context.Context) Result

// Execute calls f
func (f Func) Execute(ctx context.Context) Result {
	return f(ctx)
}

// RunAll executes jobs on a fresh pool and returns their results in input order.
// If ctx is cancelled early, results for unfinished jobs are missing, so the
// returned slice may be shorter than jobs.
func RunAll(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return []Result{}
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	pool := NewPool(ctx, workers)
	pool.Start()

	for _, job := range jobs {
		pool.Submit(job)
	}

	return pool.Wait()
}

// Failures returns the results that carry an error
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.GetError() != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// ReadListFile reads one entry per line, skipping blanks and # comments and
// dropping repeats
func ReadListFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			entries = append(entries, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return entries, nil
}
