package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRunAll_Order(t *testing.T) {
	var jobs []Job
	for i := 0; i < 7; i++ {
		jobs = append(jobs, &mockJob{value: i})
	}

	results := RunAll(context.Background(), 3, jobs)
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}

	for i, res := range results {
		if got := res.(*mockResult).value; got != i {
			t.Errorf("result %d: expected %d, got %d", i, i, got)
		}
	}
}

func TestRunAll_Empty(t *testing.T) {
	results := RunAll(context.Background(), 4, nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestFunc_And_Failures(t *testing.T) {
	jobs := []Job{
		Func(func(ctx context.Context) Result { return &mockResult{value: 1} }),
		Func(func(ctx context.Context) Result { return &mockResult{value: 2, err: errors.New("boom")} }),
		Func(func(ctx context.Context) Result { return &mockResult{value: 3} }),
	}

	failed := Failures(RunAll(context.Background(), 2, jobs))
	if len(failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failed))
	}
	if got := failed[0].(*mockResult).value; got != 2 {
		t.Errorf("expected failing job 2, got %d", got)
	}
}

func TestReadListFile(t *testing.T) {
	content := `# sources to refresh
ieee_830

nasa_swehb
ieee_830
  iso_29148  
`
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	entries, err := ReadListFile(path)
	if err != nil {
		t.Fatalf("ReadListFile failed: %v", err)
	}

	want := []string{"ieee_830", "nasa_swehb", "iso_29148"}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestReadListFile_Missing(t *testing.T) {
	if _, err := ReadListFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
