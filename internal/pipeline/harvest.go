package pipeline

import (
	"context"
	"path/filepath"

	"github.com/ppiankov/regulqa/internal/worker"
	"go.uber.org/zap"
)

// FetchOutcome is the result of downloading one source
type FetchOutcome struct {
	Source   Source
	Download *Download
	Err      error
}

// GetError implements worker.Result
func (o *FetchOutcome) GetError() error {
	return o.Err
}

type fetchJob struct {
	fetcher      *Fetcher
	source       Source
	outDir       string
	skipExisting bool
}

func (j *fetchJob) Execute(ctx context.Context) worker.Result {
	dl, err := j.fetcher.FetchSource(ctx, j.source, j.outDir, j.skipExisting)
	return &FetchOutcome{Source: j.source, Download: dl, Err: err}
}

// FetchAll downloads sources on a worker pool and records every file that
// ended up on disk in outDir/manifest.json. Outcomes follow the order of sources.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source, outDir string, skipExisting bool, workers int) ([]*FetchOutcome, error) {
	jobs := make([]worker.Job, len(sources))
	for i, src := range sources {
		jobs[i] = &fetchJob{fetcher: f, source: src, outDir: outDir, skipExisting: skipExisting}
	}

	results := worker.RunAll(ctx, workers, jobs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest := NewManifest()
	manifest.Downloaded = []string{}

	outcomes := make([]*FetchOutcome, len(results))
	for i, res := range results {
		o := res.(*FetchOutcome)
		outcomes[i] = o
		if o.Err != nil {
			f.logger.Warn("source failed", zap.String("name", o.Source.Name), zap.String("url", o.Source.URL), zap.Error(o.Err))
			continue
		}
		manifest.Downloaded = append(manifest.Downloaded, o.Download.Path)
	}

	if err := WriteManifest(filepath.Join(outDir, ManifestFile), manifest); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}
