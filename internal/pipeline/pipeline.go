package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ppiankov/regulqa/internal/cache"
	"github.com/ppiankov/regulqa/internal/dataset"
	"github.com/ppiankov/regulqa/internal/extract"
	"github.com/ppiankov/regulqa/internal/label"
	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/pool"
	"github.com/ppiankov/regulqa/internal/score"
	"github.com/ppiankov/regulqa/internal/util"
	"github.com/ppiankov/regulqa/internal/worker"
	"go.uber.org/zap"
)

// Config file names below the config directory
const (
	OverridesFile = "sector_overrides.yaml"
	SourcesFile   = "sources_t3.yaml"
)

// Pipeline wires the corpus stages to one configuration
type Pipeline struct {
	config *model.Config
	logger *zap.Logger
}

// NewPipeline creates a pipeline. A nil logger disables logging.
func NewPipeline(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		config: cfg,
		logger: logger,
	}
}

// Config returns the pipeline configuration
func (p *Pipeline) Config() *model.Config {
	return p.config
}

// T3Dir is the raw folder holding harvested domain documents
func (p *Pipeline) T3Dir() string {
	for _, f := range p.config.Pool.Folders {
		if model.TierFromFolder(f.Folder) == model.TierT3 {
			return filepath.Join(p.config.RawDir(), f.Folder)
		}
	}
	return filepath.Join(p.config.RawDir(), "t3_domain")
}

// NewFetcher builds a fetcher with the configured rate limit, cache and CA bundle
func (p *Pipeline) NewFetcher() (*Fetcher, error) {
	limiter := worker.NewLimiter(p.config.RateLimiting.RequestsPerSecond, p.config.RateLimiting.BurstSize)

	opts := []FetcherOption{WithLimiter(limiter), WithLogger(p.logger)}
	if c := cache.FromConfig(p.config.Cache); c != nil {
		opts = append(opts, WithCache(c))
	}
	if bundle := p.config.HTTP.CABundle; bundle != "" && !p.config.HTTP.InsecureTLS {
		roots, err := util.LoadCABundle(bundle)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithRootCAs(roots))
	}
	return NewFetcher(p.config.HTTP, opts...), nil
}

// Fetch downloads the configured sources into the t3 downloads folder. An
// empty only list fetches every source.
func (p *Pipeline) Fetch(ctx context.Context, only []string, skipExisting bool) ([]*FetchOutcome, error) {
	sources, err := LoadSources(filepath.Join(p.config.ConfigDir(), SourcesFile))
	if err != nil {
		return nil, err
	}
	sources = FilterSources(sources, only)
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources selected")
	}

	fetcher, err := p.NewFetcher()
	if err != nil {
		return nil, err
	}
	outDir := filepath.Join(p.T3Dir(), DownloadsDir)
	return fetcher.FetchAll(ctx, sources, outDir, skipExisting, p.config.Concurrency.Workers)
}

// T1Dir is the raw folder of the given T1 source tag
func (p *Pipeline) T1Dir(source string) string {
	for _, f := range p.config.Pool.Folders {
		if f.Source == source && model.TierFromFolder(f.Folder) == model.TierT1 {
			return filepath.Join(p.config.RawDir(), f.Folder)
		}
	}
	for _, f := range model.DefaultFolders() {
		if f.Source == source {
			return filepath.Join(p.config.RawDir(), f.Folder)
		}
	}
	return filepath.Join(p.config.RawDir(), "t1_"+strings.ToLower(source))
}

// FetchT1 downloads the public T1 datasets: the PURE archive, the Promise+
// file and the Trick SRS requirements. A failing dataset does not stop the
// others; its error is in the outcome.
func (p *Pipeline) FetchT1(ctx context.Context) ([]*T1Outcome, error) {
	fetcher, err := p.NewFetcher()
	if err != nil {
		return nil, err
	}

	t1 := p.config.T1
	steps := []func() *T1Outcome{
		func() *T1Outcome { return fetcher.FetchPURE(ctx, t1.PURERecord, p.T1Dir(model.SourcePURE)) },
		func() *T1Outcome { return fetcher.FetchPromise(ctx, t1.PromiseRecord, p.T1Dir(model.SourcePromiseExp)) },
		func() *T1Outcome { return fetcher.ScrapeTrickSRS(ctx, t1.TrickSRS, p.T1Dir(model.SourceNASATrick)) },
	}

	outcomes := make([]*T1Outcome, 0, len(steps))
	for _, step := range steps {
		if ctx.Err() != nil {
			return outcomes, ctx.Err()
		}
		o := step()
		if o.Err != nil {
			p.logger.Warn("t1 dataset failed", zap.String("dataset", o.Dataset), zap.Error(o.Err))
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// NewSegmenter builds the sentence segmenter from the extract settings
func (p *Pipeline) NewSegmenter() (*extract.Segmenter, error) {
	ec := p.config.Extract
	return extract.NewSegmenterFromPattern(ec.Indicator, ec.MinLen, ec.MaxLen)
}

// Extract turns the t3 downloads into harvested CSVs and the merged t3 table
func (p *Pipeline) Extract(ctx context.Context) (*ExtractReport, error) {
	seg, err := p.NewSegmenter()
	if err != nil {
		return nil, err
	}

	t3 := p.T3Dir()
	ex := NewExtractor(seg, p.config.Concurrency.Workers, p.logger)
	return ex.ExtractDocuments(ctx,
		filepath.Join(t3, DownloadsDir),
		filepath.Join(t3, HarvestedDir),
		filepath.Join(t3, MergedFile))
}

// ConvertT1 converts the markup files of the t1 folders into CSVs
func (p *Pipeline) ConvertT1(ctx context.Context) ([]*FileOutcome, error) {
	ex := NewExtractor(nil, p.config.Concurrency.Workers, p.logger)
	return ex.ConvertT1(ctx, p.config.RawDir(), p.config.Pool.Folders)
}

// PoolPath is the output path of the pool table
func (p *Pipeline) PoolPath() string {
	return filepath.Join(p.config.ProcessedDir(), p.config.Pool.OutputFile)
}

// BuildPool discovers and reads the raw tables, builds the pool and writes it
// to PoolPath. A non-nil store receives the records too. pool.ErrNoInput is
// returned unwrapped when there is nothing to pool; nothing is written then.
func (p *Pipeline) BuildPool(ctx context.Context, store *dataset.Store) (*pool.Result, error) {
	overrides, err := pool.LoadOverrides(filepath.Join(p.config.ConfigDir(), OverridesFile))
	if err != nil {
		return nil, err
	}

	files, err := pool.Discover(p.config.RawDir(), p.config.Pool.Folders)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, pool.ErrNoInput
	}

	tables, err := pool.LoadTables(ctx, files, p.config.Concurrency.Workers, p.logger)
	if err != nil {
		return nil, err
	}

	builder := pool.NewBuilder(pool.NewSectorEngine(overrides), p.logger)
	result, err := builder.Build(tables)
	if err != nil {
		if errors.Is(err, pool.ErrNoInput) {
			return result, err
		}
		return nil, fmt.Errorf("build pool: %w", err)
	}
	result.Report.TablesSkipped += len(files) - len(tables)

	// The store goes first: a rejected batch leaves the CSV untouched
	if store != nil {
		if err := store.Save(ctx, result.Records); err != nil {
			return nil, fmt.Errorf("store pool: %w", err)
		}
	}
	if err := dataset.WriteRecords(p.PoolPath(), result.Records); err != nil {
		return nil, err
	}

	p.logger.Info("pool written",
		zap.String("path", p.PoolPath()),
		zap.Int("records", result.Report.Records),
		zap.Int("duplicates", result.Report.Duplicates))

	return result, nil
}

// LabelResult is the outcome of the label stage
type LabelResult struct {
	Records []model.Record
	Summary model.QualitySummary
	Output  string
}

// Label weak-labels the records of inPath and writes them to outPath. Empty
// paths fall back to the configured label files. Existing annotations are kept.
func (p *Pipeline) Label(ctx context.Context, inPath, outPath string, store *dataset.Store) (*LabelResult, error) {
	if inPath == "" {
		inPath = filepath.Join(p.config.ProcessedDir(), p.config.Label.InputFile)
	}
	if outPath == "" {
		outPath = filepath.Join(p.config.ProcessedDir(), p.config.Label.OutputFile)
	}

	records, err := dataset.ReadRecords(inPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", inPath, err)
	}

	engine := label.NewEngine(label.DefaultRules())
	labeled := engine.LabelAll(records)

	if store != nil {
		if err := store.Save(ctx, labeled); err != nil {
			return nil, fmt.Errorf("store labels: %w", err)
		}
	}
	if err := dataset.WriteRecords(outPath, labeled); err != nil {
		return nil, err
	}

	summary := score.Summarize(labeled)
	for _, w := range summary.Warnings {
		p.logger.Warn("quality warning", zap.String("warning", w), zap.String("path", outPath))
	}
	p.logger.Info("labels written", zap.String("path", outPath), zap.Int("records", len(labeled)))

	return &LabelResult{
		Records: labeled,
		Summary: summary,
		Output:  outPath,
	}, nil
}
