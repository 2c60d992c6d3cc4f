package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ppiankov/regulqa/internal/dataset"
	"github.com/ppiankov/regulqa/internal/extract"
	"github.com/ppiankov/regulqa/internal/extract/adapters"
	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/worker"
	"go.uber.org/zap"
)

// Harvest layout below the t3 folder
const (
	DownloadsDir = "downloads"
	HarvestedDir = "harvested"
	MergedFile   = "ALL_t3_harvested.csv"
)

// harvestHeader is the column layout of harvested and converted CSVs
var harvestHeader = []string{"document", "req_text"}

// harvestExts are the download formats the extractor reads
var harvestExts = map[string]bool{
	"pdf": true, "html": true, "htm": true, "xhtml": true, "xml": true, "txt": true,
}

// T1Indicator selects requirement statements in converted T1 markup
var T1Indicator = extract.MustCompileWords(`shall|should`)

// Extractor turns downloaded documents into requirement CSVs
type Extractor struct {
	registry  *adapters.Registry
	segmenter *extract.Segmenter
	workers   int
	logger    *zap.Logger
}

// NewExtractor creates an extractor; nil segmenter and logger select defaults
func NewExtractor(segmenter *extract.Segmenter, workers int, logger *zap.Logger) *Extractor {
	if segmenter == nil {
		segmenter = extract.NewSegmenter(nil, extract.DefaultMinLen, extract.DefaultMaxLen)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		registry:  adapters.NewRegistry(),
		segmenter: segmenter,
		workers:   workers,
		logger:    logger,
	}
}

// Sentences extracts the requirement candidates of one file. Every adapter
// block is segmented on its own; candidates are deduplicated across blocks.
func (e *Extractor) Sentences(path string) ([]string, error) {
	doc, err := e.registry.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	var sentences []string
	for _, block := range doc.Blocks {
		sentences = append(sentences, e.segmenter.Segment(block)...)
	}
	return extract.DedupeStrings(sentences), nil
}

// FileOutcome is the result of extracting or converting one document
type FileOutcome struct {
	File string // source document path
	CSV  string // written CSV, empty when nothing was kept
	Rows int
	Err  error
}

// GetError implements worker.Result
func (o *FileOutcome) GetError() error {
	return o.Err
}

type fileJob struct {
	path string
	run  func(path string) (*FileOutcome, error)
}

func (j *fileJob) Execute(ctx context.Context) worker.Result {
	if err := ctx.Err(); err != nil {
		return &FileOutcome{File: j.path, Err: err}
	}
	out, err := j.run(j.path)
	if err != nil {
		return &FileOutcome{File: j.path, Err: err}
	}
	return out
}

// ExtractReport summarizes a harvest extraction
type ExtractReport struct {
	Outcomes   []*FileOutcome
	MergedPath string
	MergedRows int
}

// ExtractDocuments extracts every download in downloadsDir into one
// "<stem>.csv" per document under harvestedDir, merges all harvested CSVs
// into mergedPath deduplicated by req_text, and writes harvestedDir/manifest.json
func (e *Extractor) ExtractDocuments(ctx context.Context, downloadsDir, harvestedDir, mergedPath string) (*ExtractReport, error) {
	entries, err := os.ReadDir(downloadsDir)
	if err != nil {
		return nil, fmt.Errorf("read downloads: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !harvestExts[adapters.Ext(entry.Name())] {
			continue
		}
		files = append(files, filepath.Join(downloadsDir, entry.Name()))
	}
	sort.Strings(files)

	run := func(path string) (*FileOutcome, error) {
		sentences, err := e.Sentences(path)
		if err != nil {
			return nil, err
		}
		out := &FileOutcome{File: path, Rows: len(sentences)}
		if len(sentences) == 0 {
			return out, nil
		}

		name := filepath.Base(path)
		out.CSV = filepath.Join(harvestedDir, strings.TrimSuffix(name, filepath.Ext(name))+".csv")
		if err := dataset.WriteCSV(out.CSV, harvestHeader, documentRows(name, sentences)); err != nil {
			return nil, err
		}
		return out, nil
	}

	report := &ExtractReport{Outcomes: e.runFiles(ctx, files, run)}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest := NewManifest()
	for _, o := range report.Outcomes {
		e.logOutcome(o)
		if o.Err == nil && o.Rows > 0 {
			manifest.Files = append(manifest.Files, model.ManifestFile{File: filepath.Base(o.File), Rows: o.Rows})
		}
	}

	rows, err := mergeHarvested(harvestedDir, mergedPath)
	if err != nil {
		return report, err
	}
	if rows > 0 {
		report.MergedPath = mergedPath
		report.MergedRows = rows
	}

	if err := WriteManifest(filepath.Join(harvestedDir, ManifestFile), manifest); err != nil {
		return report, err
	}
	return report, nil
}

// ConvertT1 converts the HTML and XML files below the t1 folders of rawDir
// into sibling CSVs. Element texts longer than five characters that carry
// shall or should are kept.
func (e *Extractor) ConvertT1(ctx context.Context, rawDir string, folders []model.FolderSource) ([]*FileOutcome, error) {
	filter := extract.NewSegmenter(T1Indicator, 6, 0)

	var files []string
	for _, f := range folders {
		if model.TierFromFolder(f.Folder) != model.TierT1 {
			continue
		}
		dir := filepath.Join(rawDir, f.Folder)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(dir), "**/*.{html,htm,xhtml,xml,HTML,HTM,XHTML,XML}")
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
		}
	}

	run := func(path string) (*FileOutcome, error) {
		doc, err := e.registry.ExtractFile(path)
		if err != nil {
			return nil, err
		}

		var kept []string
		for _, block := range doc.Blocks {
			if text := extract.Normalize(block); filter.Accept(text) {
				kept = append(kept, text)
			}
		}
		kept = extract.DedupeStrings(kept)

		out := &FileOutcome{File: path, Rows: len(kept)}
		if len(kept) == 0 {
			return out, nil
		}

		out.CSV = strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
		if err := dataset.WriteCSV(out.CSV, harvestHeader, documentRows(doc.Name, kept)); err != nil {
			return nil, err
		}
		return out, nil
	}

	outcomes := e.runFiles(ctx, files, run)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		e.logOutcome(o)
	}
	return outcomes, nil
}

func (e *Extractor) runFiles(ctx context.Context, files []string, run func(string) (*FileOutcome, error)) []*FileOutcome {
	jobs := make([]worker.Job, len(files))
	for i, f := range files {
		jobs[i] = &fileJob{path: f, run: run}
	}

	results := worker.RunAll(ctx, e.workers, jobs)
	outcomes := make([]*FileOutcome, len(results))
	for i, res := range results {
		outcomes[i] = res.(*FileOutcome)
	}
	return outcomes
}

func (e *Extractor) logOutcome(o *FileOutcome) {
	switch {
	case o.Err != nil:
		e.logger.Warn("skipping document", zap.String("document", filepath.Base(o.File)), zap.String("path", o.File), zap.Error(o.Err))
	case o.Rows == 0:
		e.logger.Info("no requirements found", zap.String("document", filepath.Base(o.File)))
	default:
		e.logger.Debug("document extracted", zap.String("document", filepath.Base(o.File)), zap.String("csv", o.CSV), zap.Int("rows", o.Rows))
	}
}

func documentRows(document string, sentences []string) [][]string {
	rows := make([][]string, len(sentences))
	for i, s := range sentences {
		rows[i] = []string{document, s}
	}
	return rows
}

// mergeHarvested concatenates every CSV in harvestedDir in name order and
// writes the rows with a distinct req_text to mergedPath. Nothing is written
// when there are no rows.
func mergeHarvested(harvestedDir, mergedPath string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(harvestedDir, "*.csv"))
	if err != nil {
		return 0, fmt.Errorf("glob harvested: %w", err)
	}
	sort.Strings(paths)

	var rows [][]string
	seen := make(map[string]bool)
	for _, p := range paths {
		table, err := dataset.ReadTable(p)
		if err != nil {
			return 0, err
		}
		index := dataset.HeaderIndex(table.Columns)
		docCol, hasDoc := index["document"]
		textCol, hasText := index["req_text"]
		if !hasText {
			continue
		}
		for _, row := range table.Rows {
			if textCol >= len(row) || seen[row[textCol]] {
				continue
			}
			seen[row[textCol]] = true

			doc := filepath.Base(p)
			if hasDoc && docCol < len(row) {
				doc = row[docCol]
			}
			rows = append(rows, []string{doc, row[textCol]})
		}
	}

	if len(rows) == 0 {
		return 0, nil
	}
	if err := dataset.WriteCSV(mergedPath, harvestHeader, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
