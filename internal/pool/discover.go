package pool

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ppiankov/regulqa/internal/dataset"
	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/worker"
	"go.uber.org/zap"
)

// RawFile is one discovered raw table file
type RawFile struct {
	Path   string
	Source string
	Tier   model.Tier
}

// Document returns the file name recorded as the record's document
func (f RawFile) Document() string {
	return filepath.Base(f.Path)
}

// Discover lists every CSV under the configured raw folders. Folders are
// visited in the given order and files within a folder in lexical order.
// Missing folders are ignored.
func Discover(rawDir string, folders []model.FolderSource) ([]RawFile, error) {
	var files []RawFile

	for _, folder := range folders {
		dir := filepath.Join(rawDir, folder.Folder)
		info, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", dir, err)
		}
		if !info.IsDir() {
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(dir), "**/*.csv")
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		sort.Strings(matches)

		tier := model.TierFromFolder(folder.Folder)
		for _, m := range matches {
			files = append(files, RawFile{
				Path:   filepath.Join(dir, filepath.FromSlash(m)),
				Source: folder.Source,
				Tier:   tier,
			})
		}
	}

	return files, nil
}

type readResult struct {
	file  RawFile
	table *model.RawTable
	err   error
}

func (r *readResult) GetError() error {
	return r.err
}

type readJob struct {
	file RawFile
}

func (j *readJob) Execute(ctx context.Context) worker.Result {
	if err := ctx.Err(); err != nil {
		return &readResult{file: j.file, err: err}
	}

	table, err := dataset.ReadTable(j.file.Path)
	if err != nil {
		return &readResult{file: j.file, err: err}
	}

	return &readResult{
		file: j.file,
		table: &model.RawTable{
			Source:   j.file.Source,
			Tier:     j.file.Tier,
			Document: j.file.Document(),
			Path:     j.file.Path,
			Columns:  table.Columns,
			Rows:     table.Rows,
		},
	}
}

// LoadTables reads files concurrently and returns the readable tables in the
// order of files. Unreadable files are logged and left out.
func LoadTables(ctx context.Context, files []RawFile, workers int, logger *zap.Logger) ([]model.RawTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	jobs := make([]worker.Job, len(files))
	for i, f := range files {
		jobs[i] = &readJob{file: f}
	}

	results := worker.RunAll(ctx, workers, jobs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables := make([]model.RawTable, 0, len(results))
	for _, res := range results {
		rr := res.(*readResult)
		if rr.err != nil {
			logger.Warn("skipping unreadable table",
				zap.String("document", rr.file.Document()),
				zap.String("path", rr.file.Path),
				zap.Error(rr.err))
			continue
		}
		tables = append(tables, *rr.table)
	}

	return tables, nil
}
