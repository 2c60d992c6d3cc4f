package pool

import (
	"errors"
	"sort"
	"unicode/utf8"

	"github.com/ppiankov/regulqa/internal/dataset"
	"github.com/ppiankov/regulqa/internal/extract"
	"github.com/ppiankov/regulqa/internal/model"
	"go.uber.org/zap"
)

// ErrNoInput signals an empty corpus: no usable tables or no rows left after
// filtering. It is a legitimate outcome, not a failure.
var ErrNoInput = errors.New("no input")

// MinTextLen is the exclusive lower bound on req_text length
const MinTextLen = 5

// Builder merges raw tables into the deduplicated, identified, sector-tagged pool
type Builder struct {
	sectors *SectorEngine
	logger  *zap.Logger
}

// NewBuilder creates a pool builder. A nil logger disables logging.
func NewBuilder(sectors *SectorEngine, logger *zap.Logger) *Builder {
	if sectors == nil {
		sectors = NewSectorEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		sectors: sectors,
		logger:  logger,
	}
}

// Result is the pool together with its build report
type Result struct {
	Records []model.Record
	Report  model.PoolReport
}

// Build runs the pooling algorithm over tables. Tables are processed in tier
// order (T1, T2, T3); within a tier the given order is kept, so the first
// occurrence of a duplicate text follows tier and scan order.
// When nothing usable remains the partial report is returned with ErrNoInput.
func (b *Builder) Build(tables []model.RawTable) (*Result, error) {
	ordered := make([]model.RawTable, len(tables))
	copy(ordered, tables)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Tier.Rank() < ordered[j].Tier.Rank()
	})

	result := &Result{}
	report := &result.Report

	var records []model.Record
	for _, table := range ordered {
		if table.Empty() {
			b.skip(report, table, "empty table")
			continue
		}

		col, err := dataset.ResolveTextColumn(table.Columns)
		if err != nil {
			b.skip(report, table, err.Error())
			continue
		}

		report.TablesRead++
		for _, row := range table.Rows {
			report.RowsRead++

			var text string
			if col < len(row) {
				text = row[col]
			}
			records = append(records, model.Record{
				Source:   table.Source,
				Tier:     table.Tier,
				Document: table.Document,
				ReqText:  extract.Normalize(text),
			})
		}

		b.logger.Debug("table read",
			zap.String("document", table.Document),
			zap.String("source", table.Source),
			zap.Int("rows", len(table.Rows)))
	}

	if report.TablesRead == 0 {
		return result, ErrNoInput
	}

	kept := records[:0]
	for _, rec := range records {
		if utf8.RuneCountInString(rec.ReqText) > MinTextLen {
			kept = append(kept, rec)
		}
	}
	report.RowsDropped = len(records) - len(kept)

	unique, dupes := extract.DedupeRecords(kept)
	report.Duplicates = dupes

	for i := range unique {
		unique[i].ID = FormatID(unique[i].Source, i)
		unique[i].Sector = b.sectors.Infer(unique[i])
	}

	result.Records = unique
	report.Records = len(unique)

	if len(unique) == 0 {
		return result, ErrNoInput
	}

	b.logger.Info("pool built",
		zap.Int("tables", report.TablesRead),
		zap.Int("skipped", report.TablesSkipped),
		zap.Int("records", report.Records),
		zap.Int("duplicates", report.Duplicates))

	return result, nil
}

func (b *Builder) skip(report *model.PoolReport, table model.RawTable, reason string) {
	report.TablesSkipped++
	report.Skipped = append(report.Skipped, model.SkipNote{Document: table.Document, Reason: reason})
	b.logger.Warn("skipping table",
		zap.String("document", table.Document),
		zap.String("path", table.Path),
		zap.String("source", table.Source),
		zap.String("reason", reason))
}
