package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/ppiankov/regulqa/internal/model"
	"github.com/ppiankov/regulqa/internal/util"
)

// ErrMissingReqText is returned when a record table lacks the req_text column
var ErrMissingReqText = errors.New("req_text column missing")

// WriteCSV writes header and rows to path. The table is staged in a sibling
// temp file and renamed into place, so readers never see a partial table.
func WriteCSV(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteRecords writes records with the standard column order
func WriteRecords(path string, records []model.Record) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Row()
	}
	return WriteCSV(path, model.Columns, rows)
}

// ReadRecords reads a pool or labeled table. Columns other than the standard
// ones are ignored; missing annotation columns read as empty.
func ReadRecords(path string) ([]model.Record, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return RecordsFromTable(table)
}

// RecordsFromTable converts a parsed table into records
func RecordsFromTable(table *Table) ([]model.Record, error) {
	index := HeaderIndex(table.Columns)
	if _, ok := index["req_text"]; !ok {
		return nil, fmt.Errorf("%w (found %v)", ErrMissingReqText, table.Columns)
	}

	records := make([]model.Record, len(table.Rows))
	for i, row := range table.Rows {
		records[i] = model.RecordFromRow(index, row)
	}
	return records, nil
}
