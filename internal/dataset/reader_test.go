package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestReadTable_StrictComma(t *testing.T) {
	path := writeFile(t, "a.csv", []byte("document,req_text\ndoc1,\"The system shall log, then halt.\"\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if table.Delimiter != ',' {
		t.Errorf("Expected comma delimiter, got %q", table.Delimiter)
	}
	if len(table.Rows) != 1 || table.Rows[0][1] != "The system shall log, then halt." {
		t.Errorf("Unexpected rows: %q", table.Rows)
	}
	if table.Encoding != "utf-8" {
		t.Errorf("Expected utf-8, got %s", table.Encoding)
	}
}

func TestReadTable_SemicolonFallback(t *testing.T) {
	data := "id;text\n1;The pump shall stop, then vent.\n2;The valve shall close.\n"
	path := writeFile(t, "b.csv", []byte(data))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("Expected fallback parse to succeed, got %v", err)
	}
	if table.Delimiter != ';' {
		t.Errorf("Expected ';' delimiter, got %q", table.Delimiter)
	}
	if len(table.Columns) != 2 || table.Columns[1] != "text" {
		t.Errorf("Unexpected header: %q", table.Columns)
	}
	if table.Rows[0][1] != "The pump shall stop, then vent." {
		t.Errorf("Unexpected first row: %q", table.Rows[0])
	}
}

func TestReadTable_TabFallbackPadsShortRows(t *testing.T) {
	data := "document\trequirement\textra\nd1\tThe ECU shall reset.\nd2\tThe ECU shall log.\tx\n"
	path := writeFile(t, "c.tsv", []byte(data))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if table.Delimiter != '\t' {
		t.Errorf("Expected tab delimiter, got %q", table.Delimiter)
	}
	if len(table.Rows[0]) != 3 {
		t.Errorf("Expected short row padded to 3 fields, got %d", len(table.Rows[0]))
	}
}

func TestReadTable_Utf8BOM(t *testing.T) {
	path := writeFile(t, "bom.csv", []byte("\xef\xbb\xbfreq_text\nThe system shall start.\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if table.Columns[0] != "req_text" {
		t.Errorf("Expected BOM to be stripped, got %q", table.Columns[0])
	}
	if table.Encoding != "utf-8-sig" {
		t.Errorf("Expected utf-8-sig, got %s", table.Encoding)
	}
}

func TestReadTable_Latin1Fallback(t *testing.T) {
	// "Zürich" in Latin-1
	path := writeFile(t, "latin.csv", []byte("req_text\nThe Z\xfcrich node shall sync.\n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if table.Encoding != "latin1" {
		t.Errorf("Expected latin1, got %s", table.Encoding)
	}
	if table.Rows[0][0] != "The Zürich node shall sync." {
		t.Errorf("Unexpected decoded text: %q", table.Rows[0][0])
	}
}

func TestReadTable_Empty(t *testing.T) {
	path := writeFile(t, "empty.csv", []byte("\n  \n"))

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("Expected empty table, got error %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(table.Rows))
	}
}

func TestReadTable_MissingFile(t *testing.T) {
	if _, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestResolveTextColumn(t *testing.T) {
	tests := []struct {
		columns []string
		want    int
		wantErr bool
	}{
		{[]string{"id", "Text"}, 1, false},
		{[]string{"document", "REQ_TEXT"}, 1, false},
		{[]string{"Requirements", "sentence"}, 0, false},
		{[]string{"id", " requirement "}, 1, false},
		{[]string{"id", "body"}, -1, true},
		{nil, -1, true},
	}

	for _, tt := range tests {
		got, err := ResolveTextColumn(tt.columns)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveTextColumn(%q) error = %v, wantErr %v", tt.columns, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrNoTextColumn) {
			t.Errorf("Expected ErrNoTextColumn, got %v", err)
		}
		if got != tt.want {
			t.Errorf("ResolveTextColumn(%q) = %d, want %d", tt.columns, got, tt.want)
		}
	}
}

func TestReadTable_LongRowRejected(t *testing.T) {
	data := "req_text\nThe system shall log, store and report faults.\nThe pump shall stop.\n"
	path := writeFile(t, "unquoted.csv", []byte(data))

	table, err := ReadTable(path)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("Expected ErrUnreadable, got %v (rows %q)", err, tableRows(table))
	}
}

func tableRows(table *Table) [][]string {
	if table == nil {
		return nil
	}
	return table.Rows
}
